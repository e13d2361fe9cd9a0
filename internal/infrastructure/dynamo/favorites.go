package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/realty-api/internal/domain"
)

// FavoriteRepo provides typed DynamoDB operations for the favorites table.
// The table's composite key (user_id, property_id) carries the uniqueness
// constraint; Put enforces it with a conditional write rather than a
// check-then-insert round trip.
type FavoriteRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewFavoriteRepo(client *dynamodb.Client, tableName string) *FavoriteRepo {
	return &FavoriteRepo{client: client, tableName: tableName}
}

// Put inserts a favorite. A second insert of the same (user, property) pair
// fails the condition and surfaces as domain.ErrConflict.
func (r *FavoriteRepo) Put(ctx context.Context, f *domain.Favorite) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal favorite: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("property already favorited: %w", domain.ErrConflict)
	}
	return err
}

// ListByUser returns all favorites for a user, ordered by the property id
// range key.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": &types.AttributeValueMemberS{Value: userID}},
	})
	if err != nil {
		return nil, err
	}
	favs := []domain.Favorite{}
	if err := attributevalue.UnmarshalListOfMaps(items, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

// Delete removes the (user, property) favorite; a missing pair maps to
// domain.ErrNotFound.
func (r *FavoriteRepo) Delete(ctx context.Context, userID, propertyID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey(fieldUserID, userID, fieldPropertyID, propertyID),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("favorite not found: %w", domain.ErrNotFound)
	}
	return err
}
