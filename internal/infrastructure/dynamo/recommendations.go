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

// RecommendationRepo provides typed DynamoDB operations for the
// recommendations table. The receiver_id + edge_id ("sender#property") key
// makes the (sender, receiver, property) triple unique at the store level, so
// no check-then-insert race exists.
type RecommendationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRecommendationRepo(client *dynamodb.Client, tableName string) *RecommendationRepo {
	return &RecommendationRepo{client: client, tableName: tableName}
}

// Put inserts a recommendation edge. A duplicate triple fails the condition
// and surfaces as domain.ErrConflict.
func (r *RecommendationRepo) Put(ctx context.Context, rec *domain.Recommendation) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(receiver_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("property already recommended to this user: %w", domain.ErrConflict)
	}
	return err
}

// GetByID resolves a recommendation by its public id via the
// recommendation_id GSI.
func (r *RecommendationRepo) GetByID(ctx context.Context, recommendationID string) (*domain.Recommendation, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("recommendation_id-index"),
		KeyConditionExpression:    aws.String("recommendation_id = :rid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":rid": &types.AttributeValueMemberS{Value: recommendationID}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("recommendation not found: %w", domain.ErrNotFound)
	}
	var rec domain.Recommendation
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByReceiver returns all recommendations received by a user.
func (r *RecommendationRepo) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Recommendation, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("receiver_id = :rid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":rid": &types.AttributeValueMemberS{Value: receiverID}},
	})
	if err != nil {
		return nil, err
	}
	recs := []domain.Recommendation{}
	if err := attributevalue.UnmarshalListOfMaps(items, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListBySender returns all recommendations a user has sent, via the sender
// GSI.
func (r *RecommendationRepo) ListBySender(ctx context.Context, senderID string) ([]domain.Recommendation, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("sender_id-index"),
		KeyConditionExpression:    aws.String("sender_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":sid": &types.AttributeValueMemberS{Value: senderID}},
	})
	if err != nil {
		return nil, err
	}
	recs := []domain.Recommendation{}
	if err := attributevalue.UnmarshalListOfMaps(items, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Delete removes a recommendation by its table key.
func (r *RecommendationRepo) Delete(ctx context.Context, receiverID, edgeID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldReceiverID, receiverID, fieldEdgeID, edgeID),
	})
	return err
}
