package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/realty-api/internal/domain"
)

// PropertyRepo provides typed DynamoDB operations for the properties table.
type PropertyRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPropertyRepo(client *dynamodb.Client, tableName string) *PropertyRepo {
	return &PropertyRepo{client: client, tableName: tableName}
}

func (r *PropertyRepo) Put(ctx context.Context, p *domain.Property) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal property: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PropertyRepo) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldPropertyID, propertyID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	var p domain.Property
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every property document. Callers serve this through the cache
// layer; the scan is the loader on a miss.
func (r *PropertyRepo) List(ctx context.Context) ([]domain.Property, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	props := []domain.Property{}
	if err := attributevalue.UnmarshalListOfMaps(items, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// Search scans with a filter expression built from the populated filter
// fields. Results are never cached; filtered queries have
// unbounded key cardinality.
func (r *PropertyRepo) Search(ctx context.Context, f domain.PropertySearchFilter) ([]domain.Property, error) {
	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	addStr := func(cond, nameKey, attr, valueKey, v string) {
		conds = append(conds, cond)
		if nameKey != "" {
			names[nameKey] = attr
		}
		values[valueKey] = &types.AttributeValueMemberS{Value: v}
	}
	if f.City != "" {
		addStr("city = :city", "", "", ":city", f.City)
	}
	if f.State != "" {
		addStr("#st = :state", "#st", "state", ":state", f.State)
	}
	if f.Type != "" {
		addStr("#ty = :type", "#ty", "type", ":type", f.Type)
	}
	if f.ListingType != "" {
		addStr("listing_type = :lt", "", "", ":lt", f.ListingType)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= :maxPrice")
		values[":maxPrice"] = numAttr(*f.MaxPrice)
	}
	if f.MinAreaSqFt != nil {
		conds = append(conds, "area_sqft >= :minArea")
		values[":minArea"] = numAttr(*f.MinAreaSqFt)
	}
	if f.Bedrooms != nil {
		conds = append(conds, "bedrooms = :bedrooms")
		values[":bedrooms"] = numAttr(float64(*f.Bedrooms))
	}
	if f.Bathrooms != nil {
		conds = append(conds, "bathrooms = :bathrooms")
		values[":bathrooms"] = numAttr(float64(*f.Bathrooms))
	}
	if f.Furnished != nil {
		conds = append(conds, "furnished = :furnished")
		values[":furnished"] = &types.AttributeValueMemberBOOL{Value: *f.Furnished}
	}
	if f.IsVerified != nil {
		conds = append(conds, "is_verified = :verified")
		values[":verified"] = &types.AttributeValueMemberBOOL{Value: *f.IsVerified}
	}

	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if len(conds) > 0 {
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
		input.ExpressionAttributeValues = values
		if len(names) > 0 {
			input.ExpressionAttributeNames = names
		}
	}
	items, err := scanAll(ctx, r.client, input)
	if err != nil {
		return nil, err
	}
	props := []domain.Property{}
	if err := attributevalue.UnmarshalListOfMaps(items, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (r *PropertyRepo) Update(ctx context.Context, propertyID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldPropertyID, propertyID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(property_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *PropertyRepo) Delete(ctx context.Context, propertyID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldPropertyID, propertyID),
		ConditionExpression: aws.String("attribute_exists(property_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	return err
}

func numAttr(v float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'f', -1, 64)}
}
