package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedScanner serves canned scan pages and records the start key of each
// call so tests can verify the cursor is threaded between pages.
type pagedScanner struct {
	pages     []*dynamodb.ScanOutput
	startKeys []map[string]types.AttributeValue
	err       error
}

func (p *pagedScanner) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.startKeys = append(p.startKeys, in.ExclusiveStartKey)
	out := p.pages[0]
	p.pages = p.pages[1:]
	return out, nil
}

type pagedQuerier struct {
	pages []*dynamodb.QueryOutput
	calls int
}

func (p *pagedQuerier) Query(_ context.Context, _ *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	out := p.pages[p.calls]
	p.calls++
	return out, nil
}

func itemWithID(name, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{name: &types.AttributeValueMemberS{Value: id}}
}

func TestScanAll_FollowsLastEvaluatedKey(t *testing.T) {
	cursor := itemWithID("property_id", "p2")
	scanner := &pagedScanner{pages: []*dynamodb.ScanOutput{
		{
			Items:            []map[string]types.AttributeValue{itemWithID("property_id", "p1"), itemWithID("property_id", "p2")},
			LastEvaluatedKey: cursor,
		},
		{
			Items: []map[string]types.AttributeValue{itemWithID("property_id", "p3")},
		},
	}}

	items, err := scanAll(context.Background(), scanner, &dynamodb.ScanInput{TableName: aws.String("properties")})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	// Second request must resume from the first page's cursor.
	require.Len(t, scanner.startKeys, 2)
	assert.Nil(t, scanner.startKeys[0])
	assert.Equal(t, cursor, scanner.startKeys[1])
}

func TestScanAll_SinglePage(t *testing.T) {
	scanner := &pagedScanner{pages: []*dynamodb.ScanOutput{
		{Items: []map[string]types.AttributeValue{itemWithID("user_id", "u1")}},
	}}
	items, err := scanAll(context.Background(), scanner, &dynamodb.ScanInput{TableName: aws.String("users")})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Len(t, scanner.startKeys, 1)
}

func TestScanAll_PropagatesError(t *testing.T) {
	scanner := &pagedScanner{err: errors.New("throttled")}
	_, err := scanAll(context.Background(), scanner, &dynamodb.ScanInput{TableName: aws.String("users")})
	assert.ErrorContains(t, err, "throttled")
}

func TestQueryAll_FollowsLastEvaluatedKey(t *testing.T) {
	querier := &pagedQuerier{pages: []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{itemWithID("receiver_id", "r1")},
			LastEvaluatedKey: itemWithID("receiver_id", "r1"),
		},
		{
			Items: []map[string]types.AttributeValue{itemWithID("receiver_id", "r1")},
		},
	}}
	items, err := queryAll(context.Background(), querier, &dynamodb.QueryInput{TableName: aws.String("recommendations")})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, querier.calls)
}

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"title": "Sunny loft"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "title"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"city":  "Austin",
		"price": 425000.0,
		"title": "Sunny loft",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: city < price < title
	assert.Equal(t, "city", ue1.Names["#f0"])
	assert.Equal(t, "price", ue1.Names["#f1"])
	assert.Equal(t, "title", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"is_verified": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}
