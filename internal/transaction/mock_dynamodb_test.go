package transaction

import (
	"context"
	"errors"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the pieces of DynamoDB the
// store uses: PutItem, GetItem and conditional UpdateItem. Keys are pk|sk.
// UpdateItem holds the lock across condition check and mutation, mirroring
// the atomicity the real service provides.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		items: map[string]map[string]types.AttributeValue{},
	}
}

func compositeKey(attrs map[string]types.AttributeValue) string {
	pk := attrs["pk"].(*types.AttributeValueMemberS).Value
	sk := attrs["sk"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if params.Item == nil {
		return nil, errors.New("nil item")
	}
	m.items[compositeKey(params.Item)] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[compositeKey(params.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[compositeKey(params.Key)]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}

	// evaluate "transactionStatus IN (:from0, ...)"
	if params.ConditionExpression != nil && strings.Contains(*params.ConditionExpression, "transactionStatus IN") {
		current := item["transactionStatus"].(*types.AttributeValueMemberS).Value
		member := false
		for name, val := range params.ExpressionAttributeValues {
			if strings.HasPrefix(name, ":from") {
				if val.(*types.AttributeValueMemberS).Value == current {
					member = true
				}
			}
		}
		if !member {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	old := map[string]types.AttributeValue{}
	for k, v := range item {
		old[k] = v
	}
	item["transactionStatus"] = params.ExpressionAttributeValues[":to"]
	m.items[compositeKey(params.Key)] = item

	return &dyn.UpdateItemOutput{Attributes: old}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	return &dyn.QueryOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return &dyn.ScanOutput{}, nil
}

func (m *mockDynamo) BatchGetItem(ctx context.Context, params *dyn.BatchGetItemInput, optFns ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error) {
	return &dyn.BatchGetItemOutput{}, nil
}
