package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pbrandao/go-invoice-flow/internal/transaction"
)

// mockDynamo backs both the transaction store and the invoice repository
// (the real deployment shares one table). Conditional UpdateItem holds the
// lock across check and mutation.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func compositeKey(attrs map[string]types.AttributeValue) string {
	pk := attrs["pk"].(*types.AttributeValueMemberS).Value
	sk := attrs["sk"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

func (m *mockDynamo) invoiceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.items {
		if strings.HasPrefix(key, "#invoice_") {
			n++
		}
	}
	return n
}

func (m *mockDynamo) transactionStatus(id string) transaction.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[transaction.PartitionKey+"|"+id]
	if !ok {
		return ""
	}
	return transaction.Status(item["transactionStatus"].(*types.AttributeValueMemberS).Value)
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

// mockStorage is an in-memory bucket.
type mockStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes int
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: map[string][]byte{}}
}

func (m *mockStorage) put(key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
}

func (m *mockStorage) deleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes
}

func (m *mockStorage) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.objects[*params.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (m *mockStorage) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *params.Key)
	m.deletes++
	return &s3.DeleteObjectOutput{}, nil
}

// mockPresigner hands out deterministic URLs.
type mockPresigner struct{}

func (mockPresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{
		URL:    "https://upload.local/" + *params.Key,
		Method: "PUT",
	}, nil
}

// mockNotifier records everything pushed to the channel. failAll simulates a
// dead connection.
type mockNotifier struct {
	mu       sync.Mutex
	payloads [][]byte
	statuses []transaction.Status
	failAll  bool
}

func (m *mockNotifier) Send(ctx context.Context, connectionID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errors.New("connection gone")
	}
	m.payloads = append(m.payloads, data)
	return nil
}

func (m *mockNotifier) SendStatus(ctx context.Context, transactionID, connectionID string, status transaction.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errors.New("connection gone")
	}
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockNotifier) sentStatuses() []transaction.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]transaction.Status, len(m.statuses))
	copy(out, m.statuses)
	return out
}

// mockCloudWatch accepts every metric.
type mockCloudWatch struct {
	mu    sync.Mutex
	calls int
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return &cloudwatch.PutMetricDataOutput{}, nil
}
