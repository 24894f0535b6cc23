package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
)

// ErrNotFound indicates the order does not exist.
var ErrNotFound = errors.New("order not found")

// Repository encapsulates operations on the orders table.
type Repository struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

func NewRepository(client awsx.DynamoDBAPI, tableName string) *Repository {
	return &Repository{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create assigns the order id and creation time and writes the order.
func (r *Repository) Create(ctx context.Context, order Order) (*Order, error) {
	order.SK = uuid.NewString()
	order.CreatedAt = r.nowFunc().UnixMilli()

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}
	return &order, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]Order, error) {
	out, err := r.client.Scan(ctx, &dyn.ScanInput{
		TableName:            &r.tableName,
		ProjectionExpression: awsString("pk, sk, createdAt, shipping, billing"),
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	return unmarshalOrders(out.Items)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) ([]Order, error) {
	out, err := r.client.Query(ctx, &dyn.QueryInput{
		TableName:              &r.tableName,
		ProjectionExpression:   awsString("pk, sk, createdAt, shipping, billing"),
		KeyConditionExpression: awsString("pk = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return unmarshalOrders(out.Items)
}

func (r *Repository) Get(ctx context.Context, email, orderID string) (*Order, error) {
	out, err := r.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &r.tableName,
		Key:       orderKey(email, orderID),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// Delete removes an order, returning it; ErrNotFound when absent.
func (r *Repository) Delete(ctx context.Context, email, orderID string) (*Order, error) {
	out, err := r.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:    &r.tableName,
		Key:          orderKey(email, orderID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, ErrNotFound
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

func unmarshalOrders(items []map[string]types.AttributeValue) ([]Order, error) {
	list := make([]Order, 0, len(items))
	for _, item := range items {
		var o Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		list = append(list, o)
	}
	return list, nil
}

func orderKey(email, orderID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: email},
		"sk": &types.AttributeValueMemberS{Value: orderID},
	}
}

func awsString(s string) *string { return &s }
