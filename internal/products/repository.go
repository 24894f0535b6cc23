package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
)

// ErrNotFound indicates the product does not exist.
var ErrNotFound = errors.New("product not found")

// Repository encapsulates operations on the products table.
type Repository struct {
	client    awsx.DynamoDBAPI
	tableName string
}

func NewRepository(client awsx.DynamoDBAPI, tableName string) *Repository {
	return &Repository{
		client:    client,
		tableName: tableName,
	}
}

func (r *Repository) GetAll(ctx context.Context) ([]Product, error) {
	out, err := r.client.Scan(ctx, &dyn.ScanInput{
		TableName: &r.tableName,
	})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}

	list := make([]Product, 0, len(out.Items))
	for _, item := range out.Items {
		var p Product
		if err := attributevalue.UnmarshalMap(item, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		list = append(list, p)
	}
	return list, nil
}

func (r *Repository) GetByID(ctx context.Context, productID string) (*Product, error) {
	out, err := r.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &r.tableName,
		Key:       productKey(productID),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// GetByIDs fetches a batch of products. Missing ids are simply absent from
// the result; the caller decides whether that is an error.
func (r *Repository) GetByIDs(ctx context.Context, productIDs []string) ([]Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}

	out, err := r.client.BatchGetItem(ctx, &dyn.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			r.tableName: {Keys: keys},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("batch get items: %w", err)
	}

	items := out.Responses[r.tableName]
	list := make([]Product, 0, len(items))
	for _, item := range items {
		var p Product
		if err := attributevalue.UnmarshalMap(item, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		list = append(list, p)
	}
	return list, nil
}

// Create assigns a fresh id and writes the product.
func (r *Repository) Create(ctx context.Context, p Product) (*Product, error) {
	p.ID = uuid.NewString()

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("marshal product: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}
	return &p, nil
}

// Update overwrites an existing product's attributes; ErrNotFound when the
// id does not exist.
func (r *Repository) Update(ctx context.Context, productID string, p Product) (*Product, error) {
	p.ID = productID

	_, err := r.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:           &r.tableName,
		Key:                 productKey(productID),
		ConditionExpression: awsString("attribute_exists(id)"),
		UpdateExpression:    awsString("SET productName = :n, code = :c, price = :p, model = :m, productUrl = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberS{Value: p.ProductName},
			":c": &types.AttributeValueMemberS{Value: p.Code},
			":p": &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", p.Price)},
			":m": &types.AttributeValueMemberS{Value: p.Model},
			":u": &types.AttributeValueMemberS{Value: p.ProductURL},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return &p, nil
}

// Delete removes a product, returning it; ErrNotFound when absent.
func (r *Repository) Delete(ctx context.Context, productID string) (*Product, error) {
	out, err := r.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:    &r.tableName,
		Key:          productKey(productID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, ErrNotFound
	}

	var p Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

func productKey(productID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: productID},
	}
}

func awsString(s string) *string { return &s }
