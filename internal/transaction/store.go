package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
)

// ErrNotFound indicates the transaction is absent or its ttl has elapsed.
var ErrNotFound = errors.New("transaction not found")

// ErrStatusMismatch indicates a conditional transition found the stored
// status outside the expected set. Nothing was mutated.
var ErrStatusMismatch = errors.New("transaction status mismatch")

// Store encapsulates transaction records in the invoices table. Every
// mutation is a single-key operation; concurrency safety for the state
// machine comes entirely from the conditional expression in UpdateStatus.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put creates or overwrites a record unconditionally. Used only at issuance,
// where the id is freshly generated.
func (s *Store) Put(ctx context.Context, rec Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches a record by transaction id. A record whose ttl has elapsed is
// reported as ErrNotFound even if DynamoDB has not reclaimed it yet.
func (s *Store) Get(ctx context.Context, transactionID string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       recordKey(transactionID),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if rec.TTL > 0 && rec.TTL <= s.nowFunc().Unix() {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// UpdateStatus transitions the record to `to` only if the stored status is a
// member of `from`, returning the record as it was before the update. On a
// lost race (or an unknown id) it returns ErrStatusMismatch and mutates
// nothing.
func (s *Store) UpdateStatus(ctx context.Context, transactionID string, from []Status, to Status) (*Record, error) {
	if len(from) == 0 {
		return nil, fmt.Errorf("update status: empty expected set")
	}

	values := map[string]types.AttributeValue{
		":to": &types.AttributeValueMemberS{Value: string(to)},
	}
	placeholders := make([]string, 0, len(from))
	for i, st := range from {
		ph := fmt.Sprintf(":from%d", i)
		placeholders = append(placeholders, ph)
		values[ph] = &types.AttributeValueMemberS{Value: string(st)}
	}
	condition := fmt.Sprintf("transactionStatus IN (%s)", strings.Join(placeholders, ", "))

	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       recordKey(transactionID),
		UpdateExpression:          awsString("SET transactionStatus = :to"),
		ConditionExpression:       &condition,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllOld,
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return nil, ErrStatusMismatch
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	var prev Record
	if err := attributevalue.UnmarshalMap(out.Attributes, &prev); err != nil {
		return nil, fmt.Errorf("unmarshal previous record: %w", err)
	}
	return &prev, nil
}

func recordKey(transactionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: PartitionKey},
		"sk": &types.AttributeValueMemberS{Value: transactionID},
	}
}

func awsString(s string) *string { return &s }
