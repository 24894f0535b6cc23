package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/pbrandao/go-invoice-flow/pkg/logger"
)

// Consumer persists order events arriving from the queue. Delivery is
// at-least-once; records are keyed (#order_<id>, <type>#<millis>) so a
// redelivered message overwrites its own row instead of duplicating it.
type Consumer struct {
	repo    *Repository
	ttl     time.Duration
	log     *logger.Logger
	nowFunc func() time.Time
}

func NewConsumer(repo *Repository, ttl time.Duration, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Consumer{
		repo:    repo,
		ttl:     ttl,
		log:     log,
		nowFunc: time.Now,
	}
}

// Handle processes an SQS batch; a failing record fails the invocation so
// the batch is redelivered.
func (c *Consumer) Handle(ctx context.Context, event events.SQSEvent) error {
	for _, msg := range event.Records {
		if err := c.processMessage(ctx, msg.MessageId, []byte(msg.Body)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Consumer) processMessage(ctx context.Context, messageID string, body []byte) error {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	var event OrderEvent
	if err := json.Unmarshal([]byte(envelope.Data), &event); err != nil {
		return fmt.Errorf("decode order event: %w", err)
	}

	ctx = logger.WithRequestID(ctx, event.RequestID)

	now := c.nowFunc()
	rec := Record{
		PK:        "#order_" + event.OrderID,
		SK:        fmt.Sprintf("%s#%d", envelope.EventType, now.UnixMilli()),
		Email:     event.Email,
		CreatedAt: now.UnixMilli(),
		RequestID: event.RequestID,
		EventType: envelope.EventType,
		Info: Info{
			MessageID:    messageID,
			OrderID:      event.OrderID,
			ProductCodes: event.ProductCodes,
		},
		TTL: now.Add(c.ttl).Unix(),
	}

	if err := c.repo.Create(ctx, rec); err != nil {
		return fmt.Errorf("persist order event: %w", err)
	}

	c.log.Info(ctx, "order event stored",
		"order_id", event.OrderID, "event_type", string(envelope.EventType))
	return nil
}
