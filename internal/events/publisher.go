package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
)

// Publisher fans order events out to the events queue. The event type rides
// along as a message attribute so subscribers can filter without decoding
// the body.
type Publisher struct {
	client   awsx.SQSAPI
	queueURL string
}

func NewPublisher(client awsx.SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		client:   client,
		queueURL: queueURL,
	}
}

func (p *Publisher) Publish(ctx context.Context, eventType EventType, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	body, err := json.Marshal(Envelope{
		EventType: eventType,
		Data:      string(data),
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &p.queueURL,
		MessageBody: awsString(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"eventType": {
				DataType:    awsString("String"),
				StringValue: awsString(string(eventType)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
