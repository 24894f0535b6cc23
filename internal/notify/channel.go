// Package notify pushes payloads to clients over the WebSocket channel
// gateway. Delivery is best-effort: callers log failures and move on, a
// failed push never blocks or reverses a state transition that already
// committed.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/smithy-go"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
	"github.com/pbrandao/go-invoice-flow/internal/transaction"
)

// ErrConnectionGone indicates the client disconnected and the gateway no
// longer holds the connection.
var ErrConnectionGone = errors.New("connection gone")

// Sender is what handlers depend on; satisfied by *Service.
type Sender interface {
	Send(ctx context.Context, connectionID string, data []byte) error
	SendStatus(ctx context.Context, transactionID, connectionID string, status transaction.Status) error
}

// StatusPayload is the status-update shape pushed to clients.
type StatusPayload struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

type Service struct {
	client awsx.ManagementAPI
}

func NewService(client awsx.ManagementAPI) *Service {
	return &Service{client: client}
}

// Send verifies the connection is still registered with the gateway, then
// posts the payload to it. Either step can fail; the error is returned as a
// value for the caller to log.
func (s *Service) Send(ctx context.Context, connectionID string, data []byte) error {
	_, err := s.client.GetConnection(ctx, &apigatewaymanagementapi.GetConnectionInput{
		ConnectionId: &connectionID,
	})
	if err != nil {
		if isGone(err) {
			return ErrConnectionGone
		}
		return fmt.Errorf("get connection: %w", err)
	}

	_, err = s.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: &connectionID,
		Data:         data,
	})
	if err != nil {
		if isGone(err) {
			return ErrConnectionGone
		}
		return fmt.Errorf("post to connection: %w", err)
	}
	return nil
}

func isGone(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "GoneException"
}

// SendStatus serializes {transactionId, status} and pushes it.
func (s *Service) SendStatus(ctx context.Context, transactionID, connectionID string, status transaction.Status) error {
	data, err := json.Marshal(StatusPayload{
		TransactionID: transactionID,
		Status:        string(status),
	})
	if err != nil {
		return fmt.Errorf("marshal status payload: %w", err)
	}
	return s.Send(ctx, connectionID, data)
}
