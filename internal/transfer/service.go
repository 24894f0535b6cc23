// Package transfer implements the invoice import transaction lifecycle:
// issuing a presigned upload URL, advancing the transaction as the object
// lands in the bucket, and handling explicit cancellation. Handlers are
// stateless; all concurrency safety lives in the transaction store's
// conditional status update.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pbrandao/go-invoice-flow/internal/awsx"
	"github.com/pbrandao/go-invoice-flow/internal/invoice"
	"github.com/pbrandao/go-invoice-flow/internal/metrics"
	"github.com/pbrandao/go-invoice-flow/internal/notify"
	"github.com/pbrandao/go-invoice-flow/internal/transaction"
	"github.com/pbrandao/go-invoice-flow/pkg/logger"
)

// URLPayload is pushed to the client after issuance.
type URLPayload struct {
	URL              string `json:"url"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
	TransactionID    string `json:"transactionId"`
}

// IssueRequest carries the caller's channel identity, supplied by the
// WebSocket request context.
type IssueRequest struct {
	ConnectionID string
	Endpoint     string
	RequestID    string
}

type Service struct {
	transactions *transaction.Store
	invoices     *invoice.Repository
	storage      awsx.S3API
	presigner    awsx.S3PresignAPI
	notifier     notify.Sender
	metrics      *metrics.Publisher
	log          *logger.Logger

	bucketName string
	urlExpiry  time.Duration // presigned URL validity quoted to the client
	recordTTL  time.Duration // grace window before the table reclaims the row

	nowFunc func() time.Time
	newID   func() string
}

type Config struct {
	Transactions *transaction.Store
	Invoices     *invoice.Repository
	Storage      awsx.S3API
	Presigner    awsx.S3PresignAPI
	Notifier     notify.Sender
	Metrics      *metrics.Publisher
	Logger       *logger.Logger

	BucketName string
	URLExpiry  time.Duration
	RecordTTL  time.Duration
}

func NewService(cfg Config) *Service {
	if cfg.URLExpiry == 0 {
		cfg.URLExpiry = 5 * time.Minute
	}
	if cfg.RecordTTL == 0 {
		cfg.RecordTTL = 2 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	return &Service{
		transactions: cfg.Transactions,
		invoices:     cfg.Invoices,
		storage:      cfg.Storage,
		presigner:    cfg.Presigner,
		notifier:     cfg.Notifier,
		metrics:      cfg.Metrics,
		log:          cfg.Logger,
		bucketName:   cfg.BucketName,
		urlExpiry:    cfg.URLExpiry,
		recordTTL:    cfg.RecordTTL,
		nowFunc:      time.Now,
		newID:        uuid.NewString,
	}
}

// IssueTransfer opens a transaction in GENERATED and pushes the presigned
// upload URL to the caller. The record is written before the URL is
// communicated, so an instant upload cannot race a missing transaction.
func (s *Service) IssueTransfer(ctx context.Context, req IssueRequest) error {
	key := s.newID()
	ctx = logger.WithTransactionID(ctx, key)

	now := s.nowFunc()
	rec := transaction.Record{
		PK:           transaction.PartitionKey,
		SK:           key,
		Status:       transaction.StatusGenerated,
		Timestamp:    now.UnixMilli(),
		ExpiresIn:    int64(s.urlExpiry.Seconds()),
		TTL:          now.Add(s.recordTTL).Unix(),
		RequestID:    req.RequestID,
		ConnectionID: req.ConnectionID,
		Endpoint:     req.Endpoint,
	}
	if err := s.transactions.Put(ctx, rec); err != nil {
		// Abort: the client must never learn of a transaction it cannot
		// complete.
		return fmt.Errorf("create transaction: %w", err)
	}

	presigned, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucketName,
		Key:    &key,
	}, s3.WithPresignExpires(s.urlExpiry))
	if err != nil {
		return fmt.Errorf("presign upload url: %w", err)
	}

	payload, err := json.Marshal(URLPayload{
		URL:              presigned.URL,
		ExpiresInSeconds: rec.ExpiresIn,
		TransactionID:    key,
	})
	if err != nil {
		return fmt.Errorf("marshal url payload: %w", err)
	}

	if err := s.notifier.Send(ctx, req.ConnectionID, payload); err != nil {
		s.log.Warn(ctx, "failed to deliver upload url", "error", err.Error())
	}

	s.log.Info(ctx, "transfer issued", "connection_id", req.ConnectionID)
	return nil
}

// count emits a counter metric, logging but never propagating failures.
func (s *Service) count(ctx context.Context, name string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.Count(ctx, name); err != nil {
		s.log.Warn(ctx, "failed to emit metric", "metric", name, "error", err.Error())
	}
}

// notifyStatus is a best-effort status push.
func (s *Service) notifyStatus(ctx context.Context, transactionID, connectionID string, status transaction.Status) {
	if err := s.notifier.SendStatus(ctx, transactionID, connectionID, status); err != nil {
		s.log.Warn(ctx, "failed to deliver status", "status", string(status), "error", err.Error())
	}
}
