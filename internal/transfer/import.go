package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pbrandao/go-invoice-flow/internal/invoice"
	"github.com/pbrandao/go-invoice-flow/internal/metrics"
	"github.com/pbrandao/go-invoice-flow/internal/transaction"
	"github.com/pbrandao/go-invoice-flow/pkg/logger"
)

// HandleS3Event processes each object-created record in the batch. A failing
// record fails the invocation so the delivery is retried; records the state
// machine deliberately skips (duplicates, unknown ids, malformed files) are
// not failures.
func (s *Service) HandleS3Event(ctx context.Context, event events.S3Event) error {
	for _, rec := range event.Records {
		if err := s.HandleObjectCreated(ctx, rec.S3.Bucket.Name, rec.S3.Object.Key); err != nil {
			return err
		}
	}
	return nil
}

// HandleObjectCreated drives GENERATED -> RECEIVED -> PROCESSED for one
// uploaded object. Delivery is at-least-once, so the status guard runs
// before any side effect: a transaction already past GENERATED only gets its
// current status re-sent, never a repeated import.
func (s *Service) HandleObjectCreated(ctx context.Context, bucketName, key string) error {
	ctx = logger.WithTransactionID(ctx, key)

	rec, err := s.transactions.Get(ctx, key)
	if errors.Is(err, transaction.ErrNotFound) {
		s.log.Warn(ctx, "object arrived for unknown or expired transaction")
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch transaction: %w", err)
	}

	if rec.Status != transaction.StatusGenerated {
		// Duplicate delivery, or the client cancelled first. Re-send the
		// committed status and stop.
		s.log.Info(ctx, "transaction already advanced", "status", string(rec.Status))
		s.notifyStatus(ctx, key, rec.ConnectionID, rec.Status)
		s.count(ctx, metrics.ImportDuplicate)
		return nil
	}

	_, err = s.transactions.UpdateStatus(ctx, key,
		[]transaction.Status{transaction.StatusGenerated}, transaction.StatusReceived)
	if errors.Is(err, transaction.ErrStatusMismatch) {
		// A concurrent delivery won the race; the winner completes
		// processing.
		s.log.Info(ctx, "lost transition race, skipping")
		s.count(ctx, metrics.ImportDuplicate)
		return nil
	}
	if err != nil {
		return fmt.Errorf("transition to RECEIVED: %w", err)
	}

	s.notifyStatus(ctx, key, rec.ConnectionID, transaction.StatusReceived)

	obj, err := s.storage.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucketName,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("get object: %w", err)
	}
	body, err := io.ReadAll(obj.Body)
	obj.Body.Close()
	if err != nil {
		return fmt.Errorf("read object body: %w", err)
	}

	file, err := invoice.ParseFile(body)
	if err != nil {
		// Left at RECEIVED for operator recovery; ttl reclaims the row.
		s.log.Error(ctx, "malformed invoice file", "error", err.Error())
		s.count(ctx, metrics.ImportParseFailure)
		return nil
	}

	return s.finalize(ctx, bucketName, key, rec.ConnectionID, file)
}

// finalize runs the four completion steps, awaiting each: create the
// invoice, delete the object, commit PROCESSED, notify. The PROCESSED
// transition comes after the invoice write and the object delete, so a crash
// mid-batch leaves the transaction at RECEIVED instead of falsely complete.
func (s *Service) finalize(ctx context.Context, bucketName, key, connectionID string, file *invoice.File) error {
	rec := invoice.Record{
		PK:            invoice.CustomerPK(file.CustomerName),
		SK:            file.InvoiceNumber,
		ProductID:     file.ProductID,
		TotalValue:    file.TotalValue,
		Quantity:      file.Quantity,
		TransactionID: key,
		CreatedAt:     s.nowFunc().UnixMilli(),
	}
	if err := s.invoices.Create(ctx, rec); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}

	if _, err := s.storage.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucketName,
		Key:    &key,
	}); err != nil {
		// The bucket lifecycle rule removes leftovers; don't fail the whole
		// import over it.
		s.log.Warn(ctx, "failed to delete uploaded object", "error", err.Error())
	}

	if _, err := s.transactions.UpdateStatus(ctx, key,
		[]transaction.Status{transaction.StatusReceived}, transaction.StatusProcessed); err != nil {
		return fmt.Errorf("transition to PROCESSED: %w", err)
	}

	s.notifyStatus(ctx, key, connectionID, transaction.StatusProcessed)
	s.count(ctx, metrics.ImportProcessed)
	s.log.Info(ctx, "invoice imported", "invoice_number", file.InvoiceNumber)
	return nil
}
