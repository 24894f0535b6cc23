package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/pbrandao/go-invoice-flow/internal/metrics"
	"github.com/pbrandao/go-invoice-flow/internal/transaction"
	"github.com/pbrandao/go-invoice-flow/pkg/logger"
)

// CancelImport transitions GENERATED -> CANCELLED. Cancellation is
// race-tolerant only: once the import committed RECEIVED or PROCESSED there
// is no rollback, and the client is told the actual status instead.
func (s *Service) CancelImport(ctx context.Context, transactionID, connectionID string) error {
	ctx = logger.WithTransactionID(ctx, transactionID)

	_, err := s.transactions.UpdateStatus(ctx, transactionID,
		[]transaction.Status{transaction.StatusGenerated}, transaction.StatusCancelled)
	if err == nil {
		s.notifyStatus(ctx, transactionID, connectionID, transaction.StatusCancelled)
		s.count(ctx, metrics.ImportCancelled)
		s.log.Info(ctx, "transaction cancelled")
		return nil
	}
	if !errors.Is(err, transaction.ErrStatusMismatch) {
		return fmt.Errorf("transition to CANCELLED: %w", err)
	}

	rec, err := s.transactions.Get(ctx, transactionID)
	if errors.Is(err, transaction.ErrNotFound) {
		s.log.Warn(ctx, "cancel for unknown or expired transaction")
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch transaction: %w", err)
	}

	s.log.Info(ctx, "cancel lost race", "status", string(rec.Status))
	s.notifyStatus(ctx, transactionID, connectionID, rec.Status)
	return nil
}
