package transaction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(id string, now time.Time) Record {
	return Record{
		PK:           PartitionKey,
		SK:           id,
		Status:       StatusGenerated,
		Timestamp:    now.UnixMilli(),
		ExpiresIn:    300,
		TTL:          now.Add(2 * time.Minute).Unix(),
		RequestID:    "req-1",
		ConnectionID: "conn-1",
		Endpoint:     "wss://example.test/prod",
	}
}

func TestPutAndGet(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "invoices")
	ctx := context.Background()

	now := time.Now()
	rec := testRecord("tx-1", now)
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, StatusGenerated, got.Status)
	assert.Equal(t, "conn-1", got.ConnectionID)
	assert.Equal(t, "tx-1", got.TransactionID())
}

func TestGet_NotFound(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "invoices")

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_ExpiredTTLIsNotFound(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "invoices")
	ctx := context.Background()

	now := time.Now()
	rec := testRecord("tx-ttl", now)
	rec.Status = StatusProcessed
	require.NoError(t, s.Put(ctx, rec))

	// reclaimed regardless of last committed status
	s.nowFunc = func() time.Time { return now.Add(3 * time.Minute) }

	_, err := s.Get(ctx, "tx-ttl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_ReturnsPreviousRecord(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "invoices")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testRecord("tx-2", time.Now())))

	prev, err := s.UpdateStatus(ctx, "tx-2", []Status{StatusGenerated}, StatusReceived)
	require.NoError(t, err)
	assert.Equal(t, StatusGenerated, prev.Status)
	assert.Equal(t, "conn-1", prev.ConnectionID)

	got, err := s.Get(ctx, "tx-2")
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, got.Status)
}

func TestUpdateStatus_Mismatch(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "invoices")
	ctx := context.Background()

	rec := testRecord("tx-3", time.Now())
	rec.Status = StatusCancelled
	require.NoError(t, s.Put(ctx, rec))

	_, err := s.UpdateStatus(ctx, "tx-3", []Status{StatusGenerated}, StatusReceived)
	assert.ErrorIs(t, err, ErrStatusMismatch)

	// no mutation occurred
	got, err := s.Get(ctx, "tx-3")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestUpdateStatus_UnknownIDIsMismatch(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "invoices")

	_, err := s.UpdateStatus(context.Background(), "missing", []Status{StatusGenerated}, StatusCancelled)
	assert.ErrorIs(t, err, ErrStatusMismatch)
}

func TestUpdateStatus_ExpectedSetWithMultipleMembers(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "invoices")
	ctx := context.Background()

	rec := testRecord("tx-4", time.Now())
	rec.Status = StatusReceived
	require.NoError(t, s.Put(ctx, rec))

	prev, err := s.UpdateStatus(ctx, "tx-4",
		[]Status{StatusGenerated, StatusReceived}, StatusProcessed)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, prev.Status)
}

func TestUpdateStatus_ConcurrentSingleWinner(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "invoices")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testRecord("tx-race", time.Now())))

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateStatus(ctx, "tx-race", []Status{StatusGenerated}, StatusReceived)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrStatusMismatch)
		}
	}
	assert.Equal(t, 1, winners)
}
