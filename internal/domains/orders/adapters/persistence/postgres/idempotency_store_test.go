package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

func newMockIdempotencyStore(t *testing.T) (*IdempotencyStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return NewIdempotencyStore(db), mock
}

func TestIdempotencyStore_GetMissingReturnsNil(t *testing.T) {
	store, mock := newMockIdempotencyStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_idempotency_keys" WHERE key = $1`)).
		WithArgs("k1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "request_hash", "order_id", "created_at", "updated_at"}))

	record, err := store.Get(context.Background(), "k1")
	require.NoError(t, err)
	require.Nil(t, record)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyStore_GetFound(t *testing.T) {
	store, mock := newMockIdempotencyStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_idempotency_keys" WHERE key = $1`)).
		WithArgs("k1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "request_hash", "order_id", "created_at", "updated_at"}).
			AddRow("k1", "h1", 12, now, now))

	record, err := store.Get(context.Background(), "k1")
	require.NoError(t, err)
	require.Equal(t, &ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: 12, CreatedAt: now, UpdatedAt: now}, record)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyStore_ReserveInsertsPendingRow(t *testing.T) {
	store, mock := newMockIdempotencyStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "order_idempotency_keys"`)).
		WithArgs("k1", "h1", int64(0), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	reserved, owned, err := store.Reserve(context.Background(), "k1", "h1")
	require.NoError(t, err)
	require.True(t, owned)
	require.True(t, reserved.Pending())
	require.False(t, reserved.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyStore_ReserveReadsBackExistingRow(t *testing.T) {
	store, mock := newMockIdempotencyStore(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "order_idempotency_keys"`)).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_idempotency_keys" WHERE key = $1`)).
		WithArgs("k1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "request_hash", "order_id", "created_at", "updated_at"}).
			AddRow("k1", "h1", 12, now, now))

	existing, owned, err := store.Reserve(context.Background(), "k1", "h2")
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.False(t, owned)
	require.Equal(t, int64(12), existing.OrderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyStore_CompleteUpdatesPendingRow(t *testing.T) {
	store, mock := newMockIdempotencyStore(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "order_idempotency_keys" SET "order_id"=$1,"updated_at"=$2 WHERE key = $3 AND order_id = $4`)).
		WithArgs(int64(7), sqlmock.AnyArg(), "k1", int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_idempotency_keys" WHERE key = $1`)).
		WithArgs("k1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"key", "request_hash", "order_id", "created_at", "updated_at"}).
			AddRow("k1", "h1", 7, now, now))

	record, err := store.Complete(context.Background(), "k1", 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), record.OrderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyStore_ReleaseDeletesPendingRow(t *testing.T) {
	store, mock := newMockIdempotencyStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "order_idempotency_keys" WHERE key = $1 AND order_id = $2`)).
		WithArgs("k1", int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Release(context.Background(), "k1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyStore_NotConfigured(t *testing.T) {
	_, err := NewIdempotencyStore(nil).Get(context.Background(), "k1")
	require.Error(t, err)
}
