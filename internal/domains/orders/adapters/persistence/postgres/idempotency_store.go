package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists placement keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

// Get loads a record by key, returning nil when absent.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPortRecord(&record), nil
}

// Reserve inserts a pending row. The primary key on key makes concurrent reservations race in the
// database, and the loser reads back the winner's row.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	if err := s.ensureDB(); err != nil {
		return nil, false, err
	}
	dbRecord := idempotencyRecord{Key: key, RequestHash: requestHash}
	err := s.db.WithContext(ctx).Create(&dbRecord).Error
	if err == nil {
		return toPortRecord(&dbRecord), true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}
	existing, getErr := s.Get(ctx, key)
	if getErr != nil {
		return nil, false, getErr
	}
	if existing == nil {
		return nil, false, err
	}
	if existing.RequestHash != requestHash {
		return existing, false, ports.ErrIdempotencyConflict
	}
	return existing, false, nil
}

// Complete stores the order id on a pending row.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, orderID int64) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	result := s.db.WithContext(ctx).Model(&idempotencyRecord{}).
		Where("key = ? AND order_id = ?", key, int64(0)).
		Updates(map[string]any{"order_id": orderID, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return nil, result.Error
	}
	existing, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("idempotency key %q is not reserved", key)
	}
	if existing.OrderID != orderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

// Release deletes the row while it is still pending.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("key = ? AND order_id = ?", key, int64(0)).
		Delete(&idempotencyRecord{}).Error
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

func toPortRecord(rec *idempotencyRecord) *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		OrderID:     rec.OrderID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
