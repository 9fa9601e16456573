package interfaces

import (
	"context"
	"errors"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// ErrRecordNotFound is returned by RecordRepository implementations when
// a requested record does not exist
var ErrRecordNotFound = errors.New("record not found")

// Repository defines the interface for data persistence
type Repository interface {
	Record() RecordRepository
	Close() error
}

// RecordRepository defines the interface for integrity record persistence.
// Implementations must support concurrent inserts and reads from multiple
// in-flight requests.
type RecordRepository interface {
	// Put inserts a new record. It is always a plain insert, never an
	// upsert: the store does not deduplicate by (uid, memoryID), so a
	// retried webhook that re-reaches this stage creates a second record.
	// If StoredAt is zero it is set to the current server time.
	Put(ctx context.Context, record *model.Record) error

	// GetByUserAndMemory returns the record for the given owner and memory
	// identity, or ErrNotFound if none exists. When duplicates exist the
	// returned row is backend-dependent (first match in iteration order).
	GetByUserAndMemory(ctx context.Context, uid types.UserID, memoryID int64) (*model.Record, error)

	// ListByUser returns all records of the owner, StoredAt descending
	ListByUser(ctx context.Context, uid types.UserID) ([]*model.Record, error)

	// ListAll returns every record, StoredAt descending
	ListAll(ctx context.Context) ([]*model.Record, error)

	// DeleteByUser removes all records of the owner and returns the number
	// of removed rows. An owner with no records yields count 0, not an
	// error.
	DeleteByUser(ctx context.Context, uid types.UserID) (int, error)
}
