package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

type recordRepository struct {
	mu      sync.RWMutex
	records []*model.Record
}

func newRecordRepository() *recordRepository {
	return &recordRepository{}
}

func copyRecord(r *model.Record) *model.Record {
	copied := *r
	return &copied
}

func (r *recordRepository) Put(ctx context.Context, record *model.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = model.NewRecordID()
	}
	if record.StoredAt.IsZero() {
		record.StoredAt = time.Now().UTC()
	}

	// Plain insert: duplicates by (uid, memoryID) are allowed
	r.records = append(r.records, copyRecord(record))
	return nil
}

func (r *recordRepository) GetByUserAndMemory(ctx context.Context, uid types.UserID, memoryID int64) (*model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// First match in insertion order; with duplicates this is the oldest
	for _, rec := range r.records {
		if rec.UID == uid && rec.MemoryID == memoryID {
			return copyRecord(rec), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "record not found",
		goerr.V("uid", uid),
		goerr.V("memoryID", memoryID),
	)
}

func (r *recordRepository) ListByUser(ctx context.Context, uid types.UserID) ([]*model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*model.Record, 0)
	for _, rec := range r.records {
		if rec.UID == uid {
			results = append(results, copyRecord(rec))
		}
	}

	sortByStoredAtDesc(results)
	return results, nil
}

func (r *recordRepository) ListAll(ctx context.Context) ([]*model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*model.Record, 0, len(r.records))
	for _, rec := range r.records {
		results = append(results, copyRecord(rec))
	}

	sortByStoredAtDesc(results)
	return results, nil
}

func (r *recordRepository) DeleteByUser(ctx context.Context, uid types.UserID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	deleted := 0
	for _, rec := range r.records {
		if rec.UID == uid {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept

	return deleted, nil
}

func sortByStoredAtDesc(records []*model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StoredAt.After(records[j].StoredAt)
	})
}
