package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"github.com/secmon-lab/mnemosyne/pkg/repository/firestore"
	"github.com/secmon-lab/mnemosyne/pkg/repository/memory"
)

func newTestRecord(uid types.UserID, memoryID int64) *model.Record {
	transcript := "User: hello\nPeer: hello back"
	return &model.Record{
		UID:             uid,
		MemoryID:        memoryID,
		Title:           "Test Memory",
		Transcript:      transcript,
		Checksum:        model.NewChecksum(transcript),
		TxHash:          "0xabc123",
		MemoryCreatedAt: time.Now().UTC().Add(-time.Hour),
		Subject:         "Peer",
		Summary:         "Nothing notable",
		Headline:        "Test conversation",
	}
}

func runRecordRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put assigns ID and StoredAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newTestRecord("user-put", 1)
		gt.NoError(t, repo.Record().Put(ctx, record)).Required()

		gt.Value(t, record.ID).NotEqual(model.RecordID(""))
		gt.Bool(t, record.StoredAt.IsZero()).False()
	})

	t.Run("Put keeps a preset StoredAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		record := newTestRecord("user-preset", 1)
		record.StoredAt = at
		gt.NoError(t, repo.Record().Put(ctx, record)).Required()

		got, err := repo.Record().GetByUserAndMemory(ctx, "user-preset", 1)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.StoredAt.Equal(at)).True()
	})

	t.Run("GetByUserAndMemory returns the stored record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newTestRecord("user-get", 42)
		gt.NoError(t, repo.Record().Put(ctx, record)).Required()

		got, err := repo.Record().GetByUserAndMemory(ctx, "user-get", 42)
		gt.NoError(t, err).Required()

		gt.Value(t, got.UID).Equal(record.UID)
		gt.Value(t, got.MemoryID).Equal(record.MemoryID)
		gt.Value(t, got.Title).Equal(record.Title)
		gt.Value(t, got.Transcript).Equal(record.Transcript)
		gt.Value(t, got.Checksum).Equal(record.Checksum)
		gt.Value(t, got.TxHash).Equal(record.TxHash)
		gt.Value(t, got.Subject).Equal(record.Subject)
	})

	t.Run("GetByUserAndMemory returns ErrRecordNotFound when absent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Record().GetByUserAndMemory(ctx, "user-missing", 999)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrRecordNotFound)).True()
	})

	t.Run("Put is a plain insert, duplicates allowed", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := newTestRecord("user-dup", 7)
		second := newTestRecord("user-dup", 7)
		gt.NoError(t, repo.Record().Put(ctx, first)).Required()
		gt.NoError(t, repo.Record().Put(ctx, second)).Required()

		gt.Value(t, first.ID).NotEqual(second.ID)

		records, err := repo.Record().ListByUser(ctx, "user-dup")
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)
	})

	t.Run("ListByUser returns only the owner's records newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		for i := int64(1); i <= 3; i++ {
			record := newTestRecord("user-list", i)
			record.StoredAt = base.Add(time.Duration(i) * time.Hour)
			gt.NoError(t, repo.Record().Put(ctx, record)).Required()
		}
		other := newTestRecord("user-other", 99)
		gt.NoError(t, repo.Record().Put(ctx, other)).Required()

		records, err := repo.Record().ListByUser(ctx, "user-list")
		gt.NoError(t, err).Required()

		gt.Array(t, records).Length(3)
		gt.Value(t, records[0].MemoryID).Equal(int64(3))
		gt.Value(t, records[1].MemoryID).Equal(int64(2))
		gt.Value(t, records[2].MemoryID).Equal(int64(1))
	})

	t.Run("ListByUser returns empty slice for unknown owner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		records, err := repo.Record().ListByUser(ctx, "user-none")
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(0)
	})

	t.Run("ListAll spans owners newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		older := newTestRecord("user-a", 1)
		older.StoredAt = base
		newer := newTestRecord("user-b", 2)
		newer.StoredAt = base.Add(time.Hour)
		gt.NoError(t, repo.Record().Put(ctx, older)).Required()
		gt.NoError(t, repo.Record().Put(ctx, newer)).Required()

		records, err := repo.Record().ListAll(ctx)
		gt.NoError(t, err).Required()

		gt.Array(t, records).Length(2)
		gt.Value(t, records[0].UID).Equal(types.UserID("user-b"))
		gt.Value(t, records[1].UID).Equal(types.UserID("user-a"))
	})

	t.Run("DeleteByUser removes all records of one owner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := int64(1); i <= 2; i++ {
			gt.NoError(t, repo.Record().Put(ctx, newTestRecord("user-del", i))).Required()
		}
		gt.NoError(t, repo.Record().Put(ctx, newTestRecord("user-keep", 1))).Required()

		count, err := repo.Record().DeleteByUser(ctx, "user-del")
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(2)

		deleted, err := repo.Record().ListByUser(ctx, "user-del")
		gt.NoError(t, err).Required()
		gt.Array(t, deleted).Length(0)

		kept, err := repo.Record().ListByUser(ctx, "user-keep")
		gt.NoError(t, err).Required()
		gt.Array(t, kept).Length(1)
	})

	t.Run("DeleteByUser with no records returns zero", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		count, err := repo.Record().DeleteByUser(ctx, "user-empty")
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(0)
	})
}

func TestRecordRepository_Memory(t *testing.T) {
	runRecordRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestRecordRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runRecordRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, os.Getenv("FIRESTORE_DATABASE_ID"))
		gt.NoError(t, err).Required()
		return repo
	})
}
