package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"github.com/secmon-lab/mnemosyne/pkg/repository/memory"
	"github.com/secmon-lab/mnemosyne/pkg/usecase"
)

func seedRecord(t *testing.T, repo *memory.Memory, uid string, memoryID int64, storedAt time.Time) *model.Record {
	t.Helper()

	transcript := "Caller: seeded\nPeer: ok"
	record := &model.Record{
		UID:        types.UserID(uid),
		MemoryID:   memoryID,
		Title:      "Seeded",
		Transcript: transcript,
		Checksum:   model.NewChecksum(transcript),
		TxHash:     "0xseed",
		StoredAt:   storedAt,
	}
	gt.NoError(t, repo.Record().Put(context.Background(), record)).Required()
	return record
}

func TestQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("GetRecord returns nil for absent record", func(t *testing.T) {
		uc := usecase.New(memory.New(), &mockModerator{}, &mockLedger{})

		record, err := uc.GetRecord(ctx, "user-q", 1)
		gt.NoError(t, err).Required()
		gt.Value(t, record).Nil()
	})

	t.Run("GetRecord returns the stored record", func(t *testing.T) {
		repo := memory.New()
		seeded := seedRecord(t, repo, "user-q", 5, time.Now().UTC())
		uc := usecase.New(repo, &mockModerator{}, &mockLedger{})

		record, err := uc.GetRecord(ctx, "user-q", 5)
		gt.NoError(t, err).Required()
		gt.Value(t, record).NotNil()
		gt.Value(t, record.Checksum).Equal(seeded.Checksum)
	})

	t.Run("ListRecords orders newest first", func(t *testing.T) {
		repo := memory.New()
		base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		seedRecord(t, repo, "user-q", 1, base)
		seedRecord(t, repo, "user-q", 2, base.Add(time.Hour))
		uc := usecase.New(repo, &mockModerator{}, &mockLedger{})

		records, err := uc.ListRecords(ctx, "user-q")
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)
		gt.Value(t, records[0].MemoryID).Equal(int64(2))
	})

	t.Run("ListAllRecords spans owners", func(t *testing.T) {
		repo := memory.New()
		seedRecord(t, repo, "user-a", 1, time.Now().UTC())
		seedRecord(t, repo, "user-b", 2, time.Now().UTC())
		uc := usecase.New(repo, &mockModerator{}, &mockLedger{})

		records, err := uc.ListAllRecords(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)
	})

	t.Run("DeleteRecords reports count including zero", func(t *testing.T) {
		repo := memory.New()
		seedRecord(t, repo, "user-q", 1, time.Now().UTC())
		uc := usecase.New(repo, &mockModerator{}, &mockLedger{})

		count, err := uc.DeleteRecords(ctx, "user-q")
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(1)

		count, err = uc.DeleteRecords(ctx, "user-q")
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(0)
	})
}
