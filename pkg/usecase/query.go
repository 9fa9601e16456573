package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// GetRecord returns the record for one owner and memory identity, or nil
// when no record exists
func (uc *UseCases) GetRecord(ctx context.Context, uid types.UserID, memoryID int64) (*model.Record, error) {
	record, err := uc.repo.Record().GetByUserAndMemory(ctx, uid, memoryID)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get record",
			goerr.V("uid", uid),
			goerr.V("memoryID", memoryID),
		)
	}

	return record, nil
}

// ListRecords returns all records of one owner, newest first
func (uc *UseCases) ListRecords(ctx context.Context, uid types.UserID) ([]*model.Record, error) {
	records, err := uc.repo.Record().ListByUser(ctx, uid)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list records", goerr.V("uid", uid))
	}

	return records, nil
}

// ListAllRecords returns every stored record, newest first
func (uc *UseCases) ListAllRecords(ctx context.Context) ([]*model.Record, error) {
	records, err := uc.repo.Record().ListAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list all records")
	}

	return records, nil
}

// DeleteRecords removes all records of one owner and returns how many
// were deleted. Zero records is a successful deletion of nothing.
func (uc *UseCases) DeleteRecords(ctx context.Context, uid types.UserID) (int, error) {
	count, err := uc.repo.Record().DeleteByUser(ctx, uid)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to delete records", goerr.V("uid", uid))
	}

	return count, nil
}
