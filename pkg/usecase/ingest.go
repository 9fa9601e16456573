package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"github.com/secmon-lab/mnemosyne/pkg/utils/async"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
)

// IngestResult is the outcome of one webhook ingestion. Record is nil
// when the memory was not flagged; in that case nothing was checksummed,
// anchored, persisted or replicated.
type IngestResult struct {
	Flagged bool
	Record  *model.Record
}

// IngestMemory runs the ingestion-and-integrity-anchoring pipeline for
// one memory: normalize, moderate, and for flagged content checksum,
// anchor on the ledger, persist the record, then fire off replication.
// No stage is retried internally; retry is the caller's responsibility
// by resubmitting the webhook.
func (uc *UseCases) IngestMemory(ctx context.Context, uid types.UserID, memory *model.Memory) (*IngestResult, error) {
	logger := logging.From(ctx)

	text := memory.NormalizedTranscript()

	verdict, err := uc.moderator.Review(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "moderation gate failed",
			goerr.V("uid", uid),
			goerr.V("memoryID", memory.ID),
		)
	}

	if !verdict.Flagged {
		// Clean content never reaches the checksum, ledger, store or
		// replication stages
		logger.Info("memory passed moderation",
			"uid", uid,
			"memoryID", memory.ID,
		)
		return &IngestResult{Flagged: false}, nil
	}

	checksum := model.NewChecksum(text)

	receipt, err := uc.ledger.Anchor(ctx, checksum)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to anchor checksum",
			goerr.V("uid", uid),
			goerr.V("memoryID", memory.ID),
			goerr.V("checksum", checksum),
		)
	}

	record := &model.Record{
		ID:              model.NewRecordID(),
		UID:             uid,
		MemoryID:        memory.ID,
		Title:           memory.Structured.Title,
		Transcript:      text,
		Checksum:        checksum,
		TxHash:          receipt.TxHash,
		MemoryCreatedAt: memory.CreatedAt,
		Subject:         verdict.Subject,
		Summary:         verdict.Summary,
		Headline:        verdict.Headline,
	}

	if err := uc.repo.Record().Put(ctx, record); err != nil {
		// The anchor already happened and is not compensated
		return nil, goerr.Wrap(ErrStorage, "failed to store record after anchoring",
			goerr.V("uid", uid),
			goerr.V("memoryID", memory.ID),
			goerr.V("txHash", receipt.TxHash),
			goerr.V("cause", err.Error()),
		)
	}

	logger.Info("memory attested",
		"uid", uid,
		"memoryID", memory.ID,
		"checksum", checksum,
		"txHash", receipt.TxHash,
	)

	uc.replicate(ctx, uid, memory)

	return &IngestResult{Flagged: true, Record: record}, nil
}

// replicate dispatches the best-effort vault copy. The request outcome is
// already decided when this runs; failures are logged and never surfaced,
// and the goroutine is not cancelled on shutdown.
func (uc *UseCases) replicate(ctx context.Context, uid types.UserID, memory *model.Memory) {
	if uc.vault == nil {
		logging.From(ctx).Debug("vault not configured, skipping replication",
			"uid", uid,
			"memoryID", memory.ID,
		)
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		storeID, err := uc.vault.Replicate(ctx, uid, memory)
		if err != nil {
			return goerr.Wrap(err, "vault replication failed",
				goerr.V("uid", uid),
				goerr.V("memoryID", memory.ID),
			)
		}

		logging.From(ctx).Info("memory replicated to vault",
			"uid", uid,
			"memoryID", memory.ID,
			"storeID", storeID,
		)
		return nil
	})
}
