package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

// Moderator screens a normalized transcript for sensitive content.
// A verdict is produced once per memory; an unreachable service or
// malformed output is an error that aborts the pipeline.
type Moderator interface {
	Review(ctx context.Context, text string) (*model.ModerationVerdict, error)
}
