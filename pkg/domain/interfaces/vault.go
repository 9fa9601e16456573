package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// Vault replicates the full memory payload to an off-site secret store.
// Replication is best effort: the pipeline never awaits its result and
// treats failures as log-only events.
type Vault interface {
	Replicate(ctx context.Context, uid types.UserID, memory *model.Memory) (string, error)
}
