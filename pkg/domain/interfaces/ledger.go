package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

// Ledger anchors a checksum on an external immutable ledger. Anchor
// submits the checksum and waits for on-ledger confirmation; a receipt is
// returned only for a confirmed transaction. Submission acknowledgment
// alone is not sufficient.
type Ledger interface {
	Anchor(ctx context.Context, checksum model.Checksum) (*model.AnchorReceipt, error)
}
