package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// RecordID is a UUID-based identifier for a persisted integrity record
type RecordID string

// NewRecordID generates a new UUID v4 RecordID
func NewRecordID() RecordID {
	return RecordID(uuid.New().String())
}

// Record is the locally persisted integrity entry for one flagged memory:
// the normalized transcript, its checksum, the confirming ledger
// transaction, and the moderation verdict details. Records are created
// exactly once per successfully anchored memory and never updated; the
// only removal path is the bulk delete-by-owner operation.
type Record struct {
	ID              RecordID     `json:"id"`
	UID             types.UserID `json:"uid"`
	MemoryID        int64        `json:"memoryId"`
	Title           string       `json:"title"`
	Transcript      string       `json:"transcript"`
	Checksum        Checksum     `json:"checksum"`
	TxHash          string       `json:"txHash"`
	MemoryCreatedAt time.Time    `json:"createdAt"`
	StoredAt        time.Time    `json:"storedAt"`
	Subject         string       `json:"subject"`
	Summary         string       `json:"summary"`
	Headline        string       `json:"headline"`
}
