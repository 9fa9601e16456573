package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// webhookResponse is the data payload returned for a flagged memory
type webhookResponse struct {
	UID       types.UserID   `json:"uid"`
	MemoryID  int64          `json:"memoryId"`
	Checksum  model.Checksum `json:"checksum"`
	TxHash    string         `json:"txHash"`
	Timestamp time.Time      `json:"timestamp"`
}

// handleMemoryWebhook receives one memory from the capture device and
// runs it through the attestation pipeline. Clean memories return a bare
// success without integrity data; any pipeline failure is converted to a
// 500 with a stable error string, never a crash.
func (s *Server) handleMemoryWebhook(w http.ResponseWriter, r *http.Request) {
	uid := types.UserID(r.URL.Query().Get("uid"))
	if err := uid.Validate(); err != nil {
		respondError(r, w, http.StatusBadRequest, "Missing uid parameter", nil)
		return
	}

	var memory model.Memory
	if err := json.NewDecoder(r.Body).Decode(&memory); err != nil {
		respondError(r, w, http.StatusInternalServerError, "Failed to process memory",
			goerr.Wrap(err, "failed to decode memory payload", goerr.V("uid", uid)))
		return
	}

	result, err := s.uc.IngestMemory(r.Context(), uid, &memory)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "Failed to process memory", err)
		return
	}

	if !result.Flagged {
		respondOK(w)
		return
	}

	respondData(w, webhookResponse{
		UID:       uid,
		MemoryID:  result.Record.MemoryID,
		Checksum:  result.Record.Checksum,
		TxHash:    result.Record.TxHash,
		Timestamp: time.Now().UTC(),
	})
}
