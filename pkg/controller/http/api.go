package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// handleGetMemory returns the record for one owner and memory identity,
// data:null when no record exists
func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	uid := types.UserID(r.URL.Query().Get("uid"))
	memoryIDRaw := r.URL.Query().Get("memoryId")

	if uid == "" || memoryIDRaw == "" {
		respondError(r, w, http.StatusBadRequest, "Missing uid or memoryId parameter", nil)
		return
	}

	memoryID, err := strconv.ParseInt(memoryIDRaw, 10, 64)
	if err != nil {
		respondError(r, w, http.StatusBadRequest, "Invalid memoryId parameter", nil)
		return
	}

	record, err := s.uc.GetRecord(r.Context(), uid, memoryID)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "Failed to fetch memory", err)
		return
	}

	if record == nil {
		respondData(w, nil)
		return
	}
	respondData(w, record)
}

// handleListMemories returns all records of one owner, newest first
func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	uid := types.UserID(r.URL.Query().Get("uid"))
	if err := uid.Validate(); err != nil {
		respondError(r, w, http.StatusBadRequest, "Missing uid parameter", nil)
		return
	}

	records, err := s.uc.ListRecords(r.Context(), uid)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "Failed to fetch memories", err)
		return
	}

	respondData(w, records)
}

type allMemoriesResponse struct {
	Memories  []*model.Record `json:"memories"`
	Count     int             `json:"count"`
	Timestamp time.Time       `json:"timestamp"`
}

// handleListAllMemories returns every stored record, newest first
func (s *Server) handleListAllMemories(w http.ResponseWriter, r *http.Request) {
	records, err := s.uc.ListAllRecords(r.Context())
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "Failed to fetch memories", err)
		return
	}

	respondData(w, allMemoriesResponse{
		Memories:  records,
		Count:     len(records),
		Timestamp: time.Now().UTC(),
	})
}

type deleteMemoriesResponse struct {
	UID          types.UserID `json:"uid"`
	DeletedCount int          `json:"deletedCount"`
	Timestamp    time.Time    `json:"timestamp"`
}

// handleDeleteMemories removes all records of one owner. An owner with
// no records is a successful deletion of zero rows.
func (s *Server) handleDeleteMemories(w http.ResponseWriter, r *http.Request) {
	uid := types.UserID(r.URL.Query().Get("uid"))
	if err := uid.Validate(); err != nil {
		respondError(r, w, http.StatusBadRequest, "Missing uid parameter", nil)
		return
	}

	count, err := s.uc.DeleteRecords(r.Context(), uid)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "Failed to delete memories", err)
		return
	}

	respondData(w, deleteMemoriesResponse{
		UID:          uid,
		DeletedCount: count,
		Timestamp:    time.Now().UTC(),
	})
}

type healthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Version:   s.version,
		Timestamp: time.Now().UTC(),
	})
}
