package http

import (
	"encoding/json"
	"net/http"

	"github.com/secmon-lab/mnemosyne/pkg/utils/errutil"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
)

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type bareResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Default().Error("failed to encode response", "error", err.Error())
	}
}

// respondData writes {success:true, data:...}. Data is always present,
// even when nil, so absent records render as data:null.
func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: data})
}

// respondOK writes a minimal {success:true} without a data field
func respondOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, bareResponse{Success: true})
}

// respondError logs the error (when present) and writes the structured
// failure body. The error string is a stable identifier; details carry
// the human-readable cause.
func respondError(r *http.Request, w http.ResponseWriter, status int, errMsg string, err error) {
	resp := errorResponse{Success: false, Error: errMsg}
	if err != nil {
		_ = errutil.Handle(r.Context(), err, errMsg)
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
