package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// V1FinalizeRequest closes an upload. filename and total_bytes are optional
// cross-checks against the stored session contract.
type V1FinalizeRequest struct {
	UploadID   uuid.UUID `json:"upload_id"`
	Filename   *string   `json:"filename"`
	TotalBytes *int64    `json:"total_bytes"`
}

// V1FinalizeResponse reports the commit outcome
type V1FinalizeResponse struct {
	Finalized bool   `json:"finalized"`
	Bytes     int64  `json:"bytes"`
	Status    string `json:"status"`
	Path      string `json:"path,omitempty"`
}

func (h *HandlerV1) FinalizeV1(w http.ResponseWriter, r *http.Request) {
	var req V1FinalizeRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.logger.Error("error decoding finalize request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request_body"})
		return
	}
	if req.UploadID == uuid.Nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_upload_id"})
		return
	}

	claimedFilename := ""
	if req.Filename != nil {
		claimedFilename = *req.Filename
	}
	var claimedTotal int64
	if req.TotalBytes != nil {
		claimedTotal = *req.TotalBytes
	}

	result, finErr := h.uploadService.Finalize(r.Context(), req.UploadID, claimedFilename, claimedTotal, r.RemoteAddr)

	var (
		missing  *domain.MissingChunksError
		mismatch *domain.ContractMismatchError
	)
	switch {
	case errors.As(finErr, &mismatch):
		h.writeJSON(w, http.StatusConflict, map[string]any{
			"error":    "upload_failed",
			"reason":   domain.ReasonContractMismatch,
			"field":    mismatch.Field,
			"expected": mismatch.Expected,
			"got":      mismatch.Got,
		})
		return
	case errors.As(finErr, &missing):
		h.writeJSON(w, http.StatusConflict, map[string]any{
			"error":           "upload_failed",
			"reason":          domain.ReasonMissingChunks,
			"expected_chunks": missing.Expected,
			"missing_count":   missing.MissingCount,
			"missing":         missing.Missing,
		})
		return
	case finErr != nil:
		reason := domain.ReasonFor(finErr)
		status := http.StatusBadRequest
		switch reason {
		case domain.ReasonFinalizeInProgress, domain.ReasonFinalizeLocked:
			status = http.StatusConflict
		case domain.ReasonInternal, domain.ReasonFSRace:
			h.logger.Error("finalize failed", "upload_id", req.UploadID, "error", finErr)
		}
		h.writeJSON(w, status, map[string]string{
			"error":  "upload_failed",
			"reason": reason,
		})
		return
	case result == nil:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	default:
		resp := V1FinalizeResponse{
			Finalized: result.Finalized,
			Bytes:     result.Bytes,
			Status:    string(result.Status),
			Path:      result.Path,
		}
		h.writeJSON(w, http.StatusOK, resp)
		return
	}
}
