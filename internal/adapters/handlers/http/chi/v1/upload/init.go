package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// V1InitUploadRequest is the request to open a chunked upload session
type V1InitUploadRequest struct {
	Filename   string `json:"filename"`
	TotalBytes int64  `json:"total_bytes"`
	ChunkBytes int64  `json:"chunk_bytes"`
}

// V1InitUploadResponse is the response to open a chunked upload session
type V1InitUploadResponse struct {
	UploadID       uuid.UUID `json:"upload_id"`
	Filename       string    `json:"filename"`
	TotalBytes     int64     `json:"total_bytes"`
	ChunkBytes     int64     `json:"chunk_bytes"`
	ExpectedChunks int       `json:"expected_chunks"`
}

func (h *HandlerV1) InitUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1InitUploadRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.logger.Error("error decoding init upload request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request_body"})
		return
	}

	session, initErr := h.uploadService.InitSession(r.Context(), req.Filename, req.TotalBytes, req.ChunkBytes)

	switch {
	case errors.Is(initErr, domain.ErrInvalidFilename):
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  "invalid_filename",
			"reason": domain.ReasonInvalidFilename,
		})
		return
	case initErr != nil:
		h.logger.Error("invalid init upload request", "error", initErr)
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   "invalid_upload_params",
			"message": initErr.Error(),
		})
		return
	case session == nil:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	default:
		resp := V1InitUploadResponse{
			UploadID:       session.ID,
			Filename:       session.Filename,
			TotalBytes:     session.TotalBytes,
			ChunkBytes:     session.ChunkBytes,
			ExpectedChunks: session.ExpectedChunks(),
		}
		h.writeJSON(w, http.StatusCreated, resp)
		return
	}
}
