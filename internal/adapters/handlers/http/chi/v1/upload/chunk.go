package upload

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// V1PutChunkResponse acknowledges a stored (or idempotently replayed) chunk
type V1PutChunkResponse struct {
	Received  bool  `json:"received"`
	Index     int   `json:"index"`
	Bytes     int64 `json:"bytes"`
	Duplicate bool  `json:"duplicate"`
}

// PutChunkV1 ingests one chunk as multipart/form-data with fields
// upload_id, index and a file part named chunk.
func (h *HandlerV1) PutChunkV1(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(domain.MaxChunkBytes + (1 << 20)); err != nil {
		h.logger.Error("error parsing chunk form", "error", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_multipart_form"})
		return
	}

	uploadID, parseErr := uuid.Parse(r.FormValue("upload_id"))
	if parseErr != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_upload_id"})
		return
	}

	index, indexErr := strconv.Atoi(r.FormValue("index"))
	if indexErr != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_chunk_index"})
		return
	}

	chunk, hdr, fileErr := r.FormFile("chunk")
	if fileErr != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing_chunk_part"})
		return
	}
	defer chunk.Close()

	receipt, err := h.uploadService.PutChunk(r.Context(), uploadID, index, chunk, hdr.Size)

	var (
		indexErrT     *domain.ChunkIndexError
		sizeErrT      *domain.ChunkSizeError
		collisionErrT *domain.ChunkCollisionError
	)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{
			"error":  "unknown_upload",
			"reason": domain.ReasonOrphanUpload,
		})
		return
	case errors.As(err, &indexErrT):
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "invalid_chunk_index",
			"reason": "index_out_of_range",
			"index":  indexErrT.Index,
			"max":    indexErrT.Max,
		})
		return
	case errors.As(err, &sizeErrT):
		status := http.StatusUnprocessableEntity
		if sizeErrT.Reason == domain.SizeReasonLastTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		h.writeJSON(w, status, map[string]any{
			"error":          "invalid_chunk_size",
			"reason":         sizeErrT.Reason,
			"index":          sizeErrT.Index,
			"expected_bytes": sizeErrT.Expected,
			"got_bytes":      sizeErrT.Got,
		})
		return
	case errors.As(err, &collisionErrT):
		h.writeJSON(w, http.StatusConflict, map[string]any{
			"error":          "chunk_collision",
			"index":          collisionErrT.Index,
			"existing_bytes": collisionErrT.Existing,
			"got_bytes":      collisionErrT.Got,
		})
		return
	case err != nil:
		h.logger.Error("error storing chunk", "upload_id", uploadID, "index", index, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	case receipt == nil:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	default:
		resp := V1PutChunkResponse{
			Received:  true,
			Index:     receipt.Index,
			Bytes:     receipt.Bytes,
			Duplicate: receipt.Duplicate,
		}
		h.writeJSON(w, http.StatusOK, resp)
		return
	}
}
