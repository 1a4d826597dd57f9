package upload

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"filegate/internal/core/port"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/init", h.InitUploadV1)
	router.Post("/chunk", h.PutChunkV1)
	router.Post("/finalize", h.FinalizeV1)

	return router
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
