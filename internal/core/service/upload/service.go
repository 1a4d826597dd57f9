package upload

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"filegate/internal/config"
	"filegate/internal/core/domain"
	"filegate/internal/core/port"
)

type uploadService struct {
	sessions  port.SessionStore
	chunks    port.ChunkStore
	artifacts port.ArtifactStore
	locks     port.LockManager
	scanner   port.Scanner
	events    port.EventEmitter
	cfg       config.UploadConfig
	logger    *slog.Logger
	security  *slog.Logger
}

// NewUploadService creates the upload pipeline service
func NewUploadService(
	sessions port.SessionStore,
	chunks port.ChunkStore,
	artifacts port.ArtifactStore,
	locks port.LockManager,
	scanner port.Scanner,
	events port.EventEmitter,
	cfg config.UploadConfig,
	logger *slog.Logger,
) port.UploadService {
	return &uploadService{
		sessions:  sessions,
		chunks:    chunks,
		artifacts: artifacts,
		locks:     locks,
		scanner:   scanner,
		events:    events,
		cfg:       cfg,
		logger:    logger,
		security:  logger.With("channel", "security"),
	}
}

// emit writes one audit event best-effort. An emission failure is logged and
// swallowed: filesystem state is the sole source of truth for what was
// committed, and a failing audit write must never mask or alter the outcome
// returned to the caller.
func (u *uploadService) emit(ctx context.Context, name string, uploadID uuid.UUID, payload map[string]any) {
	if err := u.events.Emit(ctx, name, uploadID, domain.SourceAPI, payload); err != nil {
		u.logger.Warn("event emit failed",
			"event", name,
			"upload_id", uploadID,
			"error", err,
		)
	}
}
