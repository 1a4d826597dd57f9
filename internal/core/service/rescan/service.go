package rescan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
	"filegate/internal/core/port"
)

type rescanService struct {
	sessions  port.SessionStore
	artifacts port.ArtifactStore
	locks     port.LockManager
	scanner   port.Scanner
	events    port.EventEmitter
	logger    *slog.Logger
}

// NewRescanService creates the batch rescan worker. It shares the lock
// family of the finalize orchestrator so a worker pass can never race a live
// finalize for the same upload.
func NewRescanService(
	sessions port.SessionStore,
	artifacts port.ArtifactStore,
	locks port.LockManager,
	scanner port.Scanner,
	events port.EventEmitter,
	logger *slog.Logger,
) port.RescanService {
	return &rescanService{
		sessions:  sessions,
		artifacts: artifacts,
		locks:     locks,
		scanner:   scanner,
		events:    events,
		logger:    logger,
	}
}

// Run re-drives quarantined pending-scan uploads through the scan gateway,
// publishing the ones that come back clean. A failing entry never aborts the
// batch.
func (s *rescanService) Run(ctx context.Context, limit int, dryRun bool) (domain.RescanStats, error) {
	var stats domain.RescanStats

	ids, err := s.artifacts.ListQuarantined(ctx, limit)
	if err != nil {
		return stats, fmt.Errorf("list quarantined uploads: %w", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := s.processOne(ctx, id, dryRun, &stats); err != nil {
			s.logger.Error("rescan entry failed", "upload_id", id, "error", err)
		}
	}

	return stats, nil
}

func (s *rescanService) processOne(ctx context.Context, id uuid.UUID, dryRun bool, stats *domain.RescanStats) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rescan panic: %v", r)
		}
	}()

	guard, err := s.locks.TryAcquire(id)
	if err != nil {
		if errors.Is(err, domain.ErrLockBusy) {
			// another worker or a live finalize holds this upload
			return nil
		}
		return fmt.Errorf("acquire rescan lock: %w", err)
	}
	defer func() {
		if releaseErr := guard.Release(); releaseErr != nil {
			s.logger.Warn("failed to release rescan lock", "upload_id", id, "error", releaseErr)
		}
	}()

	session, err := s.sessions.Find(ctx, id)
	if err != nil {
		s.logger.Warn("skipping quarantined upload without valid metadata", "upload_id", id, "error", err)
		return nil
	}

	published, err := s.artifacts.IsPublished(ctx, id)
	if err != nil {
		return fmt.Errorf("check published marker: %w", err)
	}
	if published {
		return nil
	}

	if dryRun {
		s.logger.Info("would rescan", "upload_id", id, "filename", session.Filename)
		stats.Processed++
		return nil
	}

	s.emit(ctx, domain.EventScanStarted, id, map[string]any{
		"engine": "clamav",
		"mode":   "rescan_pending",
	})

	verdict, err := s.rescanArtifact(ctx, id, session.Filename)
	if err != nil {
		s.logger.Warn("skipping quarantined upload without artifact", "upload_id", id, "error", err)
		return nil
	}

	switch verdict.Status {
	case domain.ScanDegraded:
		// still no verdict: leave quarantined, try again next run
		s.emit(ctx, domain.EventScanFailed, id, map[string]any{
			"reason": domain.ReasonScannerUnavailable,
			"mode":   "rescan_pending",
		})
		stats.Processed++
		return nil
	case domain.ScanInfected:
		s.emit(ctx, domain.EventScanCompleted, id, map[string]any{
			"verdict":   "infected",
			"signature": verdict.Signature,
			"mode":      "rescan_pending",
		})
		stats.Processed++
		return nil
	}

	s.emit(ctx, domain.EventScanCompleted, id, map[string]any{
		"verdict": "clean",
		"mode":    "rescan_pending",
	})

	path, bytes, err := s.artifacts.Publish(ctx, id, session.Filename)
	if err != nil {
		stats.Processed++
		return fmt.Errorf("publish artifact: %w", err)
	}

	s.emit(ctx, domain.EventPublished, id, map[string]any{
		"bytes": bytes,
		"path":  path,
	})

	stats.Processed++
	stats.Published++
	return nil
}

func (s *rescanService) rescanArtifact(ctx context.Context, id uuid.UUID, filename string) (domain.ScanVerdict, error) {
	rc, err := s.artifacts.OpenQuarantined(ctx, id, filename)
	if err != nil {
		return domain.ScanVerdict{}, err
	}
	defer rc.Close()

	return s.scanner.Scan(ctx, rc), nil
}

func (s *rescanService) emit(ctx context.Context, name string, uploadID uuid.UUID, payload map[string]any) {
	if err := s.events.Emit(ctx, name, uploadID, domain.SourceScanner, payload); err != nil {
		s.logger.Warn("event emit failed",
			"event", name,
			"upload_id", uploadID,
			"error", err,
		)
	}
}
