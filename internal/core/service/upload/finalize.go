package upload

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// Finalize is the one-shot commit of a complete upload: lock, verify,
// assemble, gate on the scan verdict, commit atomically, audit. On any exit
// path the per-upload lock is released before returning.
func (u *uploadService) Finalize(ctx context.Context, uploadID uuid.UUID, claimedFilename string, claimedTotalBytes int64, remoteAddr string) (*domain.FinalizeResult, error) {
	started := time.Now()

	guard, err := u.locks.TryAcquire(uploadID)
	if err != nil {
		if errors.Is(err, domain.ErrLockBusy) {
			return nil, domain.ErrFinalizeInProgress
		}
		return nil, fmt.Errorf("acquire finalize lock: %w", err)
	}
	defer func() {
		if err := guard.Release(); err != nil {
			u.logger.Warn("failed to release finalize lock", "upload_id", uploadID, "error", err)
		}
	}()

	result, err := u.finalizeLocked(ctx, uploadID, claimedFilename, claimedTotalBytes, remoteAddr, started)
	if err != nil {
		u.emit(ctx, domain.EventFailed, uploadID, map[string]any{
			"stage":  "finalize",
			"reason": domain.ReasonFor(err),
		})
		return nil, err
	}

	return result, nil
}

func (u *uploadService) finalizeLocked(ctx context.Context, uploadID uuid.UUID, claimedFilename string, claimedTotalBytes int64, remoteAddr string, started time.Time) (*domain.FinalizeResult, error) {
	session, err := u.sessions.Find(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	// Advisory cross-checks against the stored contract catch stale or
	// mismatched clients before any I/O happens.
	if claimedFilename != "" {
		clean, err := domain.SanitizeFilename(claimedFilename)
		if err != nil {
			return nil, err
		}
		if clean != session.Filename {
			return nil, &domain.ContractMismatchError{
				Field:    "filename",
				Expected: session.Filename,
				Got:      clean,
			}
		}
	}
	if claimedTotalBytes > 0 && claimedTotalBytes != session.TotalBytes {
		return nil, &domain.ContractMismatchError{
			Field:    "total_bytes",
			Expected: strconv.FormatInt(session.TotalBytes, 10),
			Got:      strconv.FormatInt(claimedTotalBytes, 10),
		}
	}

	committed, err := u.artifacts.HasCommitted(ctx, uploadID, session.Filename)
	if err != nil {
		return nil, fmt.Errorf("check committed artifact: %w", err)
	}
	if committed {
		return nil, domain.ErrDuplicateFinalize
	}

	expected := session.ExpectedChunks()
	missing, err := u.chunks.Missing(ctx, uploadID, expected)
	if err != nil {
		return nil, fmt.Errorf("check chunk completeness: %w", err)
	}
	if len(missing) > 0 {
		sample := missing
		if len(sample) > u.cfg.MissingSampleCap {
			sample = sample[:u.cfg.MissingSampleCap]
		}
		return nil, &domain.MissingChunksError{
			Expected:     expected,
			MissingCount: len(missing),
			Missing:      sample,
		}
	}

	written, digest, err := u.artifacts.Assemble(ctx, uploadID, expected)
	if err != nil {
		return nil, fmt.Errorf("assemble artifact: %w", err)
	}
	// Catches any chunk stored with the wrong size despite the per-chunk
	// checks, e.g. written between the completeness read and assembly.
	if written != session.TotalBytes {
		return nil, fmt.Errorf("%w: assembled %d bytes, contract says %d", domain.ErrSizeMismatch, written, session.TotalBytes)
	}

	u.emit(ctx, domain.EventScanStarted, uploadID, map[string]any{"engine": "clamav"})

	verdict := u.scanArtifact(ctx, uploadID)
	switch verdict.Status {
	case domain.ScanClean:
		u.emit(ctx, domain.EventScanCompleted, uploadID, map[string]any{"verdict": "clean"})
	case domain.ScanInfected:
		u.security.Warn("infected upload quarantined",
			"upload_id", uploadID,
			"filename", session.Filename,
			"bytes", written,
			"sha256", digest,
			"signature", verdict.Signature,
			"remote_addr", remoteAddr,
		)
		u.emit(ctx, domain.EventScanCompleted, uploadID, map[string]any{
			"verdict":   "infected",
			"signature": verdict.Signature,
		})
	default:
		// Scanner degraded: finalize still commits, into quarantine.
		u.emit(ctx, domain.EventScanFailed, uploadID, map[string]any{
			"reason": domain.ReasonScannerUnavailable,
		})
	}

	status := verdict.UploadStatus()
	dest := domain.DestinationQuarantine
	if status == domain.StatusClean {
		dest = domain.DestinationFinal
	}

	path, err := u.artifacts.Commit(ctx, uploadID, session.Filename, dest)
	if err != nil {
		return nil, err
	}

	if err := u.artifacts.RemoveTemp(ctx, uploadID); err != nil {
		u.logger.Warn("finalize cleanup failed", "upload_id", uploadID, "error", err)
	}

	u.emit(ctx, domain.EventFinalized, uploadID, map[string]any{
		"bytes":       written,
		"status":      string(status),
		"duration_ms": time.Since(started).Milliseconds(),
	})

	result := &domain.FinalizeResult{
		Finalized: true,
		Bytes:     written,
		Status:    status,
	}
	if status == domain.StatusClean {
		result.Path = path
	}

	return result, nil
}

// scanArtifact runs the scan gate over the assembled artifact. Failure to
// even open the temp artifact counts as degraded: the commit decision must
// not depend on the scan path succeeding.
func (u *uploadService) scanArtifact(ctx context.Context, uploadID uuid.UUID) domain.ScanVerdict {
	rc, err := u.artifacts.OpenAssembled(ctx, uploadID)
	if err != nil {
		u.logger.Warn("failed to open assembled artifact for scan", "upload_id", uploadID, "error", err)
		return domain.ScanVerdict{Status: domain.ScanDegraded}
	}
	defer rc.Close()

	return u.scanner.Scan(ctx, rc)
}
