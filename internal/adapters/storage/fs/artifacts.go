package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// HasCommitted reports whether a committed artifact, or an in-flight .tmp
// sibling, already exists in final or quarantine storage for this upload.
func (s *Storage) HasCommitted(ctx context.Context, uploadID uuid.UUID, filename string) (bool, error) {
	candidates := []string{
		s.artifactPath(uploadID, filename, domain.DestinationFinal),
		s.artifactPath(uploadID, filename, domain.DestinationFinal) + ".tmp",
		s.artifactPath(uploadID, filename, domain.DestinationQuarantine),
		s.artifactPath(uploadID, filename, domain.DestinationQuarantine) + ".tmp",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return true, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("stat artifact: %w", err)
		}
	}

	return false, nil
}

// Assemble streams chunks 0..expected-1 in index order into the upload's temp
// artifact, counting bytes and computing the sha256 of the assembled content
// in the same pass.
func (s *Storage) Assemble(ctx context.Context, uploadID uuid.UUID, expected int) (int64, string, error) {
	if err := os.MkdirAll(s.tempDir(uploadID), 0o755); err != nil {
		return 0, "", fmt.Errorf("create temp dir: %w", err)
	}

	out, err := os.Create(s.assembledPath(uploadID))
	if err != nil {
		return 0, "", fmt.Errorf("create assembled artifact: %w", err)
	}

	hash := sha256.New()
	w := io.MultiWriter(out, hash)

	var written int64
	for i := 0; i < expected; i++ {
		if err := ctx.Err(); err != nil {
			out.Close()
			return 0, "", err
		}

		in, err := os.Open(s.chunkPath(uploadID, i))
		if err != nil {
			out.Close()
			return 0, "", fmt.Errorf("open chunk %d: %w", i, err)
		}

		n, err := io.Copy(w, in)
		in.Close()
		if err != nil {
			out.Close()
			return 0, "", fmt.Errorf("append chunk %d: %w", i, err)
		}
		written += n
	}

	if err := out.Close(); err != nil {
		return 0, "", fmt.Errorf("close assembled artifact: %w", err)
	}

	return written, hex.EncodeToString(hash.Sum(nil)), nil
}

// OpenAssembled opens the temp artifact for reading
func (s *Storage) OpenAssembled(ctx context.Context, uploadID uuid.UUID) (io.ReadCloser, error) {
	f, err := os.Open(s.assembledPath(uploadID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("open assembled artifact: %w", err)
	}
	return f, nil
}

// Commit copies the temp artifact to {dest}/{id}/{filename}.tmp and renames
// it into place. Any observer sees either nothing or a complete file at the
// committed path, never a partial one.
func (s *Storage) Commit(ctx context.Context, uploadID uuid.UUID, filename string, dest domain.Destination) (string, error) {
	if err := os.MkdirAll(s.artifactDir(uploadID, dest), 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s dir: %v", domain.ErrCommitFailed, dest, err)
	}

	target := s.artifactPath(uploadID, filename, dest)
	tmp := target + ".tmp"

	if err := copyFile(s.assembledPath(uploadID), tmp); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: stage artifact: %v", domain.ErrCommitFailed, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			s.logger.Warn("failed to remove staged artifact", "upload_id", uploadID, "error", rmErr)
		}
		return "", fmt.Errorf("%w: rename artifact: %v", domain.ErrCommitFailed, err)
	}

	return target, nil
}

// RemoveTemp deletes the upload's temp workspace
func (s *Storage) RemoveTemp(ctx context.Context, uploadID uuid.UUID) error {
	return os.RemoveAll(s.tempDir(uploadID))
}

// ListQuarantined returns up to limit upload ids still awaiting a scan under
// quarantine storage. Already-published uploads and entries that are not
// upload directories are skipped without consuming the limit.
func (s *Storage) ListQuarantined(ctx context.Context, limit int) ([]uuid.UUID, error) {
	entries, err := os.ReadDir(s.quarantineRoot())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read quarantine dir: %w", err)
	}

	var ids []uuid.UUID
	for _, entry := range entries {
		if limit > 0 && len(ids) >= limit {
			break
		}
		if !entry.IsDir() {
			continue
		}
		id, err := uuid.Parse(entry.Name())
		if err != nil {
			s.logger.Warn("skipping non-upload quarantine entry", "entry", entry.Name())
			continue
		}
		if _, err := os.Stat(s.publishedMarkerPath(id)); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat published marker: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// OpenQuarantined opens the quarantined artifact for reading
func (s *Storage) OpenQuarantined(ctx context.Context, uploadID uuid.UUID, filename string) (io.ReadCloser, error) {
	f, err := os.Open(s.artifactPath(uploadID, filename, domain.DestinationQuarantine))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("open quarantined artifact: %w", err)
	}
	return f, nil
}

// IsPublished reports whether the upload carries the .published marker
func (s *Storage) IsPublished(ctx context.Context, uploadID uuid.UUID) (bool, error) {
	_, err := os.Stat(s.publishedMarkerPath(uploadID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat published marker: %w", err)
}

func (s *Storage) publishedMarkerPath(uploadID uuid.UUID) string {
	return s.artifactPath(uploadID, publishedMarker, domain.DestinationQuarantine)
}

// Publish commits the quarantined artifact into final storage, writes the
// .published marker and removes the quarantined copy. Marker and copy
// removal are best-effort once the rename has landed.
func (s *Storage) Publish(ctx context.Context, uploadID uuid.UUID, filename string) (string, int64, error) {
	source := s.artifactPath(uploadID, filename, domain.DestinationQuarantine)
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", 0, domain.ErrArtifactNotFound
		}
		return "", 0, fmt.Errorf("stat quarantined artifact: %w", err)
	}

	if err := os.MkdirAll(s.artifactDir(uploadID, domain.DestinationFinal), 0o755); err != nil {
		return "", 0, fmt.Errorf("%w: create final dir: %v", domain.ErrCommitFailed, err)
	}

	target := s.artifactPath(uploadID, filename, domain.DestinationFinal)
	tmp := target + ".tmp"

	if err := copyFile(source, tmp); err != nil {
		os.Remove(tmp)
		return "", 0, fmt.Errorf("%w: stage published artifact: %v", domain.ErrCommitFailed, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			s.logger.Warn("failed to remove staged artifact", "upload_id", uploadID, "error", rmErr)
		}
		return "", 0, fmt.Errorf("%w: rename published artifact: %v", domain.ErrCommitFailed, err)
	}

	marker := time.Now().UTC().Format(time.RFC3339)
	if err := os.WriteFile(s.publishedMarkerPath(uploadID), []byte(marker+"\n"), 0o644); err != nil {
		s.logger.Warn("failed to write published marker", "upload_id", uploadID, "error", err)
	}
	if err := os.Remove(source); err != nil {
		s.logger.Warn("failed to remove quarantined copy", "upload_id", uploadID, "error", err)
	}

	return target, info.Size(), nil
}
