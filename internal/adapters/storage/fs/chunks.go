package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// Size returns the stored byte size of chunk (uploadID, index), or
// domain.ErrChunkNotFound.
func (s *Storage) Size(ctx context.Context, uploadID uuid.UUID, index int) (int64, error) {
	info, err := os.Stat(s.chunkPath(uploadID, index))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, domain.ErrChunkNotFound
		}
		return 0, fmt.Errorf("stat chunk %d: %w", index, err)
	}
	return info.Size(), nil
}

// Write stores a chunk via a temp file renamed into place, so the chunk path
// only ever holds a complete blob. The byte count is checked against size
// before the rename; a short reader leaves the chunk unwritten.
func (s *Storage) Write(ctx context.Context, uploadID uuid.UUID, index int, r io.Reader, size int64) (int64, error) {
	dir := s.chunkDir(uploadID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create chunk dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, fmt.Sprintf("%d.part.*", index))
	if err != nil {
		return 0, fmt.Errorf("create chunk temp: %w", err)
	}

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("write chunk %d: %w", index, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("close chunk temp: %w", err)
	}
	if written != size {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("chunk %d: wrote %d of %d declared bytes", index, written, size)
	}

	if err := os.Rename(tmp.Name(), s.chunkPath(uploadID, index)); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("commit chunk %d: %w", index, err)
	}

	return written, nil
}

// Missing returns every index in [0, expected) without a stored chunk.
func (s *Storage) Missing(ctx context.Context, uploadID uuid.UUID, expected int) ([]int, error) {
	var missing []int
	for i := 0; i < expected; i++ {
		if _, err := os.Stat(s.chunkPath(uploadID, i)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, i)
				continue
			}
			return nil, fmt.Errorf("stat chunk %d: %w", i, err)
		}
	}
	return missing, nil
}
