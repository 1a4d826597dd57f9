package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// Create persists the session contract as meta/{id}/meta.json. The record is
// written to a temp file and renamed into place so readers never observe a
// partial contract; it is durable before Create returns.
func (s *Storage) Create(ctx context.Context, session domain.UploadSession) error {
	dir := filepath.Dir(s.metaPath(session.ID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create meta dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "meta.*.json")
	if err != nil {
		return fmt.Errorf("create meta temp: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write meta: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync meta: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close meta temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.metaPath(session.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit meta: %w", err)
	}

	return nil
}

// Find reads the session contract, returning domain.ErrSessionNotFound when
// no record exists.
func (s *Storage) Find(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	data, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("read meta: %w", err)
	}

	var session domain.UploadSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}

	if session.ID == uuid.Nil || session.Filename == "" || session.TotalBytes < 1 || session.ChunkBytes < domain.MinChunkBytes {
		return nil, fmt.Errorf("corrupt meta for %s", id)
	}

	return &session, nil
}
