package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// InitSession creates the immutable upload contract. The session record is
// durable before the id is returned; subsequent chunk and finalize calls
// depend on reading it back immediately.
func (u *uploadService) InitSession(ctx context.Context, filename string, totalBytes, chunkBytes int64) (*domain.UploadSession, error) {
	clean, err := domain.SanitizeFilename(filename)
	if err != nil {
		return nil, err
	}

	if totalBytes < 1 {
		return nil, fmt.Errorf("total_bytes must be at least 1, got %d", totalBytes)
	}
	if chunkBytes < domain.MinChunkBytes || chunkBytes > domain.MaxChunkBytes {
		return nil, fmt.Errorf("chunk_bytes must be in [%d, %d], got %d", domain.MinChunkBytes, domain.MaxChunkBytes, chunkBytes)
	}

	session := domain.UploadSession{
		ID:         uuid.New(),
		Filename:   clean,
		TotalBytes: totalBytes,
		ChunkBytes: chunkBytes,
		CreatedAt:  time.Now().UTC(),
	}

	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	u.emit(ctx, domain.EventInitiated, session.ID, map[string]any{
		"filename":    session.Filename,
		"total_bytes": session.TotalBytes,
		"chunk_bytes": session.ChunkBytes,
	})

	return &session, nil
}
