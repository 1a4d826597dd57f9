package port

import (
	"context"
	"io"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// UploadService is an interface to define the upload pipeline operations
type UploadService interface {
	InitSession(ctx context.Context, filename string, totalBytes, chunkBytes int64) (*domain.UploadSession, error)
	PutChunk(ctx context.Context, uploadID uuid.UUID, index int, r io.Reader, size int64) (*domain.ChunkReceipt, error)
	// Finalize is one-shot. claimedFilename and claimedTotalBytes are
	// advisory cross-checks against the stored contract; zero values mean
	// the client did not supply them.
	Finalize(ctx context.Context, uploadID uuid.UUID, claimedFilename string, claimedTotalBytes int64, remoteAddr string) (*domain.FinalizeResult, error)
}

// RescanService is an interface to define the batch rescan worker
type RescanService interface {
	Run(ctx context.Context, limit int, dryRun bool) (domain.RescanStats, error)
}
