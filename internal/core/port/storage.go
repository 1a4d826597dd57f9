package port

import (
	"context"
	"io"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// ChunkStore is an interface to store and read per-(upload, index) chunk blobs
type ChunkStore interface {
	// Size returns the stored size of a chunk, or domain.ErrChunkNotFound.
	Size(ctx context.Context, uploadID uuid.UUID, index int) (int64, error)
	// Write durably stores a chunk of exactly size bytes. A reader that
	// delivers fewer bytes is an error and must leave the chunk path
	// unwritten, so the caller can retry.
	Write(ctx context.Context, uploadID uuid.UUID, index int, r io.Reader, size int64) (int64, error)
	// Missing returns every index in [0, expected) without a stored chunk.
	Missing(ctx context.Context, uploadID uuid.UUID, expected int) ([]int, error)
}

// ArtifactStore is an interface over the assembled-artifact lifecycle: temp
// assembly, atomic commit to final or quarantine, and rescan publishing.
type ArtifactStore interface {
	// HasCommitted reports whether a final or quarantine artifact (or an
	// in-flight .tmp sibling) already exists for the upload.
	HasCommitted(ctx context.Context, uploadID uuid.UUID, filename string) (bool, error)
	// Assemble streams chunks 0..expected-1 in index order into the
	// upload's temp artifact, returning bytes written and the sha256 hex
	// digest of the assembled content.
	Assemble(ctx context.Context, uploadID uuid.UUID, expected int) (int64, string, error)
	// OpenAssembled opens the temp artifact for reading.
	OpenAssembled(ctx context.Context, uploadID uuid.UUID) (io.ReadCloser, error)
	// Commit copies the temp artifact to a .tmp path inside the
	// destination directory and renames it into place atomically.
	Commit(ctx context.Context, uploadID uuid.UUID, filename string, dest domain.Destination) (string, error)
	// RemoveTemp deletes the upload's temp workspace.
	RemoveTemp(ctx context.Context, uploadID uuid.UUID) error

	// ListQuarantined returns up to limit upload ids with a quarantine
	// directory.
	ListQuarantined(ctx context.Context, limit int) ([]uuid.UUID, error)
	// OpenQuarantined opens the quarantined artifact for reading.
	OpenQuarantined(ctx context.Context, uploadID uuid.UUID, filename string) (io.ReadCloser, error)
	// IsPublished reports whether the upload carries the .published
	// idempotency marker.
	IsPublished(ctx context.Context, uploadID uuid.UUID) (bool, error)
	// Publish commits the quarantined artifact into final storage with the
	// same copy+rename discipline, writes the .published marker and removes
	// the quarantined copy. Returns the final path and byte count.
	Publish(ctx context.Context, uploadID uuid.UUID, filename string) (string, int64, error)
}
