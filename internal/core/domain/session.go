package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chunk size bounds accepted at session initiation.
const (
	MinChunkBytes = 1024
	MaxChunkBytes = 10 << 20
)

// UploadStatus is the publicly visible outcome of a finalized upload
type UploadStatus string

const (
	StatusClean       UploadStatus = "clean"
	StatusInfected    UploadStatus = "infected"
	StatusPendingScan UploadStatus = "pending_scan"
)

// Destination selects the commit target of an assembled artifact
type Destination string

const (
	DestinationFinal      Destination = "final"
	DestinationQuarantine Destination = "quarantine"
)

// UploadSession is the immutable contract for one upload attempt. It is
// written once at initiation and is the single source of truth for chunk
// validation and finalize; client-declared metadata is only cross-checked
// against it.
type UploadSession struct {
	ID         uuid.UUID `json:"upload_id"`
	Filename   string    `json:"filename"`
	TotalBytes int64     `json:"total_bytes"`
	ChunkBytes int64     `json:"chunk_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExpectedChunks returns ceil(TotalBytes / ChunkBytes).
func (s UploadSession) ExpectedChunks() int {
	return int((s.TotalBytes + s.ChunkBytes - 1) / s.ChunkBytes)
}

// ChunkSizeAt returns the exact byte size chunk index must have. Every chunk
// is ChunkBytes long except the last one, which carries the remainder.
func (s UploadSession) ChunkSizeAt(index int) int64 {
	if index == s.ExpectedChunks()-1 {
		if rem := s.TotalBytes % s.ChunkBytes; rem != 0 {
			return rem
		}
	}
	return s.ChunkBytes
}

// IsLastChunk reports whether index is the final chunk of the session.
func (s UploadSession) IsLastChunk(index int) bool {
	return index == s.ExpectedChunks()-1
}

// SanitizeFilename reduces name to its base component and rejects anything
// that could escape the per-upload storage directory.
func SanitizeFilename(name string) (string, error) {
	clean := filepath.Base(name)

	if clean == "" || clean == "." || clean == ".." || clean == "/" {
		return "", ErrInvalidFilename
	}

	if strings.ContainsRune(clean, 0) || strings.ContainsAny(clean, `/\`) {
		return "", ErrInvalidFilename
	}

	return clean, nil
}

// ChunkReceipt is the result of a chunk ingestion call
type ChunkReceipt struct {
	Index     int
	Bytes     int64
	Duplicate bool
}

// FinalizeResult is the outcome of a successful finalize. Path is only set
// when the artifact was committed clean to final storage.
type FinalizeResult struct {
	Finalized bool
	Bytes     int64
	Status    UploadStatus
	Path      string
}

// RescanStats summarizes one rescan worker pass
type RescanStats struct {
	Processed int
	Published int
}
