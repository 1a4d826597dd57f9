package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidFilename is an error thrown when a filename fails sanitization
var ErrInvalidFilename = errors.New("invalid filename")

// ErrSessionNotFound is an error thrown when no session metadata exists
var ErrSessionNotFound = errors.New("session not found")

// ErrChunkNotFound is an error thrown when a chunk blob does not exist
var ErrChunkNotFound = errors.New("chunk not found")

// ErrLockBusy is an error thrown when a per-upload lock is already held
var ErrLockBusy = errors.New("lock busy")

// ErrFinalizeInProgress is an error thrown when another finalize holds the upload lock
var ErrFinalizeInProgress = errors.New("finalize in progress")

// ErrDuplicateFinalize is an error thrown when a committed artifact already exists
var ErrDuplicateFinalize = errors.New("duplicate finalize")

// ErrSizeMismatch is an error thrown when assembled bytes disagree with the contract
var ErrSizeMismatch = errors.New("assembled size mismatch")

// ErrCommitFailed is an error thrown when the atomic commit rename fails
var ErrCommitFailed = errors.New("artifact commit failed")

// ErrArtifactNotFound is an error thrown when an expected artifact file is missing
var ErrArtifactNotFound = errors.New("artifact not found")

// ChunkIndexError reports a chunk index outside [0, expected_chunks)
type ChunkIndexError struct {
	Index int
	Max   int
}

func (e *ChunkIndexError) Error() string {
	return fmt.Sprintf("chunk index %d out of range (max %d)", e.Index, e.Max)
}

// Chunk size rejection reasons surfaced to the client.
const (
	SizeReasonEmpty        = "empty_chunk"
	SizeReasonNonLast      = "non_last_chunk_must_match_chunk_bytes"
	SizeReasonLastTooLarge = "last_chunk_too_large"
)

// ChunkSizeError reports a chunk whose size violates the session contract
type ChunkSizeError struct {
	Index    int
	Expected int64
	Got      int64
	Reason   string
}

func (e *ChunkSizeError) Error() string {
	return fmt.Sprintf("chunk %d: %s (expected %d bytes, got %d)", e.Index, e.Reason, e.Expected, e.Got)
}

// ChunkCollisionError reports a re-submission whose size differs from the
// already stored chunk. Collision detection happens before any write.
type ChunkCollisionError struct {
	Index    int
	Existing int64
	Got      int64
}

func (e *ChunkCollisionError) Error() string {
	return fmt.Sprintf("chunk %d already stored with %d bytes, got %d", e.Index, e.Existing, e.Got)
}

// ContractMismatchError reports client-declared metadata disagreeing with the
// stored session contract
type ContractMismatchError struct {
	Field    string
	Expected string
	Got      string
}

func (e *ContractMismatchError) Error() string {
	return fmt.Sprintf("contract mismatch on %s: expected %q, got %q", e.Field, e.Expected, e.Got)
}

// MissingChunksError reports an incomplete upload at finalize time. Missing
// holds a bounded sample of the absent indices; MissingCount is the full count.
type MissingChunksError struct {
	Expected     int
	MissingCount int
	Missing      []int
}

func (e *MissingChunksError) Error() string {
	return fmt.Sprintf("%d of %d chunks missing", e.MissingCount, e.Expected)
}

// External reason codes surfaced on finalize failure.
const (
	ReasonInvalidFilename    = "invalid_filename"
	ReasonFinalizeInProgress = "finalize_in_progress"
	ReasonFinalizeLocked     = "finalize_locked"
	ReasonMissingChunks      = "finalize_missing_chunks"
	ReasonOrphanUpload       = "orphan_upload"
	ReasonSizeMismatch       = "finalize_size_mismatch"
	ReasonFSRace             = "finalize_fs_race"
	ReasonContractMismatch   = "contract_mismatch"
	ReasonScannerUnavailable = "scanner_unavailable"
	ReasonInternal           = "finalize_internal_error"
)

// ReasonFor maps an internal finalize failure to its external reason code.
// Every failure mode funnels through here so a new variant cannot leak an
// unmapped reason to clients or the audit trail.
func ReasonFor(err error) string {
	var (
		contract *ContractMismatchError
		missing  *MissingChunksError
	)

	switch {
	case errors.Is(err, ErrInvalidFilename):
		return ReasonInvalidFilename
	case errors.Is(err, ErrFinalizeInProgress), errors.Is(err, ErrLockBusy):
		return ReasonFinalizeInProgress
	case errors.Is(err, ErrDuplicateFinalize):
		return ReasonFinalizeLocked
	case errors.Is(err, ErrSessionNotFound):
		return ReasonOrphanUpload
	case errors.Is(err, ErrSizeMismatch):
		return ReasonSizeMismatch
	case errors.Is(err, ErrCommitFailed):
		return ReasonFSRace
	case errors.As(err, &contract):
		return ReasonContractMismatch
	case errors.As(err, &missing):
		return ReasonMissingChunks
	default:
		return ReasonInternal
	}
}
