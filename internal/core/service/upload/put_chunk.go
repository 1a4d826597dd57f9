package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// PutChunk validates and durably stores one chunk against the session
// contract. Re-submitting an identical chunk is an idempotent no-op; a
// re-submission with a different size is a collision, detected before any
// byte is written.
func (u *uploadService) PutChunk(ctx context.Context, uploadID uuid.UUID, index int, r io.Reader, size int64) (*domain.ChunkReceipt, error) {
	session, err := u.sessions.Find(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	expected := session.ExpectedChunks()
	if index < 0 || index >= expected {
		return nil, &domain.ChunkIndexError{Index: index, Max: expected - 1}
	}

	if size == 0 {
		return nil, &domain.ChunkSizeError{
			Index:    index,
			Expected: session.ChunkSizeAt(index),
			Got:      0,
			Reason:   domain.SizeReasonEmpty,
		}
	}

	// Non-final chunks must match chunk_bytes exactly; no short writes
	// mid-stream. The final chunk may be smaller but never larger.
	if !session.IsLastChunk(index) && size != session.ChunkBytes {
		return nil, &domain.ChunkSizeError{
			Index:    index,
			Expected: session.ChunkBytes,
			Got:      size,
			Reason:   domain.SizeReasonNonLast,
		}
	}
	if session.IsLastChunk(index) && size > session.ChunkBytes {
		return nil, &domain.ChunkSizeError{
			Index:    index,
			Expected: session.ChunkSizeAt(index),
			Got:      size,
			Reason:   domain.SizeReasonLastTooLarge,
		}
	}

	existing, err := u.chunks.Size(ctx, uploadID, index)
	switch {
	case err == nil && existing == size:
		u.emit(ctx, domain.EventChunkReceived, uploadID, map[string]any{
			"index":     index,
			"bytes":     size,
			"duplicate": true,
		})
		return &domain.ChunkReceipt{Index: index, Bytes: size, Duplicate: true}, nil
	case err == nil:
		return nil, &domain.ChunkCollisionError{Index: index, Existing: existing, Got: size}
	case !errors.Is(err, domain.ErrChunkNotFound):
		return nil, fmt.Errorf("check existing chunk: %w", err)
	}

	written, err := u.chunks.Write(ctx, uploadID, index, io.LimitReader(r, size), size)
	if err != nil {
		return nil, fmt.Errorf("store chunk %d: %w", index, err)
	}

	u.emit(ctx, domain.EventChunkReceived, uploadID, map[string]any{
		"index":     index,
		"bytes":     written,
		"duplicate": false,
	})

	return &domain.ChunkReceipt{Index: index, Bytes: written}, nil
}
