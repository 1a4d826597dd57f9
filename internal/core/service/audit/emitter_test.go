package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filegate/internal/adapters/repository"
	"filegate/internal/core/domain"
	"filegate/internal/core/service/audit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmitter_Emit_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	id := uuid.New()
	sink := repository.NewMockEventSink()
	sink.On("Append", ctx, mock.MatchedBy(func(e domain.UploadEvent) bool {
		return e.EventName == domain.EventInitiated && e.UploadID == id && e.EventVersion == domain.EventVersion
	})).Return(nil)

	emitter := audit.NewEmitter(discardLogger(), sink)

	// Act
	err := emitter.Emit(ctx, domain.EventInitiated, id, domain.SourceAPI, map[string]any{"filename": "a.bin"})

	// Assert
	require.NoError(t, err)
	sink.AssertExpectations(t)
}

func TestEmitter_Emit_RejectsInvalidEvent(t *testing.T) {
	sink := repository.NewMockEventSink()
	emitter := audit.NewEmitter(discardLogger(), sink)

	err := emitter.Emit(context.Background(), "upload.exploded", uuid.New(), domain.SourceAPI, nil)

	assert.Error(t, err)
	sink.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestEmitter_Emit_FailingSinkDoesNotStopOthers(t *testing.T) {
	// Arrange
	ctx := context.Background()
	broken := repository.NewMockEventSink()
	broken.On("Append", ctx, mock.Anything).Return(errors.New("db down"))
	healthy := repository.NewMockEventSink()
	healthy.On("Append", ctx, mock.Anything).Return(nil)

	emitter := audit.NewEmitter(discardLogger(), broken, healthy)

	// Act
	err := emitter.Emit(ctx, domain.EventFinalized, uuid.New(), domain.SourceAPI, nil)

	// Assert
	assert.ErrorContains(t, err, "db down")
	healthy.AssertExpectations(t)
}
