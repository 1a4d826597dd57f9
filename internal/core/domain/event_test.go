package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filegate/internal/core/domain"
)

func TestNewEvent(t *testing.T) {
	id := uuid.New()

	event := domain.NewEvent(domain.EventInitiated, id, domain.SourceAPI, map[string]any{"filename": "a.bin"})

	assert.Equal(t, domain.EventInitiated, event.EventName)
	assert.Equal(t, domain.EventVersion, event.EventVersion)
	assert.Equal(t, id, event.UploadID)
	assert.False(t, event.CreatedAt.IsZero())
	require.NoError(t, event.Validate())
}

func TestNewEvent_NilPayload(t *testing.T) {
	event := domain.NewEvent(domain.EventFinalized, uuid.New(), domain.SourceAPI, nil)

	assert.NotNil(t, event.Payload)
	require.NoError(t, event.Validate())
}

func TestUploadEvent_Validate(t *testing.T) {
	id := uuid.New()

	t.Run("unknown event name", func(t *testing.T) {
		event := domain.NewEvent("upload.exploded", id, domain.SourceAPI, nil)
		assert.Error(t, event.Validate())
	})

	t.Run("unknown source", func(t *testing.T) {
		event := domain.NewEvent(domain.EventFailed, id, domain.EventSource("cron"), nil)
		assert.Error(t, event.Validate())
	})

	t.Run("nil upload id", func(t *testing.T) {
		event := domain.NewEvent(domain.EventFailed, uuid.Nil, domain.SourceAPI, nil)
		assert.Error(t, event.Validate())
	})

	t.Run("unknown failure reason", func(t *testing.T) {
		event := domain.NewEvent(domain.EventFailed, id, domain.SourceAPI, map[string]any{"reason": "dog_ate_it"})
		assert.Error(t, event.Validate())
	})

	t.Run("non string failure reason", func(t *testing.T) {
		event := domain.NewEvent(domain.EventFailed, id, domain.SourceAPI, map[string]any{"reason": 42})
		assert.Error(t, event.Validate())
	})

	t.Run("every finalize reason is accepted", func(t *testing.T) {
		reasons := []string{
			domain.ReasonInvalidFilename,
			domain.ReasonFinalizeInProgress,
			domain.ReasonFinalizeLocked,
			domain.ReasonMissingChunks,
			domain.ReasonOrphanUpload,
			domain.ReasonSizeMismatch,
			domain.ReasonFSRace,
			domain.ReasonContractMismatch,
			domain.ReasonScannerUnavailable,
			domain.ReasonInternal,
		}
		for _, reason := range reasons {
			event := domain.NewEvent(domain.EventFailed, id, domain.SourceScanner, map[string]any{"reason": reason})
			assert.NoError(t, event.Validate(), "reason %s", reason)
		}
	})
}
