package upload_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filegate/internal/adapters/lock"
	"filegate/internal/adapters/scanner"
	"filegate/internal/adapters/storage"
	"filegate/internal/config"
	"filegate/internal/core/domain"
	"filegate/internal/core/port"
	"filegate/internal/core/service/audit"
	"filegate/internal/core/service/upload"
)

type serviceMocks struct {
	sessions  *storage.MockSessionStore
	chunks    *storage.MockChunkStore
	artifacts *storage.MockArtifactStore
	locks     *lock.MockLockManager
	scanner   *scanner.MockScanner
	events    *audit.MockEventEmitter
}

var defaultCfg = config.UploadConfig{MissingSampleCap: 20}

func newService(t *testing.T) (port.UploadService, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		sessions:  storage.NewMockSessionStore(),
		chunks:    storage.NewMockChunkStore(),
		artifacts: storage.NewMockArtifactStore(),
		locks:     lock.NewMockLockManager(),
		scanner:   scanner.NewMockScanner(),
		events:    audit.NewMockEventEmitter(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := upload.NewUploadService(m.sessions, m.chunks, m.artifacts, m.locks, m.scanner, m.events, defaultCfg, logger)
	return service, m
}

func TestUploadService_InitSession_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, m := newService(t)

	m.sessions.On("Create", ctx, mock.MatchedBy(func(s domain.UploadSession) bool {
		return s.Filename == "report.pdf" && s.TotalBytes == 1028 && s.ChunkBytes == 1024
	})).Return(nil)
	m.events.On("Emit", ctx, domain.EventInitiated, mock.Anything, domain.SourceAPI, mock.Anything).Return(nil)

	// Act
	session, err := service.InitSession(ctx, "report.pdf", 1028, 1024)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "report.pdf", session.Filename)
	assert.Equal(t, 2, session.ExpectedChunks())
	m.sessions.AssertExpectations(t)
	m.events.AssertExpectations(t)
}

func TestUploadService_InitSession_SanitizesFilename(t *testing.T) {
	ctx := context.Background()
	service, m := newService(t)

	m.sessions.On("Create", ctx, mock.MatchedBy(func(s domain.UploadSession) bool {
		return s.Filename == "passwd"
	})).Return(nil)
	m.events.On("Emit", ctx, domain.EventInitiated, mock.Anything, domain.SourceAPI, mock.Anything).Return(nil)

	session, err := service.InitSession(ctx, "../../etc/passwd", 2048, 1024)

	require.NoError(t, err)
	assert.Equal(t, "passwd", session.Filename)
}

func TestUploadService_InitSession_InvalidFilename(t *testing.T) {
	service, m := newService(t)

	_, err := service.InitSession(context.Background(), "..", 2048, 1024)

	assert.ErrorIs(t, err, domain.ErrInvalidFilename)
	m.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_InitSession_InvalidParams(t *testing.T) {
	tests := []struct {
		name       string
		totalBytes int64
		chunkBytes int64
	}{
		{"zero total", 0, 1024},
		{"negative total", -1, 1024},
		{"chunk below minimum", 2048, domain.MinChunkBytes - 1},
		{"chunk above maximum", 2048, domain.MaxChunkBytes + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newService(t)

			_, err := service.InitSession(context.Background(), "a.bin", tt.totalBytes, tt.chunkBytes)

			assert.Error(t, err)
			m.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadService_InitSession_EmitFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	service, m := newService(t)

	m.sessions.On("Create", ctx, mock.Anything).Return(nil)
	m.events.On("Emit", ctx, domain.EventInitiated, mock.Anything, domain.SourceAPI, mock.Anything).
		Return(assert.AnError)

	session, err := service.InitSession(ctx, "a.bin", 2048, 1024)

	require.NoError(t, err)
	assert.NotNil(t, session)
}
