package upload

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"filegate/internal/core/domain"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) InitSession(ctx context.Context, filename string, totalBytes, chunkBytes int64) (*domain.UploadSession, error) {
	args := m.Called(ctx, filename, totalBytes, chunkBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) PutChunk(ctx context.Context, uploadID uuid.UUID, index int, r io.Reader, size int64) (*domain.ChunkReceipt, error) {
	args := m.Called(ctx, uploadID, index, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChunkReceipt), args.Error(1)
}

func (m *MockUploadService) Finalize(ctx context.Context, uploadID uuid.UUID, claimedFilename string, claimedTotalBytes int64, remoteAddr string) (*domain.FinalizeResult, error) {
	args := m.Called(ctx, uploadID, claimedFilename, claimedTotalBytes, remoteAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinalizeResult), args.Error(1)
}
