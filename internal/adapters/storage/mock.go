package storage

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"filegate/internal/core/domain"
)

// MockSessionStore is a mock implementation of SessionStore
type MockSessionStore struct {
	mock.Mock
}

// NewMockSessionStore creates a new MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

func (m *MockSessionStore) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Find(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

// MockChunkStore is a mock implementation of ChunkStore
type MockChunkStore struct {
	mock.Mock
}

// NewMockChunkStore creates a new MockChunkStore
func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{}
}

func (m *MockChunkStore) Size(ctx context.Context, uploadID uuid.UUID, index int) (int64, error) {
	args := m.Called(ctx, uploadID, index)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChunkStore) Write(ctx context.Context, uploadID uuid.UUID, index int, r io.Reader, size int64) (int64, error) {
	args := m.Called(ctx, uploadID, index, r, size)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChunkStore) Missing(ctx context.Context, uploadID uuid.UUID, expected int) ([]int, error) {
	args := m.Called(ctx, uploadID, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// MockArtifactStore is a mock implementation of ArtifactStore
type MockArtifactStore struct {
	mock.Mock
}

// NewMockArtifactStore creates a new MockArtifactStore
func NewMockArtifactStore() *MockArtifactStore {
	return &MockArtifactStore{}
}

func (m *MockArtifactStore) HasCommitted(ctx context.Context, uploadID uuid.UUID, filename string) (bool, error) {
	args := m.Called(ctx, uploadID, filename)
	return args.Bool(0), args.Error(1)
}

func (m *MockArtifactStore) Assemble(ctx context.Context, uploadID uuid.UUID, expected int) (int64, string, error) {
	args := m.Called(ctx, uploadID, expected)
	return args.Get(0).(int64), args.String(1), args.Error(2)
}

func (m *MockArtifactStore) OpenAssembled(ctx context.Context, uploadID uuid.UUID) (io.ReadCloser, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockArtifactStore) Commit(ctx context.Context, uploadID uuid.UUID, filename string, dest domain.Destination) (string, error) {
	args := m.Called(ctx, uploadID, filename, dest)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) RemoveTemp(ctx context.Context, uploadID uuid.UUID) error {
	args := m.Called(ctx, uploadID)
	return args.Error(0)
}

func (m *MockArtifactStore) ListQuarantined(ctx context.Context, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockArtifactStore) OpenQuarantined(ctx context.Context, uploadID uuid.UUID, filename string) (io.ReadCloser, error) {
	args := m.Called(ctx, uploadID, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockArtifactStore) IsPublished(ctx context.Context, uploadID uuid.UUID) (bool, error) {
	args := m.Called(ctx, uploadID)
	return args.Bool(0), args.Error(1)
}

func (m *MockArtifactStore) Publish(ctx context.Context, uploadID uuid.UUID, filename string) (string, int64, error) {
	args := m.Called(ctx, uploadID, filename)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}
