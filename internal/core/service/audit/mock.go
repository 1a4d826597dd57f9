package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"filegate/internal/core/domain"
)

// MockEventEmitter is a mock implementation of EventEmitter
type MockEventEmitter struct {
	mock.Mock
}

// NewMockEventEmitter creates a new MockEventEmitter
func NewMockEventEmitter() *MockEventEmitter {
	return &MockEventEmitter{}
}

func (m *MockEventEmitter) Emit(ctx context.Context, name string, uploadID uuid.UUID, source domain.EventSource, payload map[string]any) error {
	args := m.Called(ctx, name, uploadID, source, payload)
	return args.Error(0)
}
