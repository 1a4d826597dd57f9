package lock

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"filegate/internal/core/port"
)

// MockLockManager is a mock implementation of LockManager
type MockLockManager struct {
	mock.Mock
}

// NewMockLockManager creates a new MockLockManager
func NewMockLockManager() *MockLockManager {
	return &MockLockManager{}
}

func (m *MockLockManager) TryAcquire(uploadID uuid.UUID) (port.LockGuard, error) {
	args := m.Called(uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.LockGuard), args.Error(1)
}

// MockLockGuard is a mock implementation of LockGuard
type MockLockGuard struct {
	mock.Mock
}

// NewMockLockGuard creates a new MockLockGuard
func NewMockLockGuard() *MockLockGuard {
	return &MockLockGuard{}
}

func (m *MockLockGuard) Release() error {
	args := m.Called()
	return args.Error(0)
}
