package scanner

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"filegate/internal/core/domain"
)

// MockScanner is a mock implementation of Scanner
type MockScanner struct {
	mock.Mock
}

// NewMockScanner creates a new MockScanner
func NewMockScanner() *MockScanner {
	return &MockScanner{}
}

func (m *MockScanner) Scan(ctx context.Context, r io.Reader) domain.ScanVerdict {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.ScanVerdict)
}
