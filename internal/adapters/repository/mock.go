package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"filegate/internal/core/domain"
)

// MockEventSink is a mock implementation of EventSink
type MockEventSink struct {
	mock.Mock
}

// NewMockEventSink creates a new MockEventSink
func NewMockEventSink() *MockEventSink {
	return &MockEventSink{}
}

func (m *MockEventSink) Append(ctx context.Context, event domain.UploadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockEventReporter is a mock implementation of EventReporter
type MockEventReporter struct {
	mock.Mock
}

// NewMockEventReporter creates a new MockEventReporter
func NewMockEventReporter() *MockEventReporter {
	return &MockEventReporter{}
}

func (m *MockEventReporter) CountsByName(ctx context.Context) ([]domain.EventCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventCount), args.Error(1)
}

func (m *MockEventReporter) FinalizeSamples(ctx context.Context) ([]domain.FinalizeSample, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinalizeSample), args.Error(1)
}

func (m *MockEventReporter) PublishedCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
