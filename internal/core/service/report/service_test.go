package report_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filegate/internal/adapters/repository"
	"filegate/internal/core/domain"
	"filegate/internal/core/service/report"
)

func TestReportService_Generate(t *testing.T) {
	// Arrange
	ctx := context.Background()
	reporter := repository.NewMockEventReporter()
	reporter.On("CountsByName", ctx).Return([]domain.EventCount{
		{Name: domain.EventChunkReceived, Count: 42},
		{Name: domain.EventFinalized, Count: 7},
	}, nil)
	reporter.On("FinalizeSamples", ctx).Return([]domain.FinalizeSample{
		{Status: "clean", DurationMS: 120},
		{Status: "clean", DurationMS: 80},
		{Status: "pending_scan", DurationMS: 3000},
	}, nil)
	reporter.On("PublishedCount", ctx).Return(int64(3), nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := report.NewReportService(reporter, logger)
	var buf bytes.Buffer

	// Act
	err := service.Generate(ctx, &buf)

	// Assert
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "# Upload Pipeline Metrics")
	assert.Contains(t, out, "| `upload.chunk.received` | 42 |")
	assert.Contains(t, out, "| `upload.finalized` | 7 |")
	assert.Contains(t, out, "| `clean` | 2 | 100 | 80 | 80 | 120 |")
	assert.Contains(t, out, "| `pending_scan` | 1 | 3000 | 3000 | 3000 | 3000 |")
	assert.Contains(t, out, "upload.published count: 3")
	reporter.AssertExpectations(t)
}

func TestReportService_Generate_Empty(t *testing.T) {
	ctx := context.Background()
	reporter := repository.NewMockEventReporter()
	reporter.On("CountsByName", ctx).Return([]domain.EventCount(nil), nil)
	reporter.On("FinalizeSamples", ctx).Return([]domain.FinalizeSample(nil), nil)
	reporter.On("PublishedCount", ctx).Return(int64(0), nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := report.NewReportService(reporter, logger)
	var buf bytes.Buffer

	err := service.Generate(ctx, &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "- N: 0")
	assert.Contains(t, buf.String(), "upload.published count: 0")
}

func TestReportService_Generate_QueryFailure(t *testing.T) {
	ctx := context.Background()
	reporter := repository.NewMockEventReporter()
	reporter.On("CountsByName", ctx).Return(nil, assert.AnError)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := report.NewReportService(reporter, logger)

	err := service.Generate(ctx, &bytes.Buffer{})

	assert.ErrorContains(t, err, "query event counts")
}
