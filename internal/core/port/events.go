package port

import (
	"context"
	"io"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
)

// EventSink is an interface to deliver one validated audit event to a durable
// store or broker
type EventSink interface {
	Append(ctx context.Context, event domain.UploadEvent) error
}

// EventEmitter is an interface to validate and fan out audit events. Callers
// treat emission as best-effort: an error must never block or revert a commit.
type EventEmitter interface {
	Emit(ctx context.Context, name string, uploadID uuid.UUID, source domain.EventSource, payload map[string]any) error
}

// EventReporter is an interface over the report queries of the audit log
type EventReporter interface {
	CountsByName(ctx context.Context) ([]domain.EventCount, error)
	FinalizeSamples(ctx context.Context) ([]domain.FinalizeSample, error)
	PublishedCount(ctx context.Context) (int64, error)
}

// ReportService renders the pipeline metrics report
type ReportService interface {
	Generate(ctx context.Context, w io.Writer) error
}
