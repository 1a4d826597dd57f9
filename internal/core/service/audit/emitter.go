package audit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
	"filegate/internal/core/port"
)

type emitter struct {
	sinks  []port.EventSink
	logger *slog.Logger
}

// NewEmitter creates the audit event emitter. The first sink is expected to
// be the durable store; additional sinks (broker mirrors) fail independently.
func NewEmitter(logger *slog.Logger, sinks ...port.EventSink) port.EventEmitter {
	return &emitter{sinks: sinks, logger: logger}
}

// Emit validates the event against the closed schema and delivers it to
// every sink. A failing sink does not stop delivery to the others; the
// joined error is returned for the caller to log. Emission failures must
// never block or revert a commit, so callers treat this as best-effort.
func (e *emitter) Emit(ctx context.Context, name string, uploadID uuid.UUID, source domain.EventSource, payload map[string]any) error {
	event := domain.NewEvent(name, uploadID, source, payload)
	if err := event.Validate(); err != nil {
		return err
	}

	var errs []error
	for _, sink := range e.sinks {
		if err := sink.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
