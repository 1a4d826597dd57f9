package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"filegate/internal/config"
	"filegate/internal/core/domain"
	"filegate/internal/core/port"
)

// Publisher mirrors audit events onto a JetStream subject per event name.
// The Postgres log stays the source of truth; this sink only exists for
// downstream consumers, and a publish failure is logged and swallowed by the
// emitter like any other sink error.
type Publisher struct {
	logger        *slog.Logger
	conn          *nats.Conn
	js            jetstream.JetStream
	subjectPrefix string
}

var _ port.EventSink = (*Publisher)(nil)

// NewPublisher connects to NATS and ensures the upload events stream exists
func NewPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	return &Publisher{
		logger:        logger,
		conn:          conn,
		js:            js,
		subjectPrefix: cfg.SubjectPrefix,
	}, nil
}

// Append publishes one event to {prefix}.{event_name}
func (p *Publisher) Append(ctx context.Context, event domain.UploadEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, event.EventName)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close drains the connection
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
