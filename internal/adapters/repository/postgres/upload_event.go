package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"filegate/internal/core/domain"
	"filegate/internal/core/port"
)

// SQLQuerier abstracts *sql.DB and *sql.Tx
type SQLQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlUploadEventRepository struct {
	db SQLQuerier
}

// NewSQLUploadEventRepository creates the append-only upload_events store
func NewSQLUploadEventRepository(db SQLQuerier) *sqlUploadEventRepository {
	return &sqlUploadEventRepository{db: db}
}

var _ port.EventSink = (*sqlUploadEventRepository)(nil)
var _ port.EventReporter = (*sqlUploadEventRepository)(nil)

// Append inserts one event row. Rows are never updated or deleted.
func (s *sqlUploadEventRepository) Append(ctx context.Context, event domain.UploadEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}

	query := `
		INSERT INTO upload_events (
			id, event_name, event_version, upload_id, source, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.db.ExecContext(
		ctx,
		query,
		uuid.New(),
		event.EventName,
		event.EventVersion,
		event.UploadID,
		string(event.Source),
		payload,
		event.CreatedAt,
	)
	if err != nil {
		return err
	}
	return nil
}

// CountsByName groups events by name, most frequent first
func (s *sqlUploadEventRepository) CountsByName(ctx context.Context) ([]domain.EventCount, error) {
	query := `
		SELECT event_name, COUNT(*) AS c
		FROM upload_events
		GROUP BY event_name
		ORDER BY c DESC, event_name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.EventCount
	for rows.Next() {
		var c domain.EventCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// FinalizeSamples extracts status and duration from upload.finalized payloads
func (s *sqlUploadEventRepository) FinalizeSamples(ctx context.Context) ([]domain.FinalizeSample, error) {
	query := `
		SELECT payload
		FROM upload_events
		WHERE event_name = $1
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, domain.EventFinalized)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []domain.FinalizeSample
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}

		var payload struct {
			Status     string `json:"status"`
			DurationMS int64  `json:"duration_ms"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			continue
		}
		if payload.Status == "" {
			payload.Status = "unknown"
		}
		samples = append(samples, domain.FinalizeSample{
			Status:     payload.Status,
			DurationMS: payload.DurationMS,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// PublishedCount counts upload.published events
func (s *sqlUploadEventRepository) PublishedCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM upload_events WHERE event_name = $1`,
		domain.EventPublished,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
