package port

import (
	"context"
	"filegate/internal/core/domain"

	"github.com/google/uuid"
)

// SessionStore is an interface to persist and read upload session contracts
type SessionStore interface {
	Create(ctx context.Context, session domain.UploadSession) error
	Find(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
}
