package flock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"filegate/internal/core/domain"
	"filegate/internal/core/port"
)

// Manager implements per-upload mutual exclusion with advisory file locks.
// One lock file per upload id serves both finalize and the rescan worker, so
// a worker pass and a live finalize for the same upload can never run at the
// same time. The locks are advisory OS locks on a shared volume, which makes
// the discipline hold across multiple server processes.
type Manager struct {
	dir string
}

// NewManager creates the lock directory under root
func NewManager(root string) (*Manager, error) {
	dir := filepath.Join(root, "tmp", "locks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// TryAcquire takes the upload's lock without blocking. Contention returns
// domain.ErrLockBusy immediately; a queued duplicate finalize carries no
// value.
func (m *Manager) TryAcquire(uploadID uuid.UUID) (port.LockGuard, error) {
	fl := flock.New(filepath.Join(m.dir, uploadID.String()+".lock"))

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock for %s: %w", uploadID, err)
	}
	if !locked {
		return nil, domain.ErrLockBusy
	}

	return &guard{fl: fl}, nil
}

type guard struct {
	fl *flock.Flock
}

func (g *guard) Release() error {
	return g.fl.Unlock()
}
