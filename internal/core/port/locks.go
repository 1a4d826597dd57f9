package port

import (
	"github.com/google/uuid"
)

// LockGuard releases a held per-upload lock
type LockGuard interface {
	Release() error
}

// LockManager is an interface over per-upload mutual exclusion. Acquisition
// is non-blocking: contention returns domain.ErrLockBusy immediately. Locks
// are scoped to a single upload id, never global, so unrelated uploads
// finalize fully in parallel.
type LockManager interface {
	TryAcquire(uploadID uuid.UUID) (LockGuard, error)
}
