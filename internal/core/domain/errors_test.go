package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"filegate/internal/core/domain"
)

func TestReasonFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid filename", domain.ErrInvalidFilename, domain.ReasonInvalidFilename},
		{"lock busy", domain.ErrLockBusy, domain.ReasonFinalizeInProgress},
		{"finalize in progress", domain.ErrFinalizeInProgress, domain.ReasonFinalizeInProgress},
		{"duplicate finalize", domain.ErrDuplicateFinalize, domain.ReasonFinalizeLocked},
		{"orphan session", domain.ErrSessionNotFound, domain.ReasonOrphanUpload},
		{"size mismatch", domain.ErrSizeMismatch, domain.ReasonSizeMismatch},
		{"commit failed", domain.ErrCommitFailed, domain.ReasonFSRace},
		{"contract mismatch", &domain.ContractMismatchError{Field: "filename"}, domain.ReasonContractMismatch},
		{"missing chunks", &domain.MissingChunksError{Expected: 4, MissingCount: 2}, domain.ReasonMissingChunks},
		{"anything else", errors.New("boom"), domain.ReasonInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ReasonFor(tt.err))
		})
	}
}

func TestReasonFor_Wrapped(t *testing.T) {
	err := fmt.Errorf("assemble artifact: %w", domain.ErrSizeMismatch)
	assert.Equal(t, domain.ReasonSizeMismatch, domain.ReasonFor(err))
}
