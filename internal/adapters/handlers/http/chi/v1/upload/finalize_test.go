package upload_test

import (
	"encoding/json"
	"fmt"
	httpgo "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	uploadhandler "filegate/internal/adapters/handlers/http/chi/v1/upload"
	"filegate/internal/core/domain"
	uploadservice "filegate/internal/core/service/upload"
)

func finalizeRequest(body string) *httpgo.Request {
	return httptest.NewRequest(httpgo.MethodPost, "/api/v1/upload/finalize", strings.NewReader(body))
}

func TestFinalizeV1_Clean(t *testing.T) {
	// Arrange
	id := uuid.New()
	mockService := uploadservice.NewMockUploadService()
	mockService.On("Finalize", mock.Anything, id, "report.pdf", int64(1028), mock.Anything).
		Return(&domain.FinalizeResult{
			Finalized: true,
			Bytes:     1028,
			Status:    domain.StatusClean,
			Path:      "/data/final/uploads/x/report.pdf",
		}, nil)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()
	body := fmt.Sprintf(`{"upload_id":%q,"filename":"report.pdf","total_bytes":1028}`, id)

	// Act
	h.ServeHTTP(w, finalizeRequest(body))

	// Assert
	assert.Equal(t, httpgo.StatusOK, w.Code)
	var response uploadhandler.V1FinalizeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Finalized)
	assert.Equal(t, int64(1028), response.Bytes)
	assert.Equal(t, "clean", response.Status)
	assert.Equal(t, "/data/final/uploads/x/report.pdf", response.Path)
	mockService.AssertExpectations(t)
}

func TestFinalizeV1_PendingScanOmitsPath(t *testing.T) {
	id := uuid.New()
	mockService := uploadservice.NewMockUploadService()
	mockService.On("Finalize", mock.Anything, id, "", int64(0), mock.Anything).
		Return(&domain.FinalizeResult{Finalized: true, Bytes: 1028, Status: domain.StatusPendingScan}, nil)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, finalizeRequest(fmt.Sprintf(`{"upload_id":%q}`, id)))

	assert.Equal(t, httpgo.StatusOK, w.Code)
	var raw map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	assert.Equal(t, "pending_scan", raw["status"])
	assert.NotContains(t, raw, "path")
}

func TestFinalizeV1_ConflictStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{"finalize in progress", domain.ErrFinalizeInProgress, domain.ReasonFinalizeInProgress},
		{"already committed", domain.ErrDuplicateFinalize, domain.ReasonFinalizeLocked},
		{"contract mismatch", &domain.ContractMismatchError{Field: "filename", Expected: "a.bin", Got: "b.bin"}, domain.ReasonContractMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			mockService := uploadservice.NewMockUploadService()
			mockService.On("Finalize", mock.Anything, id, "", int64(0), mock.Anything).Return(nil, tt.err)

			h := newTestRouter(mockService)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, finalizeRequest(fmt.Sprintf(`{"upload_id":%q}`, id)))

			assert.Equal(t, httpgo.StatusConflict, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, "upload_failed", body["error"])
			assert.Equal(t, tt.wantReason, body["reason"])
		})
	}
}

func TestFinalizeV1_ContractMismatchDetail(t *testing.T) {
	id := uuid.New()
	mockService := uploadservice.NewMockUploadService()
	mockService.On("Finalize", mock.Anything, id, "", int64(0), mock.Anything).
		Return(nil, &domain.ContractMismatchError{Field: "total_bytes", Expected: "1028", Got: "900"})

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, finalizeRequest(fmt.Sprintf(`{"upload_id":%q}`, id)))

	assert.Equal(t, httpgo.StatusConflict, w.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, domain.ReasonContractMismatch, body["reason"])
	assert.Equal(t, "total_bytes", body["field"])
	assert.Equal(t, "1028", body["expected"])
	assert.Equal(t, "900", body["got"])
}

func TestFinalizeV1_MissingChunks(t *testing.T) {
	id := uuid.New()
	mockService := uploadservice.NewMockUploadService()
	mockService.On("Finalize", mock.Anything, id, "", int64(0), mock.Anything).
		Return(nil, &domain.MissingChunksError{Expected: 4, MissingCount: 2, Missing: []int{1, 3}})

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, finalizeRequest(fmt.Sprintf(`{"upload_id":%q}`, id)))

	assert.Equal(t, httpgo.StatusConflict, w.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "upload_failed", body["error"])
	assert.Equal(t, domain.ReasonMissingChunks, body["reason"])
	assert.Equal(t, float64(4), body["expected_chunks"])
	assert.Equal(t, float64(2), body["missing_count"])
	assert.Equal(t, []any{float64(1), float64(3)}, body["missing"])
}

func TestFinalizeV1_BadRequestStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{"size mismatch", fmt.Errorf("assemble: %w", domain.ErrSizeMismatch), domain.ReasonSizeMismatch},
		{"commit race", fmt.Errorf("commit: %w", domain.ErrCommitFailed), domain.ReasonFSRace},
		{"internal failure", assert.AnError, domain.ReasonInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			mockService := uploadservice.NewMockUploadService()
			mockService.On("Finalize", mock.Anything, id, "", int64(0), mock.Anything).Return(nil, tt.err)

			h := newTestRouter(mockService)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, finalizeRequest(fmt.Sprintf(`{"upload_id":%q}`, id)))

			assert.Equal(t, httpgo.StatusBadRequest, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantReason, body["reason"])
		})
	}
}

func TestFinalizeV1_OrphanUpload(t *testing.T) {
	id := uuid.New()
	mockService := uploadservice.NewMockUploadService()
	mockService.On("Finalize", mock.Anything, id, "", int64(0), mock.Anything).
		Return(nil, domain.ErrSessionNotFound)

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, finalizeRequest(fmt.Sprintf(`{"upload_id":%q}`, id)))

	assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "upload_failed", body["error"])
	assert.Equal(t, domain.ReasonOrphanUpload, body["reason"])
}

func TestFinalizeV1_MissingUploadID(t *testing.T) {
	mockService := uploadservice.NewMockUploadService()

	h := newTestRouter(mockService)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, finalizeRequest(`{"filename":"a.bin"}`))

	assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
