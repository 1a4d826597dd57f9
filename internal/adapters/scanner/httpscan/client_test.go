package httpscan_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filegate/internal/adapters/scanner/httpscan"
	"filegate/internal/config"
	"filegate/internal/core/domain"
)

func newClient(t *testing.T, baseURL string, timeout time.Duration) *httpscan.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpscan.NewClient(config.ScannerConfig{BaseURL: baseURL, Timeout: timeout}, logger)
}

func TestClient_Scan_Clean(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scan", r.URL.Path)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "file content", string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"clean"}`))
	}))
	defer server.Close()

	verdict := newClient(t, server.URL, 5*time.Second).Scan(context.Background(), strings.NewReader("file content"))

	assert.Equal(t, domain.ScanClean, verdict.Status)
	assert.Empty(t, verdict.Signature)
}

func TestClient_Scan_Infected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"infected","signature":"Eicar-Test-Signature"}`))
	}))
	defer server.Close()

	verdict := newClient(t, server.URL, 5*time.Second).Scan(context.Background(), strings.NewReader("x"))

	assert.Equal(t, domain.ScanInfected, verdict.Status)
	assert.Equal(t, "Eicar-Test-Signature", verdict.Signature)
}

func TestClient_Scan_Degraded(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":`))
		}},
		{"missing status field", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"signature":"x"}`))
		}},
		{"unrecognized status", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"maybe"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			verdict := newClient(t, server.URL, 5*time.Second).Scan(context.Background(), strings.NewReader("x"))

			assert.Equal(t, domain.ScanDegraded, verdict.Status)
		})
	}
}

func TestClient_Scan_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	verdict := newClient(t, server.URL, time.Second).Scan(context.Background(), strings.NewReader("x"))

	assert.Equal(t, domain.ScanDegraded, verdict.Status)
}

func TestClient_Scan_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status":"clean"}`))
	}))
	defer server.Close()

	verdict := newClient(t, server.URL, 50*time.Millisecond).Scan(context.Background(), strings.NewReader("x"))

	assert.Equal(t, domain.ScanDegraded, verdict.Status)
}

func TestClient_Scan_DegradedMapsToPendingScan(t *testing.T) {
	verdict := domain.ScanVerdict{Status: domain.ScanDegraded}
	assert.Equal(t, domain.StatusPendingScan, verdict.UploadStatus())
}
