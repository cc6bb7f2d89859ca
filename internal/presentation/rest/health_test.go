package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMux(checks map[string]Pinger, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	NewHealthHandler("loan-origination", checks, metrics, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux)
	return mux
}

func get(t *testing.T, mux http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestLiveness(t *testing.T) {
	rec, body := get(t, newMux(nil, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "loan-origination", body["service"])
}

func TestReadiness(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all checks pass", func(t *testing.T) {
		rec, body := get(t, newMux(map[string]Pinger{"postgres": ok}, nil), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("failing check reports unavailable", func(t *testing.T) {
		rec, body := get(t, newMux(map[string]Pinger{"postgres": down, "redis": ok}, nil), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		failed, _ := body["failed"].(map[string]any)
		assert.Equal(t, "connection refused", failed["postgres"])
		assert.NotContains(t, failed, "redis")
	})
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# HELP origination_decisions_total\n")
	})

	rec, _ := get(t, newMux(nil, metrics), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "origination_decisions_total")

	rec, _ = get(t, newMux(nil, nil), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
