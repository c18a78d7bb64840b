package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error { return s.err }

func TestLiveAlwaysOK(t *testing.T) {
	ctrl := NewHealthController(logger.New(logger.Options{ServiceName: "test"}))

	rec := httptest.NewRecorder()
	ctrl.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsAllChecks(t *testing.T) {
	ctrl := NewHealthController(logger.New(logger.Options{ServiceName: "test"}))
	ctrl.Register("postgres", &stubPinger{})
	ctrl.Register("redis", &stubPinger{})

	rec := httptest.NewRecorder()
	ctrl.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec.Body)
	data := payload["data"].(map[string]any)
	checks := data["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["postgres"])
	assert.Equal(t, "ok", checks["redis"])
}

func TestReadyDegradesOnFailure(t *testing.T) {
	ctrl := NewHealthController(logger.New(logger.Options{ServiceName: "test"}))
	ctrl.Register("postgres", &stubPinger{})
	ctrl.Register("redis", &stubPinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	ctrl.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	payload := decodeEnvelope(t, rec.Body)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "degraded", data["status"])
	checks := data["checks"].(map[string]any)
	assert.Equal(t, "connection refused", checks["redis"])
}

func TestRegisterIgnoresNil(t *testing.T) {
	ctrl := NewHealthController(logger.New(logger.Options{ServiceName: "test"}))
	ctrl.Register("gcs", nil)

	rec := httptest.NewRecorder()
	ctrl.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
