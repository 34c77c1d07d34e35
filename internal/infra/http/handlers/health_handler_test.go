package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type stubBroker struct{ closed bool }

func (b stubBroker) IsClosed() bool { return b.closed }

func health(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Handle(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr.Code, resp
}

func TestHealth(t *testing.T) {
	code, resp := health(t, NewHealthHandler(stubPinger{}, nil, "test"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "not configured", resp.Dependencies["rabbitmq"])

	code, resp = health(t, NewHealthHandler(stubPinger{}, stubBroker{closed: true}, "test"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", resp.Status)

	code, resp = health(t, NewHealthHandler(stubPinger{err: errors.New("down")}, stubBroker{}, "test"))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Dependencies["database"], "down")
}
