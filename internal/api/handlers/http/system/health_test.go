package system_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"grievance/internal/api/handlers/http/system"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestSystemHealth(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	rr := httptest.NewRecorder()
	system.NewHandler(logger, map[string]system.Pinger{"postgres": up, "redis": up}).
		SystemHealth(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("expected healthy, got %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	system.NewHandler(logger, map[string]system.Pinger{"postgres": up, "redis": down}).
		SystemHealth(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), `"redis":"down"`) {
		t.Fatalf("expected degraded, got %d %s", rr.Code, rr.Body.String())
	}
}
