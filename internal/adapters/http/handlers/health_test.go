package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefault/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string { return s.name }
func (s stubChecker) Check(context.Context) error { return s.err }

func TestNewBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2026-01-15T10:00:00Z")

	assert.Equal(t, "1.0.0", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
	assert.Equal(t, runtime.Version(), bi.GoVersion)
}

func TestHealthHandler_Readiness(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name       string
		required   error
		optional   error
		wantStatus int
		wantBody   string
	}{
		{name: "all healthy", wantStatus: http.StatusOK, wantBody: `"status":"healthy"`},
		{name: "directory down degrades", optional: down, wantStatus: http.StatusOK, wantBody: `"status":"degraded"`},
		{name: "database down", required: down, wantStatus: http.StatusServiceUnavailable, wantBody: `"status":"unhealthy"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := ports.NewHealthRegistry()
			require.NoError(t, registry.Register(stubChecker{name: "database", err: tt.required}))
			require.NoError(t, registry.RegisterOptional(stubChecker{name: "directory", err: tt.optional}))

			handler := NewHealthHandler(registry, BuildInfo{})

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/-/ready", nil)

			handler.Readiness(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.Contains(t, w.Body.String(), `"directory"`)
		})
	}
}

func TestHealthHandler_Routes(t *testing.T) {
	handler := NewHealthHandler(ports.NewHealthRegistry(), BuildInfo{Version: "1.2.3", Commit: "def456"})

	router := gin.New()
	handler.Register(router.Group("/-"))

	tests := []struct {
		path        string
		contentType string
	}{
		{path: "/-/live", contentType: "application/json"},
		{path: "/-/ready", contentType: "application/json"},
		{path: "/-/build", contentType: "application/json"},
		{path: "/-/metrics", contentType: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
		})
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/build", nil))

	var bi BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bi))
	assert.Equal(t, "1.2.3", bi.Version)
	assert.Equal(t, "def456", bi.Commit)
}
