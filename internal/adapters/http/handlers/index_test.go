package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexHandler(t *testing.T) {
	h, err := NewIndexHandler([]byte("# quotefault\n\n| Route | Result |\n|---|---|\n| `GET /` | this page |\n"))
	require.NoError(t, err)

	router := gin.New()
	router.GET("/", h.Index)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<h1>quotefault</h1>")
	assert.Contains(t, w.Body.String(), "<table>")
	assert.Contains(t, w.Body.String(), "<code>GET /</code>")
}
