package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		route  string
		status int
		want   slog.Level
	}{
		{"/health", http.StatusOK, slog.LevelDebug},
		{"/metrics", http.StatusOK, slog.LevelDebug},
		{"/static/*filepath", http.StatusOK, slog.LevelDebug},
		{"/static/*filepath", http.StatusNotFound, slog.LevelInfo},
		{"/reports/search", http.StatusOK, slog.LevelInfo},
		{"", http.StatusNotFound, slog.LevelInfo},
		{"/health", http.StatusInternalServerError, slog.LevelError},
		{"/upload", http.StatusBadGateway, slog.LevelError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, requestLevel(tt.route, tt.status), "%s %d", tt.route, tt.status)
	}
}

func TestRequestLoggerCoversEngineRoutes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	pages := r.Group("/", func(c *gin.Context) {
		c.Set(viewerKey, &Viewer{User: &model.User{ID: 4}})
	})
	pages.GET("/reports/search", func(c *gin.Context) { c.String(http.StatusOK, "results") })

	for _, path := range []string{"/health", "/reports/search", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var records []map[string]any
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	require.Len(t, records, 3)

	assert.Equal(t, "DEBUG", records[0]["level"])
	assert.Equal(t, "/health", records[0]["path"])

	assert.Equal(t, "INFO", records[1]["level"])
	assert.Equal(t, float64(4), records[1]["user_id"])

	assert.Equal(t, "INFO", records[2]["level"])
	assert.Equal(t, float64(http.StatusNotFound), records[2]["status"])
}
