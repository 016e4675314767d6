package handler

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WJQSERVER/cfgtree/internal/config"
	"github.com/WJQSERVER/cfgtree/internal/logger"
)

func newTestHandler(t *testing.T, out io.Writer) (*Handler, *config.ServerConfig) {
	t.Helper()
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	l := &logger.Logger{Logger: zerolog.New(out)}
	return NewHandler(cfg, l), cfg
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, io.Discard)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestIndex(t *testing.T) {
	h, _ := newTestHandler(t, io.Discard)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"message": "Hello World"}, body)
}

func TestGetConfig(t *testing.T) {
	h, cfg := newTestHandler(t, io.Discard)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, cfg.String(), rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Body.String(), "ServerConfig: {\n"))
	assert.NotContains(t, rec.Body.String(), "sk-test")
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w brokenWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestGetConfig_WriteError(t *testing.T) {
	var logs bytes.Buffer
	h, _ := newTestHandler(t, &logs)
	router := h.Init()

	router.ServeHTTP(brokenWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/config", nil))

	assert.Contains(t, logs.String(), "error writing response")
	assert.Contains(t, logs.String(), io.ErrClosedPipe.Error())
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, io.Discard)
	router := h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTraceID(t *testing.T) {
	var logs bytes.Buffer
	h, _ := newTestHandler(t, &logs)
	router := h.Init()

	t.Run("echoes the request id", func(t *testing.T) {
		logs.Reset()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(traceIDHeader, "trace-123")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, "trace-123", rec.Header().Get(traceIDHeader))
		assert.Contains(t, logs.String(), `"trace_id":"trace-123"`)
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		_, err := uuid.Parse(rec.Header().Get(traceIDHeader))
		assert.NoError(t, err)
	})
}

func TestAccessLog(t *testing.T) {
	var logs bytes.Buffer
	h, _ := newTestHandler(t, &logs)
	router := h.Init()

	logs.Reset()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry))
	assert.Equal(t, "/", entry["uri"])
	assert.Equal(t, http.MethodGet, entry["method"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.EqualValues(t, rec.Body.Len(), entry["size"])
}

func TestResponseWriter_DefaultsToOK(t *testing.T) {
	lw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	assert.Equal(t, http.StatusOK, lw.statusCode())

	lw.WriteHeader(http.StatusTeapot)
	lw.WriteHeader(http.StatusOK)
	assert.Equal(t, http.StatusTeapot, lw.statusCode())
}
