package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"shareit/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupGateway proxies to a capture handler that echoes back what reached
// the upstream.
func setupGateway(t *testing.T) (*Gateway, *capturedRequest) {
	captured := &capturedRequest{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.hit = true
		captured.path = r.URL.Path
		captured.sharer = r.Header.Get(sharerHeader)
		captured.requestID = r.Header.Get("X-Request-Id")
		body, _ := io.ReadAll(r.Body)
		captured.body = body
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(upstream.Close)

	logger := zerolog.New(os.Stdout)
	g, err := New(config.GatewayConfig{Port: 0, UpstreamURL: upstream.URL}, &logger)
	require.NoError(t, err)
	return g, captured
}

type capturedRequest struct {
	hit       bool
	path      string
	sharer    string
	requestID string
	body      []byte
}

func doGateway(g *Gateway, method, target string, sharer string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if sharer != "" {
		req.Header.Set(sharerHeader, sharer)
	}

	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGatewayProxiesValidRequest(t *testing.T) {
	g, captured := setupGateway(t)

	rec := doGateway(g, http.MethodGet, "/items/1", "7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, captured.hit)
	assert.Equal(t, "/items/1", captured.path)
	assert.Equal(t, "7", captured.sharer)
	assert.NotEmpty(t, captured.requestID)
}

func TestGatewayRequiresIdentityHeader(t *testing.T) {
	g, captured := setupGateway(t)

	rec := doGateway(g, http.MethodGet, "/items/1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, captured.hit)

	rec = doGateway(g, http.MethodGet, "/items/1", "-5", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGateway(g, http.MethodGet, "/items/1", "abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGatewaySkipsIdentityForUsersAndHealth(t *testing.T) {
	g, captured := setupGateway(t)

	rec := doGateway(g, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGateway(g, http.MethodGet, "/users/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, captured.hit)
}

func TestGatewayValidatesPagination(t *testing.T) {
	g, _ := setupGateway(t)

	rec := doGateway(g, http.MethodGet, "/items?from=-1", "7", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGateway(g, http.MethodGet, "/items?size=0", "7", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGateway(g, http.MethodGet, "/items?from=0&size=20", "7", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGatewayValidatesBookingState(t *testing.T) {
	g, _ := setupGateway(t)

	rec := doGateway(g, http.MethodGet, "/bookings?state=SOMEDAY", "7", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGateway(g, http.MethodGet, "/bookings?state=current", "7", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGateway(g, http.MethodGet, "/bookings", "7", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGatewayValidatesCreateBookingBody(t *testing.T) {
	g, captured := setupGateway(t)

	future := time.Now().Add(24 * time.Hour)

	rec := doGateway(g, http.MethodPost, "/bookings", "7", map[string]any{
		"item_id": 1,
		"start":   future,
		"end":     future.Add(24 * time.Hour),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	// Тело дочитывается валидатором и все равно доходит до апстрима.
	assert.Contains(t, string(captured.body), "item_id")

	cases := []map[string]any{
		{},
		{"item_id": 1},
		{"item_id": 1, "start": future},
		{"item_id": 0, "start": future, "end": future.Add(time.Hour)},
		// start в прошлом
		{"item_id": 1, "start": time.Now().Add(-time.Hour), "end": future},
		// start после end
		{"item_id": 1, "start": future.Add(time.Hour), "end": future},
	}
	for i, body := range cases {
		rec := doGateway(g, http.MethodPost, "/bookings", "7", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %d", i)
	}
}

func TestGatewayValidatesCreateItemBody(t *testing.T) {
	g, _ := setupGateway(t)

	rec := doGateway(g, http.MethodPost, "/items", "7", map[string]any{
		"name":        "Дрель",
		"description": "ударная",
		"available":   true,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	cases := []map[string]any{
		{"name": "", "description": "ударная", "available": true},
		{"name": "Дрель", "description": "  ", "available": true},
		{"name": "Дрель", "description": "ударная"},
	}
	for i, body := range cases {
		rec := doGateway(g, http.MethodPost, "/items", "7", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %d", i)
	}
}

func TestGatewayValidatesCommentAndRequestBodies(t *testing.T) {
	g, _ := setupGateway(t)

	rec := doGateway(g, http.MethodPost, "/items/1/comment", "7", map[string]string{"text": "Отлично"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGateway(g, http.MethodPost, "/items/1/comment", "7", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGateway(g, http.MethodPost, "/requests", "7", map[string]string{"description": "нужна дрель"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGateway(g, http.MethodPost, "/requests", "7", map[string]string{"description": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGatewayValidatesCreateUserBody(t *testing.T) {
	g, _ := setupGateway(t)

	rec := doGateway(g, http.MethodPost, "/users", "", map[string]string{"name": "Alice", "email": "alice@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGateway(g, http.MethodPost, "/users", "", map[string]string{"name": "", "email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGateway(g, http.MethodPost, "/users", "", map[string]string{"name": "Alice", "email": "no-at"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGatewayUpstreamDown(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	g, err := New(config.GatewayConfig{Port: 0, UpstreamURL: "http://127.0.0.1:1"}, &logger)
	require.NoError(t, err)

	rec := doGateway(g, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"upstream unavailable"}`, rec.Body.String())
}
