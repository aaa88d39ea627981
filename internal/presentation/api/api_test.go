package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mberla/duet/internal/infrastructure/configs"
	"github.com/mberla/duet/internal/infrastructure/ratelimiter"
	"github.com/mberla/duet/internal/infrastructure/ws"
	"github.com/mberla/duet/internal/presentation/handler/health"
	"github.com/mberla/duet/internal/presentation/handler/rooms"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApplication(t *testing.T, requestsPerFrame int) *Application {
	t.Helper()

	cfg, err := configs.Load("")
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	manager := ws.NewManager(logger, 0)
	roomHandler := rooms.NewHandler(manager, cfg.HTTP.AllowedOrigins, cfg.WS.SendQueueSize, logger)

	limiter := ratelimiter.NewFixedWindowRateLimiter(requestsPerFrame, time.Minute)
	t.Cleanup(limiter.Close)

	return NewApplication(*cfg, roomHandler, health.NewHandler(), logger, limiter)
}

func TestMount_HealthAndMetrics(t *testing.T) {
	app := newTestApplication(t, 100)
	srv := httptest.NewServer(app.Mount())
	defer srv.Close()

	for _, path := range []string{"/api/health", "/api/healthz", "/api/ready", "/api/live", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestMount_CorsPreflight(t *testing.T) {
	app := newTestApplication(t, 100)
	srv := httptest.NewServer(app.Mount())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/rooms", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMount_RateLimiting(t *testing.T) {
	app := newTestApplication(t, 2)
	srv := httptest.NewServer(app.Mount())
	defer srv.Close()

	// force a fresh connection per request; the window must follow the
	// client host, not the TCP connection it happens to arrive on
	transport := &http.Transport{DisableKeepAlives: true}
	defer transport.CloseIdleConnections()
	client := &http.Client{Transport: transport}

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL + "/api/rooms")
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "10.0.0.7:51234"
	require.Equal(t, "10.0.0.7", clientIP(req))

	req.RemoteAddr = "[2001:db8::1]:51234"
	require.Equal(t, "2001:db8::1", clientIP(req))

	// RealIP-rewritten address with no port
	req.RemoteAddr = "10.0.0.7"
	require.Equal(t, "10.0.0.7", clientIP(req))
}
