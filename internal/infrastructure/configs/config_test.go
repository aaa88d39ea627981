package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	require.Equal(t, uint16(8080), cfg.HTTP.Port)
	require.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 20, cfg.RateLimiter.RequestsPerTimeFrame)
	require.Equal(t, 5*time.Second, cfg.RateLimiter.TimeFrame)
	require.Equal(t, 64, cfg.WS.SendQueueSize)
	require.Equal(t, uint(0), cfg.History.Limit)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
http:
  host: "127.0.0.1"
  port: 9090
ws:
  send_queue_size: 16
history:
  limit: 250
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	require.Equal(t, uint16(9090), cfg.HTTP.Port)
	require.Equal(t, 16, cfg.WS.SendQueueSize)
	require.Equal(t, uint(250), cfg.History.Limit)

	// untouched sections keep their defaults
	require.Equal(t, 20, cfg.RateLimiter.RequestsPerTimeFrame)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DUET_HTTP_PORT", "9999")
	t.Setenv("DUET_HISTORY_LIMIT", "42")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, uint16(9999), cfg.HTTP.Port)
	require.Equal(t, uint(42), cfg.History.Limit)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
