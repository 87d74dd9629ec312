package api_server_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, v, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Minute, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Engine.Evaluator.Timeout)
	assert.Equal(t, "us-east-1", cfg.Engine.Evaluator.DefaultRegion)
	assert.Equal(t, "postgres", cfg.Engine.Lock)
	assert.Equal(t, "CloudCorrectSession", cfg.AWS.Credentials.RoleSessionName)
	assert.Equal(t, 5*time.Second, cfg.Probe.HTTP.Timeout)
	assert.True(t, cfg.Probe.HTTP.FollowRedirects)
	assert.Equal(t, 2*time.Second, cfg.Probe.ICMP.Timeout)
	assert.Equal(t, ":8081", cfg.Server.MetricsAddr)
	assert.Equal(t, "api-server", cfg.OTEL.ServiceName)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9999"
engine:
  timeout: 3s
  lock: memory
probe:
  user_agent: test-agent
aws:
  global_region: us-west-2
`), 0o600))
	t.Setenv("LOG_LEVEL", "debug")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.Engine.Evaluator.Timeout)
	assert.Equal(t, "memory", cfg.Engine.Lock)
	assert.Equal(t, "test-agent", cfg.Probe.HTTP.UserAgent)
	assert.Equal(t, "us-west-2", cfg.AWS.GlobalRegion)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o600))
	_, _, err := Load(path)
	assert.Error(t, err)
}
