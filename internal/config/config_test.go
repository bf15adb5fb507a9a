package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewAppliesDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, time.Duration(0), cfg.Defaults.Timeout)
	assert.Equal(t, "60s", cfg.Defaults.TraceTimeout)
	assert.Equal(t, "en", cfg.Defaults.Language)
	assert.Equal(t, 1026, cfg.Defaults.MaxDepth)
	assert.Equal(t, 66, cfg.Defaults.MaxDisplayLength)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.True(t, cfg.Server.Metrics)
	assert.NoError(t, cfg.Validate())
}

func TestLoadExpandsEnvAndInheritsTimeout(t *testing.T) {
	t.Setenv("TEST_NODE_URL", "https://node.example.com/v2/secret")

	path := writeConfig(t, `
endpoints:
  - name: archive
    url: ${TEST_NODE_URL}
  - name: local
    url: http://127.0.0.1:8545
    timeout: 5s
defaults:
  endpoint: archive
  timeout: 30s
  language: zh
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Endpoints, 2)
	assert.Equal(t, "https://node.example.com/v2/secret", cfg.Endpoints[0].URL)
	assert.Equal(t, 30*time.Second, cfg.Endpoints[0].Timeout)
	assert.Equal(t, 5*time.Second, cfg.Endpoints[1].Timeout)
	assert.Equal(t, "zh", cfg.Defaults.Language)
	assert.Equal(t, "60s", cfg.Defaults.TraceTimeout, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)

	ep, err := cfg.Endpoint("")
	require.NoError(t, err)
	assert.Equal(t, "archive", ep.Name)

	ep, err = cfg.Endpoint("local")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8545", ep.URL)

	_, err = cfg.Endpoint("missing")
	assert.ErrorContains(t, err, "archive, local")
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bad scheme",
			body: "endpoints:\n  - name: a\n    url: ws://node\n",
			want: "invalid url scheme",
		},
		{
			name: "missing url",
			body: "endpoints:\n  - name: a\n",
			want: "url is required",
		},
		{
			name: "duplicate name",
			body: "endpoints:\n  - name: a\n    url: http://x\n  - name: a\n    url: http://y\n",
			want: "duplicate name",
		},
		{
			name: "unknown default endpoint",
			body: "defaults:\n  endpoint: nope\n",
			want: "not a configured endpoint",
		},
		{
			name: "bad trace timeout",
			body: "defaults:\n  trace_timeout: soon\n",
			want: "defaults.trace_timeout",
		},
		{
			name: "bad log level",
			body: "logging:\n  level: loud\n",
			want: "logging.level",
		},
		{
			name: "non-positive depth",
			body: "defaults:\n  max_depth: -1\n",
			want: "max_depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestAdHoc(t *testing.T) {
	cfg := New()
	cfg.Defaults.Timeout = 10 * time.Second

	ep := cfg.AdHoc("  http://localhost:8545 ")
	assert.Equal(t, AdHocEndpointName, ep.Name)
	assert.Equal(t, "http://localhost:8545", ep.URL)
	assert.Equal(t, 10*time.Second, ep.Timeout)
}
