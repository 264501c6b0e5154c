package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	path := writeConfigFile(t, `{
		"cloud_base_url": "https://json.fieldsync.example",
		"database_path": "/tmp/json.db",
		"http_timeout": "5s",
		"heartbeat_interval": 120
	}`)

	os.Args = []string{"cmd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "https://json.fieldsync.example", cfg.CloudBaseURL)
	// absent field keeps the default
	assert.Equal(t, "http://192.168.4.1:3000", cfg.PresenceBaseURL)
	assert.Equal(t, "/tmp/json.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 120*time.Second, cfg.HeartbeatInterval)
}

func TestParseJsonNoFlag(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "https://api.fieldsync.example", cfg.CloudBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestLoadConfigFlagOverridesJson(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	path := writeConfigFile(t, `{"cloud_base_url": "https://json.fieldsync.example", "heartbeat_interval": 90}`)

	os.Args = []string{"cmd", "-c", path, "-a", "https://flag.fieldsync.example"}

	cfg := LoadConfig()

	assert.Equal(t, "https://flag.fieldsync.example", cfg.CloudBaseURL)
	assert.Equal(t, 90*time.Second, cfg.HeartbeatInterval)
}
