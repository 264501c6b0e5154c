// Package config loads runtime settings for the FieldSync CLI.
package config

import "time"

// Config holds runtime settings for the FieldSync client.
//
// Fields:
//   - CloudBaseURL: base URL of the cloud backend API.
//   - PresenceBaseURL: fixed LAN address of the local presence service,
//     chosen to match the operator's hotspot/router configuration.
//   - DatabasePath: path of the local SQLite credentials database.
//   - HTTPTimeout: per-request timeout for both cloud and LAN calls.
//   - HeartbeatInterval: how often the presence beacon announces liveness.
type Config struct {
	CloudBaseURL      string
	PresenceBaseURL   string
	DatabasePath      string
	HTTPTimeout       time.Duration
	HeartbeatInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.CloudBaseURL = "https://api.fieldsync.example"
	c.PresenceBaseURL = "http://192.168.4.1:3000"
	c.DatabasePath = "fieldsync.db"
	c.HTTPTimeout = 10 * time.Second
	c.HeartbeatInterval = 60 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
