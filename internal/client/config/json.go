package config

import (
	"encoding/json"
	"os"

	"github.com/responderhq/fieldsync/internal/flagx"
	"github.com/responderhq/fieldsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "60s"
// or as plain numbers of seconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	CloudBaseURL      string         `json:"cloud_base_url"`
	PresenceBaseURL   string         `json:"presence_base_url"`
	DatabasePath      string         `json:"database_path"`
	HTTPTimeout       timex.Duration `json:"http_timeout"`
	HeartbeatInterval timex.Duration `json:"heartbeat_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags (flagx.JsonConfigFlags);
// when absent, nothing is loaded. Empty JSON fields keep the current value,
// so the intended order is: defaults -> parseJson -> parseFlags, where
// later stages override earlier ones. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.CloudBaseURL != "" {
		cfg.CloudBaseURL = jc.CloudBaseURL
	}
	if jc.PresenceBaseURL != "" {
		cfg.PresenceBaseURL = jc.PresenceBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.HTTPTimeout.Duration > 0 {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	if jc.HeartbeatInterval.Duration > 0 {
		cfg.HeartbeatInterval = jc.HeartbeatInterval.Duration
	}
}
