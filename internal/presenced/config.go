package presenced

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the presence daemon. Everything comes
// from the environment so the binary can run unattended on the field router.
type Config struct {
	HTTPAddr        string
	StalenessWindow time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":3000"),
		StalenessWindow: getenvDuration("STALENESS_WINDOW", 120*time.Second),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
