package config

import (
	"flag"
	"os"
	"time"

	"github.com/responderhq/fieldsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the cloud backend API
//	-p string   base URL of the local presence service
//	-d string   path of the local credentials database
//	-i int      heartbeat interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.CloudBaseURL, "a", cfg.CloudBaseURL, "base URL of the cloud backend API")
	fs.StringVar(&cfg.PresenceBaseURL, "p", cfg.PresenceBaseURL, "base URL of the local presence service")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local credentials database")
	heartbeatInterval := fs.Int("i", int(cfg.HeartbeatInterval.Seconds()), "heartbeat interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HeartbeatInterval = time.Duration(*heartbeatInterval) * time.Second
}
