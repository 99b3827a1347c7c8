package cli

import (
	"fmt"
	"io"
	"strings"

	"csfloat/market/internal/config"

	log "github.com/sirupsen/logrus"
)

// setupLogging configures the standard logrus logger. Logs always go to
// errOut so command output on stdout stays machine-readable.
func setupLogging(cfg config.LogConfig, errOut io.Writer) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	log.SetOutput(errOut)
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return nil
}
