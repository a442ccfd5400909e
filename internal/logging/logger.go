package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/0x0918/sstan/internal/config"
)

// New creates a named hclog.Logger from the logger section of cfg. The
// SSTAN_LOG_LEVEL environment variable takes precedence over the file.
func New(cfg config.Config, name string) hclog.Logger {
	return NewWithOutput(cfg, name, os.Stderr)
}

func NewWithOutput(cfg config.Config, name string, out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		JSONFormat:  cfg.Logger.JSON,
		Output:      out,
		Level:       determineLogLevel(cfg),
	})
}

func determineLogLevel(cfg config.Config) hclog.Level {
	if env := os.Getenv("SSTAN_LOG_LEVEL"); env != "" {
		return parseLogLevel(env)
	}
	return parseLogLevel(cfg.Logger.Level)
}

// parseLogLevel maps a level name to hclog.Level, defaulting to Info.
func parseLogLevel(level string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		return hclog.Info
	}
}
