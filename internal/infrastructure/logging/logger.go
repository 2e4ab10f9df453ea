package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/switch-studio-core/internal/infrastructure/config"
)

// Logger is the bridge's structured logger, a thin wrapper over slog.
// Every line carries the service name and build version so output stays
// attributable when the bridge shares a host, and a log stream, with
// Mosquitto and zigbee2mqtt.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of config.yaml. Format
// "text" is for watching the bridge from a terminal during development;
// anything else produces JSON, which is what journald and container log
// collectors expect.
func New(cfg config.LoggingConfig, version string) *Logger {
	handler := newHandler(destination(cfg.Output), cfg)
	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "switchstudio"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

func destination(output string) io.Writer {
	if strings.ToLower(output) == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

func newHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}
	if strings.ToLower(cfg.Format) == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// parseLevel maps a config string onto a slog level. Unrecognised values
// fall back to info rather than failing startup over a typo.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child logger carrying extra default attributes, used to
// tag each subsystem's output:
//
//	mqttLog := log.With("component", "mqtt")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default returns a logger usable before config.yaml has been read, so
// failures in config loading itself can still be reported. JSON to stdout
// at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
