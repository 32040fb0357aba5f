// Package logger holds the process-wide structured logger.
//
// The logger starts as a no-op so library callers never pay for output they
// did not ask for. The CLI calls Initialize once flags and config are known.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cockroachdb/errors"
)

// Logger is the global sugared logger. Never nil.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger. level is one of debug, info, warn,
// error; format is "json" or "text".
func Initialize(level, format string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "", "text":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		encoder = zapcore.NewConsoleEncoder(cfg)
	default:
		return errors.Newf("LOG_FORMAT: unsupported log format %q", format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), lvl)
	Logger = zap.New(core).Sugar()
	return nil
}

// ParseLevel maps a config level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, errors.Newf("LOG_LEVEL: unsupported log level %q", level)
	}
}

// Reset restores the no-op logger.
func Reset() {
	_ = Logger.Sync()
	Logger = zap.NewNop().Sugar()
}
