package logging

import (
	"os"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/mattn/go-isatty"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log output formats accepted by New.
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds the process logger.
// An unparseable level falls back to info. FormatAuto selects the console encoder when stdout is a terminal
// and JSON otherwise. Every entry carries a per-run session id.
//
// Parameters:
//   - level: a zap level name such as "debug", "info" or "warn"
//   - format: one of FormatAuto, FormatJSON or FormatConsole (empty means FormatAuto)
//
// Returns:
//   - *zap.Logger: the configured logger
//   - error: error if the zap config fails to build
func New(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	format = common.Coalesce(format, FormatAuto)
	if format == FormatAuto {
		format = FormatJSON
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			format = FormatConsole
		}
	}

	var zapCfg zap.Config
	if format == FormatJSON {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("session", ulid.Make().String())), nil
}

// OrNop returns l, or a no-op logger when l is nil.
//
// Parameters:
//   - l: the logger to check
//
// Returns:
//   - *zap.Logger: a usable logger
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
