// Package logger builds the console zap logger shared by the CLI and the HTTP service.
package logger

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. An empty name is info; an
// unknown one is info plus an error describing the bad value.
func ParseLevel(level string) (zapcore.Level, error) {
	lvl := zapcore.InfoLevel
	if level == "" {
		return lvl, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// New returns a human-readable console logger on stderr. verbose forces
// debug level. An unknown level falls back to info and is reported through
// the new logger.
func New(level string, verbose bool) (*zap.Logger, error) {
	lvl, levelErr := ParseLevel(level)
	if verbose {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          "console",
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     encoderConfig(stderrIsTerminal()),
		DisableCaller:     true,
		DisableStacktrace: true,
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	if levelErr != nil {
		log.Warn("Invalid log level, using info", zap.Error(levelErr))
	}
	return log, nil
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	levelEncoder := zapcore.CapitalLevelEncoder
	if color {
		levelEncoder = zapcore.CapitalColorLevelEncoder
	}

	return zapcore.EncoderConfig{
		TimeKey:          "T",
		LevelKey:         "L",
		MessageKey:       "M",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      levelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
