package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger builds the process logger. Output goes to stderr unless LogFile is
// set, so it never interleaves with the game's own output on stdout.
func (c Config) Logger() (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	name := strings.ToLower(c.LogLevel)
	if name == "" {
		name = "warn"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	encoding := strings.ToLower(c.LogFormat)
	if encoding != "json" {
		encoding = "console"
	}

	output := c.LogFile
	if output == "" {
		output = "stderr"
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	zc := zap.Config{
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
