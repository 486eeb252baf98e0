package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string // time layout used by the encoder

	// Rotation settings, only used when Output is a file path
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// DefaultConfig returns a default configuration suitable for development
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: defaultTimeFormat,
	}
}

// New creates a zap logger. A file output is rotated and mirrored on stdout.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaultTimeFormat
	}
	level := ParseLevel(cfg.Level)

	var core zapcore.Core
	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		core = zapcore.NewCore(newEncoder(cfg.Format, cfg.TimeFormat), zapcore.AddSync(os.Stdout), level)
	case "stderr":
		core = zapcore.NewCore(newEncoder(cfg.Format, cfg.TimeFormat), zapcore.AddSync(os.Stderr), level)
	default:
		core = zapcore.NewTee(
			zapcore.NewCore(newEncoder("json", cfg.TimeFormat), zapcore.AddSync(newRotatingFile(cfg)), level),
			zapcore.NewCore(newEncoder(cfg.Format, cfg.TimeFormat), zapcore.AddSync(os.Stdout), level),
		)
	}

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

func newRotatingFile(cfg *Config) *lumberjack.Logger {
	rotating := &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	if cfg.MaxSizeMB > 0 {
		rotating.MaxSize = cfg.MaxSizeMB
	}
	if cfg.MaxBackups > 0 {
		rotating.MaxBackups = cfg.MaxBackups
	}
	if cfg.MaxAgeDays > 0 {
		rotating.MaxAge = cfg.MaxAgeDays
	}
	return rotating
}

// ParseLevel converts a string level to zapcore.Level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder(format, timeFormat string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeFormat),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}
