// Package logging builds the zap loggers used by the imgedit CLI.
//
// Console output always goes to stderr so stdout stays free for image bytes
// and pixel dumps. An optional log file is rotated with lumberjack.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DefaultMaxSizeMB is the size at which the log file is rotated.
	DefaultMaxSizeMB = 100

	// DefaultMaxBackups is how many rotated files are kept.
	DefaultMaxBackups = 5

	// DefaultMaxAgeDays is how long rotated files are kept.
	DefaultMaxAgeDays = 30
)

// Options controls logger construction.
type Options struct {
	Level       string    // debug, info, warn, error; empty means info
	Development bool      // colored console encoder instead of JSON
	FilePath    string    // optional rotating log file
	Console     io.Writer // defaults to os.Stderr
}

// ParseLevel maps a level name to a zapcore.Level, falling back to def for
// empty or unknown names.
func ParseLevel(name string, def zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return def
	}
}

// ValidLevel reports whether name is a level ParseLevel understands.
// The empty string is valid and means the default.
func ValidLevel(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// New builds a logger writing to the console and, when FilePath is set, to a
// rotating JSON log file as well.
func New(opts Options) *zap.Logger {
	level := ParseLevel(opts.Level, zapcore.InfoLevel)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var consoleEncoder zapcore.Encoder
	if opts.Development {
		consoleEncoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(encoderConfig())
	}
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(console), level)

	if opts.FilePath != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig()),
			NewFileWriter(opts.FilePath),
			level,
		)
		core = zapcore.NewTee(core, fileCore)
	}

	return zap.New(core, zap.AddCaller())
}

// NewFileWriter returns a rotating, compressing file sink.
func NewFileWriter(path string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	})
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return cfg
}
