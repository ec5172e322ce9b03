// Package logging provides the structured logger used across hashart.
//
// It wraps zap with a console + rotating file tee: development mode writes
// colored human-readable lines to the console, production mode writes JSON
// everywhere. The file side always writes JSON through lumberjack.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls how NewLogger builds a Logger.
type Config struct {
	// Development selects the colored console encoder and debug level default.
	Development bool

	// Level is the minimum level logged. Zero value is InfoLevel.
	Level zapcore.Level

	// FilePath enables JSON file output with rotation when non-empty.
	FilePath string

	// File tunes rotation; zero fields fall back to defaults.
	File FileWriterConfig

	// Console receives console output. Defaults to os.Stderr so that
	// commands writing artwork or scene data to stdout stay clean.
	Console io.Writer
}

// Logger wraps zap.Logger and its sugared form.
//
// Example:
//
//	logger, err := NewLogger(Config{Development: true, FilePath: "hashart.log"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("render complete", zap.String("hash", hash))
type Logger struct {
	zap           *zap.Logger
	sugar         *zap.SugaredLogger
	isDevelopment bool
	logFilePath   string
}

// NewLogger creates a Logger from cfg.
//
// Returns an error if the log file's directory cannot be created.
func NewLogger(cfg Config) (*Logger, error) {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	var file zapcore.WriteSyncer
	if cfg.FilePath != "" {
		w, err := NewFileWriter(cfg.FilePath, cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file writer: %w", err)
		}
		file = w
	}

	core := NewTeeCore(cfg.Level, zapcore.Lock(zapcore.AddSync(console)), file, cfg.Development)
	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // Skip this wrapper layer
	)

	return &Logger{
		zap:           zapLogger,
		sugar:         zapLogger.Sugar(),
		isDevelopment: cfg.Development,
		logFilePath:   cfg.FilePath,
	}, nil
}

// NewNopLogger returns a Logger that discards everything. Useful in tests
// and for library callers that do not want output.
func NewNopLogger() *Logger {
	z := zap.NewNop()
	return &Logger{zap: z, sugar: z.Sugar()}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// Debug logs a message at DebugLevel with optional structured fields.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}

// Info logs a message at InfoLevel with optional structured fields.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

// Warn logs a message at WarnLevel with optional structured fields.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

// Error logs a message at ErrorLevel with optional structured fields.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, fields...)
}

// Fatal logs a message at FatalLevel then calls os.Exit(1).
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, fields...)
}

// Debugw logs at DebugLevel with loosely-typed key-value pairs.
func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Infow logs at InfoLevel with loosely-typed key-value pairs.
//
// Example:
//
//	logger.Infow("scene generated", "hash", hash, "shapes", 450)
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warnw logs at WarnLevel with loosely-typed key-value pairs.
func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Errorw logs at ErrorLevel with loosely-typed key-value pairs.
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// With creates a child logger with additional fields that will be included
// in all log entries from the child.
//
// Example:
//
//	renderLogger := logger.With(zap.String("hash", hash))
//	renderLogger.Info("rasterizing")
func (l *Logger) With(fields ...zap.Field) *Logger {
	z := l.zap.With(fields...)
	return &Logger{
		zap:           z,
		sugar:         z.Sugar(),
		isDevelopment: l.isDevelopment,
		logFilePath:   l.logFilePath,
	}
}

// Named adds a sub-logger name, e.g. "render" or "history".
func (l *Logger) Named(name string) *Logger {
	z := l.zap.Named(name)
	return &Logger{
		zap:           z,
		sugar:         z.Sugar(),
		isDevelopment: l.isDevelopment,
		logFilePath:   l.logFilePath,
	}
}

// Zap returns the underlying zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// IsDevelopment returns true if the logger is configured for development mode.
func (l *Logger) IsDevelopment() bool {
	return l.isDevelopment
}

// LogFilePath returns the path to the log file, or "" when file output is off.
func (l *Logger) LogFilePath() string {
	return l.logFilePath
}
