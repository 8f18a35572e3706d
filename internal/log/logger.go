// Package log provides logging to the console and a structured log file.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the log directory.
const FileName = "studydeck.log"

// Logger writes plain text to the console and JSON lines to a log file.
type Logger struct {
	file    *os.File
	console io.Writer
	errOut  io.Writer
	zap     *zap.SugaredLogger
	undo    func()
	mu      sync.Mutex
}

// New creates a logger writing to stdout and <logDir>/studydeck.log.
func New(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, FileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), zapcore.DebugLevel)

	return &Logger{
		file:    file,
		console: os.Stdout,
		errOut:  os.Stderr,
		zap:     zap.New(core).Sugar(),
	}, nil
}

// Printf writes a formatted message to console and log file.
func (l *Logger) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	_, _ = fmt.Fprint(l.console, msg)
	l.mu.Unlock()
	if trimmed := strings.TrimSpace(msg); trimmed != "" {
		l.zap.Info(trimmed)
	}
}

// Println writes a message to console and log file with a newline.
func (l *Logger) Println(args ...interface{}) {
	msg := fmt.Sprintln(args...)
	l.mu.Lock()
	_, _ = fmt.Fprint(l.console, msg)
	l.mu.Unlock()
	if trimmed := strings.TrimSpace(msg); trimmed != "" {
		l.zap.Info(trimmed)
	}
}

// Errorf writes a formatted error message to stderr and log file.
func (l *Logger) Errorf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	l.mu.Lock()
	_, _ = fmt.Fprintln(l.errOut, msg)
	l.mu.Unlock()
	l.zap.Error(msg)
}

// Infow logs a message with structured key/value pairs to the file only.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.zap.Infow(msg, keysAndValues...)
}

// Warnw logs a warning with structured key/value pairs to the file only.
func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.zap.Warnw(msg, keysAndValues...)
}

// Detach stops console output. Used once the TUI owns the terminal.
func (l *Logger) Detach() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = io.Discard
	l.errOut = io.Discard
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.undo != nil {
		l.undo()
		l.undo = nil
	}
	_ = l.zap.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Global logger instance
var globalLogger *Logger

// Init initializes the global logger.
// Go's standard log package is redirected into the structured file sink so
// stray log.Printf calls cannot corrupt the TUI.
func Init(logDir string) error {
	logger, err := New(logDir)
	if err != nil {
		return err
	}
	logger.undo = zap.RedirectStdLog(logger.zap.Desugar())
	globalLogger = logger
	return nil
}

// Printf uses the global logger to print formatted output.
func Printf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Printf(format, args...)
	} else {
		fmt.Printf(format, args...)
	}
}

// Println uses the global logger to print output with newline.
func Println(args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Println(args...)
	} else {
		fmt.Println(args...)
	}
}

// Errorf uses the global logger to print formatted error output.
func Errorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	} else {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Infow records a structured event in the log file. No-op before Init.
func Infow(msg string, keysAndValues ...interface{}) {
	if globalLogger != nil {
		globalLogger.Infow(msg, keysAndValues...)
	}
}

// Warnw records a structured warning in the log file. No-op before Init.
func Warnw(msg string, keysAndValues ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warnw(msg, keysAndValues...)
	}
}

// Detach silences console output of the global logger.
func Detach() {
	if globalLogger != nil {
		globalLogger.Detach()
	}
}

// Close closes the global logger.
func Close() error {
	if globalLogger != nil {
		err := globalLogger.Close()
		globalLogger = nil
		return err
	}
	return nil
}
