// Package logger provides leveled logging with file rotation for the
// mongomanager service. A process-wide instance is initialised once from
// configuration and shared by every package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents the severity of a log message.
type Level int

// Severity levels, lowest first.
const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelPrefixes = map[Level]string{
	DEBUG: "[DEBUG] ",
	INFO:  "[INFO] ",
	WARN:  "[WARN] ",
	ERROR: "[ERROR] ",
	FATAL: "[FATAL] ",
}

// ParseLevel converts a level name to its Level constant. Unknown names
// fall back to INFO.
func ParseLevel(name string) Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// RotationConfig controls lumberjack log rotation.
type RotationConfig struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger writes leveled messages to stdout and a rotated log file.
type Logger struct {
	out   map[Level]*log.Logger
	level Level
	mu    sync.RWMutex
}

var instance *Logger
var once sync.Once

// Init initialises the global logger instance. Subsequent calls are no-ops.
func Init(logPath string, level Level, rotation RotationConfig) {
	once.Do(func() {
		instance = New(logPath, level, rotation)
	})
}

// New creates a logger writing to both stdout and a rotated file at logPath.
func New(logPath string, level Level, rotation RotationConfig) *Logger {
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("cannot create log directory %s: %v", dir, err)
	}

	file := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	}
	w := io.MultiWriter(os.Stdout, file)

	l := &Logger{
		out:   make(map[Level]*log.Logger, len(levelPrefixes)),
		level: level,
	}
	for lvl, prefix := range levelPrefixes {
		l.out[lvl] = log.New(w, prefix, log.LstdFlags|log.Lshortfile)
	}
	return l
}

// SetLevel changes the minimum level to emit.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) enabled(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *Logger) logf(level Level, format string, v ...interface{}) {
	if !l.enabled(level) {
		return
	}
	// calldepth 3: logf -> leveled method -> caller
	l.out[level].Output(3, fmt.Sprintf(format, v...))
	if level == FATAL {
		os.Exit(1)
	}
}

// Debugf logs a formatted debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(DEBUG, format, v...) }

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.logf(INFO, format, v...) }

// Warnf logs a formatted warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.logf(WARN, format, v...) }

// Errorf logs a formatted error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(ERROR, format, v...) }

// Fatalf logs a formatted fatal-level message and exits the process.
func (l *Logger) Fatalf(format string, v ...interface{}) { l.logf(FATAL, format, v...) }

// Global convenience functions operating on the shared instance. Safe to
// call before Init; messages are dropped until the logger exists.

// Debugf logs a formatted debug-level message using the global instance.
func Debugf(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(DEBUG, format, v...)
	}
}

// Infof logs a formatted info-level message using the global instance.
func Infof(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(INFO, format, v...)
	}
}

// Warnf logs a formatted warning-level message using the global instance.
func Warnf(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(WARN, format, v...)
	}
}

// Errorf logs a formatted error-level message using the global instance.
func Errorf(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(ERROR, format, v...)
	}
}

// Fatalf logs a formatted fatal-level message using the global instance and
// exits the process.
func Fatalf(format string, v ...interface{}) {
	if instance != nil {
		instance.logf(FATAL, format, v...)
		return
	}
	log.Fatalf(format, v...)
}
