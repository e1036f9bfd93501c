package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

const (
	EventStartup      = "SERVICE_STARTUP"
	EventShutdown     = "SERVICE_SHUTDOWN"
	EventDBConnection = "DB_CONNECTION"
	EventAuth         = "AUTH"
	EventAccessDenied = "ACCESS_DENIED"
	EventCache        = "CACHE"
	EventFileStore    = "FILE_STORE"
	EventGeneral      = "GENERAL"
)

type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Service   string         `json:"service"`
	EventType string         `json:"event_type"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

type Config struct {
	ServiceName string
	LogFilePath string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

type Logger struct {
	config Config
	writer io.Writer
	mu     sync.Mutex
}

var sensitiveFields = map[string]bool{
	"password":      true,
	"token":         true,
	"authorization": true,
	"secret":        true,
}

var instance *Logger

func Init(cfg Config) {
	instance = New(cfg)
}

func Get() *Logger {
	if instance == nil {
		instance = &Logger{
			config: Config{ServiceName: "alkify"},
			writer: os.Stdout,
		}
	}
	return instance
}

func New(cfg Config) *Logger {
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 30
	}

	writers := []io.Writer{os.Stdout}
	if cfg.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: cannot create log directory for %s: %v, using stdout only\n", cfg.LogFilePath, err)
		} else {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.LogFilePath,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   true,
			})
		}
	}
	return &Logger{config: cfg, writer: io.MultiWriter(writers...)}
}

func (l *Logger) log(level Level, eventType, message string, details map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.config.ServiceName,
		EventType: eventType,
		Message:   message,
		Details:   sanitize(details),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to marshal log entry: %v\n", err)
		return
	}
	l.writer.Write(append(data, '\n'))
}

func (l *Logger) Info(eventType, message string, details map[string]any) {
	l.log(LevelInfo, eventType, message, details)
}

func (l *Logger) Warn(eventType, message string, details map[string]any) {
	l.log(LevelWarn, eventType, message, details)
}

func (l *Logger) Error(eventType, message string, details map[string]any) {
	l.log(LevelError, eventType, message, details)
}

func (l *Logger) Fatal(eventType, message string, details map[string]any) {
	l.log(LevelError, eventType, message, details)
	os.Exit(1)
}

func Info(eventType, message string, details map[string]any) {
	Get().Info(eventType, message, details)
}
func Warn(eventType, message string, details map[string]any) {
	Get().Warn(eventType, message, details)
}
func Error(eventType, message string, details map[string]any) {
	Get().Error(eventType, message, details)
}
func Fatal(eventType, message string, details map[string]any) {
	Get().Fatal(eventType, message, details)
}

// Fields builds a details map from alternating key/value pairs.
func Fields(kv ...any) map[string]any {
	details := make(map[string]any)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		details[key] = kv[i+1]
	}
	return details
}

func sanitize(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		if sensitiveFields[strings.ToLower(k)] {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = v
	}
	return out
}
