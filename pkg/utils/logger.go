package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogDir holds the rotating log file, relative to the working directory.
const LogDir = ".shield"

// Logger writes diagnostic records to a rotating file. User-facing output
// never goes through it.
type Logger struct {
	logger        *log.Logger
	jsonMode      bool
	correlationID string
	mu            sync.Mutex
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the process-wide logger, creating it on first use.
// SHIELD_JSON_LOGS=1 switches records to JSON lines and SHIELD_LOG_DIR
// moves the log file.
func GetLogger() *Logger {
	once.Do(func() {
		dir := os.Getenv("SHIELD_LOG_DIR")
		if dir == "" {
			dir = LogDir
		}
		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "shield.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = NewLogger(logFile)
	})
	return globalLogger
}

// NewLogger builds a Logger over an arbitrary writer.
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		logger:   log.New(w, "", log.LstdFlags),
		jsonMode: os.Getenv("SHIELD_JSON_LOGS") == "1",
	}
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if logFile, ok := w.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// SetCorrelationID tags subsequent records, typically with one id per command.
func (w *Logger) SetCorrelationID(id string) {
	w.mu.Lock()
	w.correlationID = id
	w.mu.Unlock()
}

func (w *Logger) cid() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.correlationID
}

func (w *Logger) write(level, message string) {
	cid := w.cid()
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": level, "msg": message, "cid": cid})
		return
	}
	if cid != "" {
		w.logger.Printf("[%s] [%s] %s", level, cid, message)
		return
	}
	w.logger.Printf("[%s] %s", level, message)
}

// Log logs a general message.
func (w *Logger) Log(message string) {
	w.write("info", message)
}

// Logf logs a formatted general message.
func (w *Logger) Logf(format string, v ...interface{}) {
	w.write("info", fmt.Sprintf(format, v...))
}

func (w *Logger) LogError(err error) {
	w.write("error", err.Error())
}

// LogOperation records a file operation.
func (w *Logger) LogOperation(operation, details string) {
	w.write("info", fmt.Sprintf("Operation: %s, Details: %s", operation, details))
}
