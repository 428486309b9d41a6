package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init points the logger at logPath, creating parent directories as needed.
// An empty path discards all output. Stdout is never used because it carries
// the progress bar and the result table.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if logPath == "" {
		logger.SetOutput(io.Discard)
		return nil
	}

	if dir := filepath.Dir(logPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = file
	logger.SetOutput(logFile)
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	logger.SetOutput(io.Discard)
	err := logFile.Close()
	logFile = nil
	return err
}

// Logger exposes the shared logger for callers that want structured fields.
func Logger() logrus.FieldLogger {
	return logger
}

func LogEvent(format string, args ...any) {
	logger.Infof(format, args...)
}

func LogDebug(format string, args ...any) {
	logger.Debugf(format, args...)
}

// LogRequest records a payload exchanged with a provider at debug level.
func LogRequest(direction, provider, model string, payload any) {
	logger.WithFields(requestFields(direction, provider, model)).Debug(formatPayload(payload))
}

func requestFields(direction, provider, model string) logrus.Fields {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	providerValue := strings.TrimSpace(provider)
	if providerValue == "" {
		providerValue = "unknown"
	}
	modelValue := strings.TrimSpace(model)
	if modelValue == "" {
		modelValue = "unknown"
	}
	return logrus.Fields{
		"direction": dir,
		"provider":  providerValue,
		"model":     modelValue,
	}
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
