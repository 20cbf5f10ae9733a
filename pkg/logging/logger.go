package logging

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates a new hclog logger with the boot module's standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("MISTBOOT_JSON_LOG") == "1"

	if !jsonFormat {
		output = NewPrefixWriter(Prefix(), output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// Prefix returns the line prefix for plain-text output (ASCII on Windows)
func Prefix() string {
	if runtime.GOOS == "windows" {
		return "[MIST] "
	}
	return "🖥️ "
}

// GetLogLevel returns the configured log level from environment
func GetLogLevel() string {
	level := os.Getenv("MISTBOOT_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return level
}

// OpenOutput returns the log destination: MISTBOOT_LOG_PATH when set and
// writable, stderr otherwise.
func OpenOutput() io.Writer {
	if logPath := os.Getenv("MISTBOOT_LOG_PATH"); logPath != "" {
		if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			return file
		}
	}
	return os.Stderr
}
