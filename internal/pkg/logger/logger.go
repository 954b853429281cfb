// Package logger builds the logrus logger shared by the orchestrator and CLI.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formats understood by New
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config controls the logger level, format and destination
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// New creates a logger. An unknown level falls back to info, an unknown
// format to text, a nil output to stderr.
func New(cfg Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.ToLower(cfg.Format) == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	log.SetOutput(cfg.Output)

	return log
}

// Discard returns a logger that drops everything, for tests and quiet runs
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
