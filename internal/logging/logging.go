// Package logging provides the shared structured logger for elkhorn.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// EnvLogLevel overrides the default log level when set (e.g., "debug").
const EnvLogLevel = "ELKHORN_LOG_LEVEL"

var (
	defaultLogger *logrus.Logger
	initOnce      sync.Once
)

// Default returns the process-wide logger. Level defaults to warn so library
// use stays quiet; ELKHORN_LOG_LEVEL raises it for debugging.
func Default() logrus.FieldLogger {
	initOnce.Do(func() {
		defaultLogger = logrus.New()
		defaultLogger.SetOutput(os.Stderr)
		defaultLogger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: false,
			FullTimestamp:    true,
		})
		defaultLogger.SetLevel(logrus.WarnLevel)
		if raw := os.Getenv(EnvLogLevel); raw != "" {
			if level, err := logrus.ParseLevel(raw); err == nil {
				defaultLogger.SetLevel(level)
			}
		}
	})
	return defaultLogger
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
