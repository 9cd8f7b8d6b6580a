// Package logging configures the shared structured logger.
package logging

import (
	"github.com/sirupsen/logrus"
)

// Fields aliases logrus.Fields for callers.
type Fields = logrus.Fields

// NewLogger creates a JSON logger at the given level. Unknown levels fall
// back to info.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// WithComponent returns an entry tagged with the originating component.
func WithComponent(logger *logrus.Logger, component string) *logrus.Entry {
	return logger.WithField("component", component)
}
