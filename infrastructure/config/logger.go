package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger - text logger with full timestamps at the configured level.
// Unknown levels fall back to info.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
		logger.Warnf("Unknown log level %q, using info", level)
		return logger
	}
	logger.SetLevel(lvl)
	return logger
}
