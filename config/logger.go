package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. JSON output so scheduler logs stay
// machine-parseable; level comes from LOG_LEVEL (default info).
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg != nil && cfg.Server.Env == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
