package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogging applies the logging configuration to the standard logrus logger
func ConfigureLogging(cfg LoggingConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}

	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	switch cfg.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return nil
}
