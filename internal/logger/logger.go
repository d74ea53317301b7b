package logger

import (
	"os"

	"agency-checkout/internal/config"

	"github.com/sirupsen/logrus"
)

// New builds the process-wide logger from LOG_LEVEL / LOG_FORMAT.
func New(cfg *config.Log) *logrus.Logger {
	logg := logrus.New()
	logg.SetOutput(os.Stdout)

	if cfg.Format == "text" {
		logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logg.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)

	return logg
}
