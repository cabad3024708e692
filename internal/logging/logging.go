// Package logging builds the logrus.Logger that orchestrator.Options
// accepts, so cmd/schemadrift is the only place log level and
// format get decided.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a logger from a level ("debug", "info", "warn", "error") and
// a format ("text" or "json"). An unrecognized level falls back to info
// rather than failing startup over a typo'd config value.
func New(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
