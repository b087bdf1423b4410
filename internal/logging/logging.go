package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger with the given level and format.
// If w is nil, os.Stderr is used. Format must be "text" or "json"; unknown
// levels fall back to info.
func Init(level, format string, w ...io.Writer) {
	var writer io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		writer = w[0]
	}
	logrus.SetOutput(writer)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}
}

// New returns a logger with a "component" field for module-scoped logging.
func New(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
