package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application-wide logger. It is usable before Init is called
// and defaults to a text formatter at info level.
var Log = logrus.New()

// Init configures the global logger for the given mode and level.
// prod uses a JSON formatter so log shippers can parse fields.
func Init(mode, level string) {
	Log.SetOutput(os.Stdout)

	if mode == "prod" {
		Log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
		Log.WithField("level", level).Warn("unknown LOG_LEVEL, falling back to info")
	}
	Log.SetLevel(lvl)
}
