package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Init configures it; until then a default
// text logger is used.
var Log = logrus.New()

var initOnce sync.Once

// Init configures the global logger from LOG_LEVEL and LOG_FORMAT.
// It should be called once at process start.
func Init() {
	initOnce.Do(func() {
		level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
		if err != nil {
			level = logrus.InfoLevel
		}
		Log.SetLevel(level)

		if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
			Log.SetFormatter(&logrus.JSONFormatter{})
		} else {
			Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
		Log.SetOutput(os.Stdout)
	})
}

// For returns an entry tagged with the emitting subsystem.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
