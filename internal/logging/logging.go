// Package logging holds the shared application logger.
package logging

import (
	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Commands configure its level at startup;
// everything else just uses it.
var Log = logrus.New()

// SetLevel applies a textual log level such as "debug" or "warn". Unknown
// levels fall back to info.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Log.WithField("level", level).Warn("unknown log level, using info")
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)
}
