package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogger configures the global logrus logger. Unknown levels fall back to info.
func SetupLogger(logLevel string) {
	SetupLoggerTo(os.Stdout, logLevel)
}

func SetupLoggerTo(out io.Writer, logLevel string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(out)
	logrus.SetLevel(level)
}
