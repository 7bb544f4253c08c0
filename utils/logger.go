package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// Packages log before main configures anything; keep both loggers usable.
	InitLogger("info")
}

// InitLogger (re)creates both loggers. Unknown levels fall back to info.
func InitLogger(level string) {
	InfoLogger = newLogger(os.Stdout, level)
	ErrorLogger = newLogger(os.Stderr, "error")
}

func newLogger(out io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
