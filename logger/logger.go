package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	projectLogger *logrus.Logger
	once          sync.Once
)

// GetProjectLogger returns the logger shared by every package in the project.
func GetProjectLogger() *logrus.Logger {
	once.Do(func() {
		projectLogger = logrus.New()
		projectLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
	})
	return projectLogger
}

// Configure sets the level and output of the project logger. An empty level leaves it unchanged.
func Configure(level string, out io.Writer) error {
	l := GetProjectLogger()
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(lvl)
	}
	if out != nil {
		l.SetOutput(out)
	}
	return nil
}
