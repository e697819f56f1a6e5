package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

// Options controls where logs go and how much is kept.
type Options struct {
	Level      string
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	Stdout     bool // also write to stdout
}

// DefaultOptions mirrors the rotation settings the server has always used.
func DefaultOptions() Options {
	return Options{
		Level:      "info",
		File:       "./logs/app.log",
		MaxSize:    10,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   true,
	}
}

// Setup initializes Logrus with a rotating file and returns the writer it
// logs to, so HTTP access logs can share the same sink.
func Setup(opts Options) io.Writer {
	// 1) Lumberjack for file rotation
	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   opts.Compress,
	}

	var output io.Writer = rotator
	if opts.Stdout {
		output = io.MultiWriter(rotator, os.Stdout)
	}

	// 2) Configure Logrus to write to that file
	logrus.SetOutput(output)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logrus.WithError(err).Warnf("unknown log level %q, falling back to info", opts.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return output
}

// GormLogger returns the standard Logrus logger for GORM
func GormLogger() *logrus.Logger {
	return logrus.StandardLogger()
}
