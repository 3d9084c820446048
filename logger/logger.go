package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Loggers start with logrus defaults so packages can log before InitLoggers runs
// (tests, CLI tools).
var (
	InfoLogger  = logrus.New()
	WarnLogger  = logrus.New()
	ErrorLogger = logrus.New()
	DebugLogger = logrus.New()
)

// InitLoggers points every logger at stdout plus a rotating file under LOG_DIR.
func InitLoggers() {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}

	configure(InfoLogger, filepath.Join(dir, "info.log"), level)
	configure(WarnLogger, filepath.Join(dir, "warn.log"), level)
	configure(ErrorLogger, filepath.Join(dir, "error.log"), level)
	configure(DebugLogger, filepath.Join(dir, "debug.log"), logrus.DebugLevel)
}

func configure(l *logrus.Logger, file string, level logrus.Level) {
	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	l.SetOutput(io.MultiWriter(os.Stdout, rotating))
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	l.SetLevel(level)
}
