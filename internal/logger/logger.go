package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	mu     sync.Mutex
)

// Options configures the process-wide logger
type Options struct {
	Level  string
	Format string // json or text
	File   string // rotated log file; stderr when empty
}

// Init builds the logger from opts and installs it
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// New builds a logger without installing it
func New(opts Options) (*logrus.Logger, error) {
	l := logrus.New()

	switch opts.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	l.SetLevel(level)

	var out io.Writer = os.Stderr
	if opts.File != "" {
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	l.SetOutput(out)

	return l, nil
}

// Get returns the installed logger, falling back to an info-level text logger
func Get() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger, _ = New(Options{})
	}
	return logger
}
