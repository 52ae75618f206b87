package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogOptions struct {
	Env string
	// File, when set, receives a JSON copy of every line with size-based rotation.
	File string
}

func NewLogger(opts LogOptions) zerolog.Logger {
	dev := strings.EqualFold(opts.Env, "dev")
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if dev {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, rotatingFile(opts.File))
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func rotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	}
}
