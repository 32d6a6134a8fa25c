// Package logging builds the structured logger. The terminal UI owns stdout and
// stderr, so it logs to a file when one is configured and discards otherwise.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Options selects log sinks.
type Options struct {
	File   string
	Level  string
	Stderr bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger fanning out to every configured sink, and a closer for
// the log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := new(slog.LevelVar)
	if opts.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level.Set(l)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewTextHandler(f, handlerOpts))
		closer = f
	}
	if opts.Stderr {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, handlerOpts))
	}

	if len(handlers) == 0 {
		return slog.New(slog.DiscardHandler), closer, nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
