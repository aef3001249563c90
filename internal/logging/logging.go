// Package logging routes sub-system loggers to a single log file. The TUI
// owns stdout, so nothing here ever writes to the terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	btclogv1 "github.com/btcsuite/btclog"
	"github.com/btcsuite/btclog/v2"
)

// DefaultLogFilename is created inside the config directory.
const DefaultLogFilename = "mailnet.log"

// Logs owns the log file and the handler every sub-system logger shares.
type Logs struct {
	out     io.WriteCloser
	handler btclog.Handler
}

// Open creates (or appends to) the log file in dir and sets the level.
func Open(dir, level string) (*Logs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, DefaultLogFilename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level)
}

// New builds Logs over an arbitrary writer.
func New(out io.WriteCloser, level string) (*Logs, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	h := btclog.NewDefaultHandler(out)
	h.SetLevel(lvl)
	return &Logs{out: out, handler: h}, nil
}

// ParseLevel maps names like "debug" or "warn" onto btclog levels. An empty
// string means info.
func ParseLevel(s string) (btclogv1.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return btclogv1.LevelInfo, nil
	}
	lvl, ok := btclogv1.LevelFromString(s)
	if !ok {
		return btclogv1.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// Logger returns a logger tagged with the given sub-system.
func (l *Logs) Logger(subsystem string) btclog.Logger {
	return btclog.NewSLogger(l.handler.SubSystem(subsystem))
}

func (l *Logs) Close() error {
	return l.out.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NopCloser adapts a writer that must not be closed, such as a test buffer.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
