package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"", "trace", "debug", "info", "warn", "error", "critical", "off"} {
		_, err := ParseLevel(s)
		require.NoError(t, err, "level %q", s)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLoggerWritesSubsystem(t *testing.T) {
	var buf bytes.Buffer
	logs, err := New(NopCloser(&buf), "debug")
	require.NoError(t, err)

	logs.Logger("API").Infof("hello %d", 42)
	require.Contains(t, buf.String(), "API")
	require.Contains(t, buf.String(), "hello 42")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logs, err := New(NopCloser(&buf), "warn")
	require.NoError(t, err)

	logs.Logger("TUI").Debugf("quiet")
	require.Empty(t, buf.String())
}

func TestOpenCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	logs, err := Open(dir, "info")
	require.NoError(t, err)
	logs.Logger("CLI").Infof("started")
	require.NoError(t, logs.Close())

	b, err := os.ReadFile(filepath.Join(dir, DefaultLogFilename))
	require.NoError(t, err)
	require.Contains(t, string(b), "started")
}
