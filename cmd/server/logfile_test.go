package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFile_TrimsToNewestBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	lf, err := openLogFile(path, 20, 10)
	require.NoError(t, err)
	defer lf.Close()

	_, err = lf.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = lf.Write([]byte("abcdefghijklm"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "defghijklm", string(data))

	_, err = lf.Write([]byte("XY"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "defghijklmXY", string(data))
}

func TestLogFile_TrimsExistingFileOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("a", 30)+"tail"), 0o644))

	lf, err := openLogFile(path, 20, 4)
	require.NoError(t, err)
	require.NoError(t, lf.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "tail", string(data))
}

func TestLogFile_RejectsKeepAboveMax(t *testing.T) {
	_, err := openLogFile(filepath.Join(t.TempDir(), "x.log"), 10, 10)
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "WARN", parseLogLevel("warn").String())
	require.Equal(t, "ERROR", parseLogLevel("error").String())
	require.Equal(t, "INFO", parseLogLevel("verbose").String())
}
