package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	maxLogSize  = 6 << 20
	keepLogSize = 5 << 20
)

// logFile is an append-only log that drops its oldest bytes once it grows
// past max bytes, keeping the newest keep bytes.
type logFile struct {
	mu   sync.Mutex
	f    *os.File
	size int64
	max  int64
	keep int64
}

func openLogFile(path string, maxSize, keepSize int64) (*logFile, error) {
	if keepSize >= maxSize {
		return nil, fmt.Errorf("log file: keep size %d must be below max size %d", keepSize, maxSize)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	lf := &logFile{f: f, size: info.Size(), max: maxSize, keep: keepSize}
	if err := lf.trim(); err != nil {
		f.Close()
		return nil, err
	}
	return lf, nil
}

func (l *logFile) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.f.Write(p)
	l.size += int64(n)
	if err != nil {
		return n, err
	}
	return n, l.trim()
}

func (l *logFile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// trim must be called with mu held.
func (l *logFile) trim() error {
	if l.size <= l.max {
		return nil
	}

	tail := make([]byte, l.keep)
	n, err := l.f.ReadAt(tail, l.size-l.keep)
	if err != nil && err != io.EOF {
		return err
	}
	if err := l.f.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end after truncation.
	if _, err := l.f.Write(tail[:n]); err != nil {
		return err
	}
	l.size = int64(n)
	return nil
}
