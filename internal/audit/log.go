package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backups is how many rotated files are kept beside the log, named
// path.1 (newest) through path.Backups.
const Backups = 3

// Logger appends entries to a JSON Lines file.
type Logger struct {
	mu    sync.Mutex
	path  string
	limit int64 // bytes; 0 never rotates
	f     *os.File
	size  int64
}

// Open opens the log at path for appending, creating parent directories
// (0o700) and the file (0o600). When maxSizeMB > 0, a write that would take
// the file past that size rotates it first.
func Open(path string, maxSizeMB int) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("audit: create dir: %w", err)
	}
	l := &Logger{path: path, limit: int64(maxSizeMB) << 20}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

// Append writes a single entry to the log at path.
func Append(path string, maxSizeMB int, e Entry) error {
	l, err := Open(path, maxSizeMB)
	if err != nil {
		return err
	}
	werr := l.Write(e)
	return errors.Join(werr, l.Close())
}

func (l *Logger) open() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("audit: open: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("audit: stat: %w", err)
	}
	l.f, l.size = f, info.Size()
	return nil
}

// Write appends e as one line. It is safe for concurrent use; a nil Logger
// discards the entry.
func (l *Logger) Write(e Entry) error {
	if l == nil {
		return nil
	}
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: encode: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limit > 0 && l.size > 0 && l.size+int64(len(line)) > l.limit {
		if err := l.rotate(); err != nil {
			return err
		}
	}

	n, err := l.f.Write(line)
	l.size += int64(n)
	if err != nil {
		return fmt.Errorf("audit: write: %w", err)
	}
	return nil
}

// Close closes the file. Closing a nil Logger is a no-op.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// rotate shifts path.N to path.N+1, moves the live file to path.1 and
// reopens an empty one. The oldest backup is overwritten.
func (l *Logger) rotate() error {
	if err := l.f.Close(); err != nil {
		return fmt.Errorf("audit: rotate: %w", err)
	}

	var shiftErr error
	for i := Backups - 1; i >= 1; i-- {
		from := backupPath(l.path, i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, backupPath(l.path, i+1)); err != nil {
			shiftErr = err
			break
		}
	}
	if shiftErr == nil {
		shiftErr = os.Rename(l.path, backupPath(l.path, 1))
	}

	if err := l.open(); err != nil {
		return err
	}
	if shiftErr != nil {
		return fmt.Errorf("audit: rotate: %w", shiftErr)
	}
	return nil
}

func backupPath(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
