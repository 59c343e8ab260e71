package logstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	perrors "pingwatch/pkg/errors"
)

// Category identifies one of the live log files.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryFault   Category = "fault"
	CategoryDebug   Category = "debug"
)

// Categories lists every category in archive order.
var Categories = []Category{CategorySuccess, CategoryFault, CategoryDebug}

// ParseCategory accepts a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategorySuccess, CategoryFault, CategoryDebug:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", perrors.ErrUnknownCategory, s)
}

// TimestampLayout prefixes every appended line.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Store is the set of append-only live log files. Writes to the same file
// are serialized with a per-category lock; different categories never block
// each other.
type Store struct {
	paths map[Category]string
	locks map[Category]*sync.Mutex
	now   func() time.Time
}

// New creates a Store over the given file paths. Files are created lazily.
func New(paths map[Category]string) *Store {
	s := &Store{
		paths: make(map[Category]string, len(Categories)),
		locks: make(map[Category]*sync.Mutex, len(Categories)),
		now:   time.Now,
	}
	for _, c := range Categories {
		s.paths[c] = paths[c]
		s.locks[c] = &sync.Mutex{}
	}
	return s
}

// Append writes one timestamped line to the log of category c, creating the
// parent directory and file on first use.
func (s *Store) Append(c Category, text string) error {
	path, mu, err := s.lookup(c)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("%s - %s\n", s.now().Format(TimestampLayout), text)

	mu.Lock()
	defer mu.Unlock()

	if err := ensureDir(path); err != nil {
		return logError(c, path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return logError(c, path, err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return logError(c, path, err)
	}
	if err := f.Close(); err != nil {
		return logError(c, path, err)
	}
	return nil
}

// Clear truncates the log of category c, creating it if absent.
func (s *Store) Clear(c Category) error {
	path, mu, err := s.lookup(c)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if err := ensureDir(path); err != nil {
		return logError(c, path, err)
	}
	if err := truncate(path); err != nil {
		return logError(c, path, err)
	}
	return nil
}

// WithLock runs fn while holding the write lock of category c, so fn sees
// and leaves the file in a state no concurrent Append can interleave with.
func (s *Store) WithLock(c Category, fn func(path string) error) error {
	path, mu, err := s.lookup(c)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	return fn(path)
}

func (s *Store) lookup(c Category) (string, *sync.Mutex, error) {
	mu, ok := s.locks[c]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", perrors.ErrUnknownCategory, string(c))
	}
	return s.paths[c], mu, nil
}

// Truncate empties the file at path, creating it if needed. Callers must
// hold the category lock.
func Truncate(path string) error {
	return truncate(path)
}

func truncate(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func logError(c Category, path string, err error) error {
	return &perrors.LogError{
		Category: string(c),
		Path:     path,
		Err:      fmt.Errorf("%w: %v", perrors.ErrLogWriteFailed, err),
	}
}
