package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pingwatch/internal/logstore"
	perrors "pingwatch/pkg/errors"
)

// EntryLayout is the timestamp layout embedded in archive file names.
const EntryLayout = "2006-01-02_15-04-05"

var entryNameRegex = regexp.MustCompile(`^(.+)_(\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2})\.log$`)

// EntryName returns the archive file name for a category snapshot taken at t.
func EntryName(category logstore.Category, t time.Time) string {
	return fmt.Sprintf("%s_%s.log", category, t.Format(EntryLayout))
}

// ParseEntryName extracts the label and creation time from an archive file
// name. Times are interpreted in the local zone, matching EntryName.
func ParseEntryName(name string) (string, time.Time, error) {
	m := entryNameRegex.FindStringSubmatch(name)
	if m == nil {
		return "", time.Time{}, fmt.Errorf("%w: %s", perrors.ErrArchiveNameInvalid, name)
	}
	t, err := time.ParseInLocation(EntryLayout, m[2], time.Local)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %s: %v", perrors.ErrArchiveNameInvalid, name, err)
	}
	return m[1], t, nil
}

// Entry is one archived snapshot.
type Entry struct {
	Category logstore.Category
	Path     string
	Size     int64
}

// Result describes an ArchiveAll run.
type Result struct {
	Archived []Entry
	Skipped  []logstore.Category // live log absent
}

// PrunedEntry is an archive entry removed by Prune.
type PrunedEntry struct {
	Name    string
	Size    int64
	AgeDays float64
}

// PruneResult describes a Prune sweep.
type PruneResult struct {
	Deleted []PrunedEntry
	Skipped []string // names that do not parse as archive entries
	Kept    int
}

// Options configures an Archiver.
type Options struct {
	Dir             string
	DeletionAgeDays int
	Logger          *zap.Logger
}

// Archiver snapshots live logs into Dir and prunes old, small snapshots.
type Archiver struct {
	logs            *logstore.Store
	dir             string
	deletionAgeDays int
	logger          *zap.Logger
	now             func() time.Time
}

// New creates an Archiver over the live logs of store.
func New(store *logstore.Store, opts Options) *Archiver {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		logs:            store,
		dir:             opts.Dir,
		deletionAgeDays: opts.DeletionAgeDays,
		logger:          logger.Named("archive"),
		now:             time.Now,
	}
}

// ArchiveAll copies every existing live log into a timestamped archive entry
// and truncates the live file. Absent logs are skipped without error. A
// failure on one category does not stop the others.
func (a *Archiver) ArchiveAll() (*Result, error) {
	stamp := a.now()
	result := &Result{}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return result, &perrors.LogError{
			Path: a.dir,
			Err:  fmt.Errorf("%w: %v", perrors.ErrArchiveFailed, err),
		}
	}

	var errs error
	for _, c := range logstore.Categories {
		dst := filepath.Join(a.dir, EntryName(c, stamp))

		err := a.logs.WithLock(c, func(src string) error {
			size, err := snapshot(src, dst)
			if errors.Is(err, fs.ErrNotExist) {
				result.Skipped = append(result.Skipped, c)
				a.logger.Debug("live log not found; skipping", zap.String("category", string(c)))
				return nil
			}
			if err != nil {
				return err
			}
			if err := logstore.Truncate(src); err != nil {
				return fmt.Errorf("failed to clear live log: %w", err)
			}
			result.Archived = append(result.Archived, Entry{Category: c, Path: dst, Size: size})
			a.logger.Info("archived log",
				zap.String("category", string(c)),
				zap.String("path", dst),
				zap.Int64("bytes", size))
			return nil
		})
		if err != nil {
			errs = multierr.Append(errs, &perrors.LogError{
				Category: string(c),
				Path:     dst,
				Err:      fmt.Errorf("%w: %v", perrors.ErrArchiveFailed, err),
			})
		}
	}
	return result, errs
}

// snapshot copies src to a new file dst, preserving the modification time.
// An existing dst is never overwritten.
func snapshot(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, fs.ErrExist) {
		return 0, fmt.Errorf("%w: %s", perrors.ErrArchiveExists, dst)
	}
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, err
	}

	os.Chtimes(dst, info.ModTime(), info.ModTime())
	return n, nil
}

// Prune deletes archive entries that are both smaller than thresholdBytes
// and at least DeletionAgeDays old. Files whose names do not parse are
// reported in Skipped and never deleted.
func (a *Archiver) Prune(thresholdBytes int64) (*PruneResult, error) {
	result := &PruneResult{}

	entries, err := os.ReadDir(a.dir)
	if errors.Is(err, fs.ErrNotExist) {
		a.logger.Debug("archive directory does not exist", zap.String("dir", a.dir))
		return result, nil
	}
	if err != nil {
		return result, &perrors.LogError{Path: a.dir, Err: err}
	}

	now := a.now()
	var errs error
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".log") {
			continue
		}

		_, created, err := ParseEntryName(name)
		if err != nil {
			result.Skipped = append(result.Skipped, name)
			a.logger.Debug("skipping unrecognized archive file", zap.String("name", name))
			continue
		}

		info, err := entry.Info()
		if err != nil {
			errs = multierr.Append(errs, &perrors.LogError{Path: name, Err: err})
			continue
		}

		ageDays := now.Sub(created).Hours() / 24
		if info.Size() >= thresholdBytes || ageDays < float64(a.deletionAgeDays) {
			result.Kept++
			continue
		}

		path := filepath.Join(a.dir, name)
		if err := os.Remove(path); err != nil {
			errs = multierr.Append(errs, &perrors.LogError{Path: path, Err: err})
			continue
		}
		result.Deleted = append(result.Deleted, PrunedEntry{
			Name:    name,
			Size:    info.Size(),
			AgeDays: ageDays,
		})
		a.logger.Info("deleted archive entry",
			zap.String("name", name),
			zap.Int64("bytes", info.Size()),
			zap.Float64("age_days", ageDays))
	}

	if len(result.Deleted) == 0 {
		a.logger.Debug("no archive entries matched deletion criteria")
	}
	return result, errs
}
