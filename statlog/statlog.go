// Package statlog persists evaluation statistics across a training run.
//
// The log is append-only and rewrites the entire record sequence on every
// append, first to the primary path and then to a backup path fixed at log
// creation time. A crash during the primary write leaves the backup's last
// successful write intact. Single-writer discipline: the log is not safe
// for concurrent appends.
package statlog

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	sed "github.com/jamesainslie/go-sed"
)

// Log is a durable ordered sequence of evaluation statistics keyed by
// training iteration. Append order is call order, not iteration order.
type Log struct {
	path       string
	backupPath string
	records    []sed.Statistics
	logger     *slog.Logger
}

// Option configures a Log.
type Option func(*Log)

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(lg *Log) {
		if l != nil {
			lg.logger = l
		}
	}
}

// New creates a statistics log writing to path. The backup path derives
// from the primary path and the creation timestamp and stays fixed for the
// lifetime of the log.
func New(path string, opts ...Option) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("statlog: creating directory: %w", err)
	}

	l := &Log{
		path:       path,
		backupPath: backupPath(path, time.Now()),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// backupPath is <primary-stem>_<timestamp><ext>.
func backupPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%s%s", stem, t.Format("2006-01-02_15-04-05"), ext)
}

// AppendAndDump stamps the record with iteration, appends it and persists
// the whole sequence to the primary and backup paths.
func (l *Log) AppendAndDump(iteration int, s sed.Statistics) error {
	s.Iteration = iteration
	l.records = append(l.records, s)

	if err := dump(l.path, l.records); err != nil {
		// Drop the appended record so a retry does not duplicate it.
		l.records = l.records[:len(l.records)-1]
		return err
	}
	if err := dump(l.backupPath, l.records); err != nil {
		return err
	}

	l.logger.Info("dumped statistics", "path", l.path, "records", len(l.records))
	return nil
}

func dump(path string, records []sed.Statistics) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("statlog: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("statlog: encoding %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("statlog: syncing %s: %w", path, err)
	}
	return f.Close()
}

// Load reads a persisted statistics sequence.
func Load(path string) ([]sed.Statistics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []sed.Statistics
	if err := gob.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("statlog: decoding %s: %w", path, err)
	}
	return records, nil
}

// Records returns a copy of the in-memory sequence.
func (l *Log) Records() []sed.Statistics {
	return append([]sed.Statistics(nil), l.records...)
}

// Path returns the primary path.
func (l *Log) Path() string { return l.path }

// BackupPath returns the backup path fixed at creation.
func (l *Log) BackupPath() string { return l.backupPath }
