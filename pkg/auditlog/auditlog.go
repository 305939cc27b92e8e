// Package auditlog writes the append-only probe trail of a search: one JSON
// line per probe plus a final summary line. Every line is flushed to disk as
// it is written, so a killed process leaves a resumable record of everything
// it probed. Logs from previous runs are compressed on startup.
package auditlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/gitseek/pkg/bisect"
	"github.com/Sumatoshi-tech/gitseek/pkg/history"
)

// UnknownTime is recorded when a commit's timestamp cannot be resolved.
const UnknownTime = "unknown time"

const logTimeFormat = "20060102-150405"

// Log is an open audit trail.
type Log struct {
	file   *os.File
	logger *slog.Logger
	path   string
}

// Open rotates previous logs in dir and starts a fresh trail.
func Open(dir string) (*Log, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	err = compressPrevious(dir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, fmt.Sprintf("gitseek-%s.log", time.Now().Format(logTimeFormat)))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create audit log: %w", err)
	}

	return &Log{
		file:   file,
		logger: slog.New(slog.NewJSONHandler(file, nil)),
		path:   path,
	}, nil
}

// Path returns the location of the live log file.
func (l *Log) Path() string {
	return l.path
}

// Probe appends one probe line and flushes it.
func (l *Log) Probe(hash, timestamp string, found bool, probeErr error) {
	attrs := []any{
		slog.String("commit", hash),
		slog.String("timestamp", timestamp),
		slog.Bool("found", found),
	}

	if probeErr != nil {
		attrs = append(attrs, slog.String("error", probeErr.Error()))
	}

	l.logger.Info("probe", attrs...)
	l.flush()
}

// Summary appends the final result line and flushes it.
func (l *Log) Summary(text string) {
	l.logger.Info("summary", slog.String("result", text))
	l.flush()
}

// Close closes the underlying file.
func (l *Log) Close() error {
	err := l.file.Close()
	if err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}

	return nil
}

func (l *Log) flush() {
	// Sync failures leave the line in the OS buffer; nothing actionable.
	_ = l.file.Sync()
}

// Recorder adapts engine probe events to the audit trail, resolving each
// commit's timestamp best-effort through the history reader.
func Recorder(log *Log, reader history.Reader) bisect.EventSink {
	return func(event bisect.ProbeEvent) {
		timestamp, err := reader.Timestamp(context.Background(), event.Commit.Hash)
		if err != nil {
			timestamp = UnknownTime
		}

		log.Probe(event.Commit.Hash, timestamp, event.Found, event.Err)
	}
}

// compressPrevious lz4-compresses every plain log left over from earlier
// runs and removes the originals.
func compressPrevious(dir string) error {
	previous, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return fmt.Errorf("scan log directory: %w", err)
	}

	for _, path := range previous {
		compressErr := compressFile(path)
		if compressErr != nil {
			return compressErr
		}
	}

	return nil
}

func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := os.Create(path + ".lz4")
	if err != nil {
		return fmt.Errorf("create %s.lz4: %w", path, err)
	}

	writer := lz4.NewWriter(dst)

	_, err = io.Copy(writer, src)
	if err == nil {
		err = writer.Close()
	}

	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}

	err = os.Remove(path)
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	return nil
}
