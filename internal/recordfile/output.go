package recordfile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/recwatch/pkg/recwatch"
)

// Output serializes records in one format and sends them to a stream or,
// with ToFile, to a file on disk.
type Output struct {
	format string
	out    io.Writer
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// OutputOption configures an Output.
type OutputOption func(*Output)

// ToFile sends records to path instead of the stream. The file is replaced
// atomically and parent directories are created as needed.
func ToFile(path string) OutputOption {
	return func(o *Output) {
		o.path = path
	}
}

// WithPermissions sets the mode of newly created files (default 0644).
// An existing file keeps its mode.
func WithPermissions(perm os.FileMode) OutputOption {
	return func(o *Output) {
		o.perm = perm
	}
}

// WithLogger sets a logger for the Output.
func WithLogger(logger *slog.Logger) OutputOption {
	return func(o *Output) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOutput returns an Output writing format-encoded records to w.
// If w is nil, os.Stdout is used.
func NewOutput(w io.Writer, format string, opts ...OutputOption) *Output {
	if w == nil {
		w = os.Stdout
	}

	o := &Output{
		format: format,
		out:    w,
		perm:   0o644,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Path returns the destination file, or "" when writing to the stream.
func (o *Output) Path() string {
	return o.path
}

// Write serializes rec and emits it. Nothing is written when rec cannot be
// serialized.
func (o *Output) Write(rec recwatch.Record) error {
	data, err := Marshal(rec, o.format)
	if err != nil {
		return err
	}

	if o.path == "" {
		if _, err := o.out.Write(data); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}

		return nil
	}

	if err := o.replaceFile(data); err != nil {
		return err
	}

	o.logger.Debug("record written",
		slog.String("path", o.path),
		slog.String("format", o.format),
		slog.Int("fields", len(rec)),
	)

	return nil
}

// replaceFile writes data to a temp file next to the target and renames it
// into place, so readers never see a half-written record.
func (o *Output) replaceFile(data []byte) error {
	dir := filepath.Dir(o.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	perm := o.perm
	if info, err := os.Stat(o.path); err == nil {
		perm = info.Mode().Perm()
		o.logger.Debug("replacing existing record file", slog.String("path", o.path))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(o.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}

	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing file %s: %w", o.path, err)
	}

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode of %s: %w", o.path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing file %s: %w", o.path, err)
	}

	if err := os.Rename(tmpName, o.path); err != nil {
		return fmt.Errorf("replacing file %s: %w", o.path, err)
	}

	return nil
}
