package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/recwatch/internal/config"
	"github.com/hupe1980/recwatch/internal/diff"
	"github.com/hupe1980/recwatch/internal/logging"
	"github.com/hupe1980/recwatch/internal/maputil"
	"github.com/hupe1980/recwatch/internal/recordfile"
	"github.com/hupe1980/recwatch/internal/watch"
	"github.com/hupe1980/recwatch/pkg/recwatch"
)

type watchOptions struct {
	commitOnChange bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <record-file>",
		Short: "Follow a record file and report when it diverges",
		Long: `Watch loads a record file as the committed baseline and then follows
it on disk. Each time edits settle, the file is reloaded, every field
is written into the tracked record, and the dirty state is reported
together with a diff against the baseline.

With --commit-on-change the new content becomes the baseline after
each report. Fields deleted from the file are kept in the tracked
record and reported.

Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.Duration("debounce", config.DefaultDebounce, "quiet period before reloading after a change")
	f.BoolVar(&opts.commitOnChange, "commit-on-change", false, "commit after every reported change")

	return cmd
}

// recordSession ties one observed record to the reports printed for it.
type recordSession struct {
	view     *recwatch.View
	ctl      *recwatch.Controls
	out      io.Writer
	format   string
	color    bool
	commit   bool
	logger   *slog.Logger
	baseline recwatch.Record
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.ForRecord(logging.FromContext(ctx), path)

	loaded, err := recordfile.Load(path)
	if err != nil {
		return err
	}

	view, ctl := recwatch.Observe(loaded, recwatch.WithLogger(logger))

	s := &recordSession{
		view:     view,
		ctl:      ctl,
		out:      cmd.OutOrStdout(),
		format:   cfg.Format,
		color:    !cfg.NoColor,
		commit:   opts.commitOnChange,
		logger:   logger,
		baseline: loaded,
	}

	watchOpts := watch.Options{
		File:     path,
		Debounce: cfg.Debounce,
		Logger:   logger,
	}

	runErr := watch.Run(ctx, watchOpts, s.reload)

	final := ctl.Revoke()
	logger.Info("record released",
		slog.Int("fields", len(final)),
		slog.Bool("dirty", ctl.IsDirty()),
	)

	return runErr
}

// reload applies the current file content to the tracked record and prints
// a report. The debouncer never runs two reloads at once.
func (s *recordSession) reload(_ context.Context, path string) error {
	next, err := recordfile.Load(path)
	if err != nil {
		return err
	}

	for _, key := range maputil.SortedKeys(next) {
		if err := s.view.Set(key, next[key]); err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}
	}

	current, err := s.view.Snapshot()
	if err != nil {
		return err
	}

	for _, key := range maputil.SortedKeys(current) {
		if _, ok := next[key]; !ok {
			s.logger.Warn("field removed from file, keeping last value", slog.String("field", key))
		}
	}

	dirty := s.ctl.IsDirty()
	_, _ = fmt.Fprintf(s.out, "[%s] dirty: %t\n", time.Now().Format("15:04:05"), dirty)

	result, err := diff.Records(s.baseline, current, s.format, diff.DefaultOptions())
	if err != nil {
		return err
	}

	if result.HasDifferences {
		diff.Write(s.out, result, s.color)
	}

	if s.commit && result.HasDifferences {
		if err := s.ctl.Commit(); err != nil {
			return err
		}

		s.baseline = current
		_, _ = fmt.Fprintln(s.out, "committed")
	}

	return nil
}
