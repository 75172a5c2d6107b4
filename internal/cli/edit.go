package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/recwatch/internal/config"
	"github.com/hupe1980/recwatch/internal/diff"
	"github.com/hupe1980/recwatch/internal/logging"
	"github.com/hupe1980/recwatch/internal/recordfile"
	"github.com/hupe1980/recwatch/pkg/recwatch"
)

type editOptions struct {
	sets     []string
	commit   bool
	showDiff bool
	exitCode bool
	output   string
}

type assignment struct {
	key   string
	value any
}

func newEditCommand() *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit <record-file>",
		Short: "Apply assignments to a record and report whether it changed",
		Long: `Edit loads a flat record from a YAML or JSON file, applies every
--set assignment in order, and reports on stderr whether the record
is dirty, i.e. whether any of its original fields now differs from
the loaded value. Setting a field back to its original value makes
it clean again.

The resulting record is written to stdout, or to --output. The input
file is never modified unless --output points at it.

Values are parsed like YAML scalars: 2 is a number, true is a boolean,
null is null, and "2" is the string 2.`,
		Example: `  recwatch edit config.yaml --set replicas=3 --diff
  recwatch edit config.yaml --set debug=false --exit-code && echo unchanged`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.sets, "set", "s", nil, "assignment key=value (repeatable)")
	f.BoolVar(&opts.commit, "commit", false, "commit after applying assignments")
	f.BoolVar(&opts.showDiff, "diff", false, "print a unified diff of loaded vs resulting record to stderr")
	f.BoolVar(&opts.exitCode, "exit-code", false, "exit with status 1 when the record ends up dirty")
	f.StringVarP(&opts.output, "output", "o", "", "write the resulting record to this file instead of stdout")

	return cmd
}

func runEdit(ctx context.Context, cmd *cobra.Command, path string, opts *editOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.ForRecord(logging.FromContext(ctx), path)

	assignments, err := parseAssignments(opts.sets)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	loaded, err := recordfile.Load(path)
	if err != nil {
		return err
	}

	view, ctl := recwatch.Observe(loaded, recwatch.WithLogger(logger))

	for _, a := range assignments {
		if err := view.Set(a.key, a.value); err != nil {
			return fmt.Errorf("setting %q: %w", a.key, err)
		}
	}

	if opts.commit {
		if err := ctl.Commit(); err != nil {
			return fmt.Errorf("committing record: %w", err)
		}
	}

	dirty := ctl.IsDirty()
	final := ctl.Revoke()

	logger.Debug("edit applied",
		slog.Int("assignments", len(assignments)),
		slog.Bool("dirty", dirty),
		slog.Bool("committed", opts.commit),
	)

	errOut := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(errOut, "dirty: %t\n", dirty)

	if opts.showDiff {
		diffOpts := diff.DefaultOptions()
		diffOpts.OldLabel = path
		diffOpts.NewLabel = "result"

		result, diffErr := diff.Records(loaded, final, cfg.Format, diffOpts)
		if diffErr != nil {
			return diffErr
		}

		diff.Write(errOut, result, !cfg.NoColor)
	}

	outOpts := []recordfile.OutputOption{recordfile.WithLogger(logger)}
	if opts.output != "" {
		outOpts = append(outOpts, recordfile.ToFile(opts.output))
	}

	if err := recordfile.NewOutput(cmd.OutOrStdout(), cfg.Format, outOpts...).Write(final); err != nil {
		return err
	}

	if opts.exitCode && dirty {
		return &ExitError{Code: 1}
	}

	return nil
}

// parseAssignments parses all pairs before any of them is applied.
func parseAssignments(sets []string) ([]assignment, error) {
	out := make([]assignment, 0, len(sets))

	for _, s := range sets {
		key, value, err := recordfile.ParseAssignment(s)
		if err != nil {
			return nil, err
		}

		out = append(out, assignment{key: key, value: value})
	}

	return out, nil
}
