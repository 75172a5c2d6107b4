// Package cli implements the cobra command tree for recwatch.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/recwatch/internal/config"
	"github.com/hupe1980/recwatch/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error:", exitErr.Err)
			}

			return exitErr.Code
		}

		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "recwatch",
		Short: "Track changes to flat key-value records",
		Long: `recwatch loads a flat key-value record (YAML or JSON), tracks which
fields diverge from the last committed baseline, and reports whether
the record is dirty.

Use "edit" to apply assignments to a record in one shot, or "watch"
to follow a record file while it is being edited.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("format", cfg.Format),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .recwatch.yaml)")
	pf.String("log-level", config.LogLevelInfo, "log level: debug, info, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.Bool("no-color", false, "disable colored diff output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("format", "yaml", "record output format: yaml, json")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newEditCommand(),
		newWatchCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}
