// Package diff renders unified diffs between two serialized records.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Result holds the outcome of a unified diff computation.
type Result struct {
	Unified        string
	HasDifferences bool
	Hunks          []string
	OldLabel       string
	NewLabel       string
}

// Options configures diff computation.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultOptions compares the committed baseline against the working copy
// with three lines of context.
func DefaultOptions() Options {
	return Options{
		OldLabel: "committed",
		NewLabel: "working",
		Context:  3,
	}
}

// Compute computes a unified diff between two documents.
func Compute(oldDoc, newDoc string, opts Options) (*Result, error) {
	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldDoc),
		B:        splitLines(newDoc),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	res := &Result{
		Unified:        unified,
		HasDifferences: unified != "",
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
	}

	if res.HasDifferences {
		res.Hunks = extractHunks(unified)
	}

	return res, nil
}

// extractHunks splits unified diff output at each "@@" header. The file
// header lines are not part of any hunk.
func extractHunks(unified string) []string {
	var (
		hunks   []string
		current strings.Builder
		inHunk  bool
	)

	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		if strings.HasPrefix(line, "@@") {
			if inHunk {
				hunks = append(hunks, current.String())
				current.Reset()
			}

			inHunk = true
		}

		if !inHunk {
			continue
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	if inHunk {
		hunks = append(hunks, current.String())
	}

	return hunks
}

// Write prints result to w, with ANSI colors when color is true.
func Write(w io.Writer, result *Result, color bool) {
	if !result.HasDifferences {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(result.Unified, "\n"), "\n") {
		if color {
			writeColorLine(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

func writeColorLine(w io.Writer, line string) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	var prefix string

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		prefix = bold
	case strings.HasPrefix(line, "@@"):
		prefix = cyan
	case strings.HasPrefix(line, "-"):
		prefix = red
	case strings.HasPrefix(line, "+"):
		prefix = green
	default:
		_, _ = fmt.Fprintln(w, line)
		return
	}

	_, _ = fmt.Fprintf(w, "%s%s%s\n", prefix, line, reset)
}

// splitLines keeps the trailing newline on each line, as difflib expects.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}

	return strings.SplitAfter(s, "\n")
}
