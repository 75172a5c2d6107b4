package diff

import (
	"github.com/hupe1980/recwatch/internal/recordfile"
	"github.com/hupe1980/recwatch/pkg/recwatch"
)

// Records serializes both records in the given format and diffs them.
func Records(oldRec, newRec recwatch.Record, format string, opts Options) (*Result, error) {
	oldDoc, err := recordfile.Marshal(oldRec, format)
	if err != nil {
		return nil, err
	}

	newDoc, err := recordfile.Marshal(newRec, format)
	if err != nil {
		return nil, err
	}

	return Compute(string(oldDoc), string(newDoc), opts)
}
