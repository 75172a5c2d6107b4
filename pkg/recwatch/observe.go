package recwatch

import (
	"log/slog"
	"sync"

	"github.com/hupe1980/recwatch/internal/maputil"
)

// Record is a flat mapping from field name to a scalar value (string, number
// or bool). Nested maps and slices are copied but not tracked.
type Record map[string]any

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	return maputil.Clone(r)
}

// state is shared by a View and its Controls.
type state struct {
	mu   sync.Mutex
	opts options

	working   Record
	committed Record

	// dirty holds one flag per field of the initial record. Its key set is
	// fixed at construction.
	dirty map[string]bool

	revoked bool
	final   Record
}

// View is the live working copy of an observed record. Every access checks
// the revocation guard first. A View is safe for concurrent use.
type View struct {
	s *state
}

// Controls query and drive the lifecycle of an observed record.
type Controls struct {
	s *state
}

// Observe starts tracking initial. The returned View and the baseline are two
// independent copies of initial; later changes to initial are not seen.
// A nil initial record is treated as empty.
func Observe(initial Record, opts ...Option) (*View, *Controls) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if initial == nil {
		initial = Record{}
	}

	dirty := make(map[string]bool, len(initial))
	for k := range initial {
		dirty[k] = false
	}

	s := &state{
		opts:      o,
		working:   initial.Clone(),
		committed: initial.Clone(),
		dirty:     dirty,
	}

	return &View{s: s}, &Controls{s: s}
}

// Get returns the current value of key, or nil if the field does not exist.
func (v *View) Get(key string) (any, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if v.s.revoked {
		return nil, &RevokedAccessError{Op: OpGet}
	}

	return v.s.working[key], nil
}

// Set stores value under key. For fields of the initial record the dirty
// flag is recomputed against the committed value on every write, so writing
// the committed value back clears it. Fields added after Observe are stored
// but never tracked.
func (v *View) Set(key string, value any) error {
	s := v.s

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revoked {
		return &RevokedAccessError{Op: OpSet}
	}

	if was, tracked := s.dirty[key]; tracked {
		now := !s.opts.equal(s.committed[key], value)
		s.dirty[key] = now

		if now != was {
			s.opts.logger.Debug("field dirty state changed",
				slog.String("field", key),
				slog.Bool("dirty", now),
			)
		}
	} else {
		s.opts.logger.Debug("write to untracked field", slog.String("field", key))
	}

	s.working[key] = value

	return nil
}

// Snapshot returns an independent copy of the working record.
func (v *View) Snapshot() (Record, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if v.s.revoked {
		return nil, &RevokedAccessError{Op: OpGet}
	}

	return v.s.working.Clone(), nil
}

// Len returns the number of fields in the working record.
func (v *View) Len() (int, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if v.s.revoked {
		return 0, &RevokedAccessError{Op: OpGet}
	}

	return len(v.s.working), nil
}

// IsDirty reports whether any tracked field differs from its committed
// value. After Revoke it reports the flags as they were at revocation.
func (c *Controls) IsDirty() bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for _, d := range c.s.dirty {
		if d {
			return true
		}
	}

	return false
}

// Commit makes a copy of the whole working record the new baseline and
// clears every dirty flag. The set of tracked fields does not change.
func (c *Controls) Commit() error {
	s := c.s

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revoked {
		return &RevokedAccessError{Op: OpCommit}
	}

	s.committed = s.working.Clone()
	for k := range s.dirty {
		s.dirty[k] = false
	}

	s.opts.logger.Debug("record committed", slog.Int("fields", len(s.committed)))

	return nil
}

// Revoke captures a copy of the working record, permanently disables the
// View and returns the copy. Calling Revoke again returns a fresh copy of the
// same final snapshot.
func (c *Controls) Revoke() Record {
	s := c.s

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.revoked {
		s.final = s.working.Clone()
		s.revoked = true
		s.working = nil
		s.committed = nil

		s.opts.logger.Debug("record revoked", slog.Int("fields", len(s.final)))
	}

	return s.final.Clone()
}

// Revoked reports whether Revoke has been called.
func (c *Controls) Revoked() bool {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	return c.s.revoked
}
