// Package recwatch tracks changes made to a flat key-value record.
//
// [Observe] takes an initial record and returns a live [View] over a working
// copy of it, plus [Controls] that report whether any field diverged from the
// last committed baseline, accept the current values as the new baseline, or
// permanently revoke the view.
//
// Basic usage:
//
//	view, ctl := recwatch.Observe(recwatch.Record{"a": 1, "b": 2})
//
//	_ = view.Set("a", 2)
//	ctl.IsDirty() // true
//
//	_ = view.Set("a", 1)
//	ctl.IsDirty() // false: a is back at its committed value
//
//	_ = view.Set("a", 2)
//	_ = ctl.Commit()
//	ctl.IsDirty() // false
//
//	final := ctl.Revoke() // {"a": 2, "b": 2}
//	err := view.Set("a", 1)
//	// err: Cannot perform 'set' on a proxy that has been revoked
//
// Only the fields present in the initial record are tracked. Fields written
// later are stored and show up in snapshots, but never make the record dirty.
package recwatch
