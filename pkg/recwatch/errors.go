package recwatch

import (
	"errors"
	"fmt"
)

// Operation names reported by RevokedAccessError.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpCommit = "commit"
)

// ErrRevoked matches every *RevokedAccessError via errors.Is.
var ErrRevoked = errors.New("recwatch: view has been revoked")

// RevokedAccessError is returned when a view is used after Revoke.
type RevokedAccessError struct {
	// Op is the attempted operation: get, set or commit.
	Op string
}

func (e *RevokedAccessError) Error() string {
	return fmt.Sprintf("Cannot perform '%s' on a proxy that has been revoked", e.Op)
}

// Is reports whether target is ErrRevoked.
func (e *RevokedAccessError) Is(target error) bool { return target == ErrRevoked }
