package bytecode

import (
	"errors"
	"fmt"
)

// UnsupportedConstructError reports a syntax tree node kind the lowering
// engine has no rule for yet. It is a capability gap, not a logic bug: no
// instructions were emitted for the node, and callers may report the
// function as not yet compilable instead of failing hard.
type UnsupportedConstructError struct {
	Construct string
}

// Error implements the error interface.
func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("bytecode: unsupported construct: %s", e.Construct)
}

func unsupported(construct string) error {
	return &UnsupportedConstructError{Construct: construct}
}

// IsUnsupportedConstruct reports whether err is (or wraps) an
// UnsupportedConstructError.
func IsUnsupportedConstruct(err error) bool {
	var target *UnsupportedConstructError
	return errors.As(err, &target)
}
