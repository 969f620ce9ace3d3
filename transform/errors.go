package transform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownExtendTarget is matched by every UnknownExtendError.
var ErrUnknownExtendTarget = errors.New("unknown extend target")

// UnknownExtendError is returned when extend directive refers to selector
// which was not declared before it in document order. It is terminal, the
// whole resolution is abandoned.
type UnknownExtendError struct {
	Selector string   // extend target
	Rule     []string // selectors of the rule carrying the directive
}

func (e *UnknownExtendError) Error() string {
	return fmt.Sprintf("cannot extend %q in rule [%s]: %v", e.Selector, strings.Join(e.Rule, ", "), ErrUnknownExtendTarget)
}

func (e *UnknownExtendError) Unwrap() error { return ErrUnknownExtendTarget }
