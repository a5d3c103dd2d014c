package simplex

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure of the engine.
type Kind int

const (
	// DataError: malformed input. Nothing was modified.
	DataError Kind = iota + 1
	// StateError: the operation needs a successful Solve first. Nothing
	// was modified.
	StateError
	// InfeasibleSolve: phase 1 could not drive the artificial objective to
	// zero, the constraints contradict each other.
	InfeasibleSolve
	// IncompatibleSolve: a rhs change or an added constraint made the
	// system infeasible.
	IncompatibleSolve
	UnboundedMaximize
	UnboundedMinimize
	// DifficultSolve: an artificial variable could not be purged from the
	// basis after phase 1. This does not prove infeasibility.
	DifficultSolve
)

func (k Kind) String() string {
	switch k {
	case DataError:
		return "data error"
	case StateError:
		return "state error"
	case InfeasibleSolve:
		return "infeasible"
	case IncompatibleSolve:
		return "incompatible"
	case UnboundedMaximize:
		return "unbounded maximize"
	case UnboundedMinimize:
		return "unbounded minimize"
	case DifficultSolve:
		return "difficult"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Safe reports whether a failure of this kind leaves the tableau usable.
func (k Kind) Safe() bool {
	return k == DataError || k == StateError
}

// Error is the failure returned by every Tableau operation.
type Error struct {
	Kind Kind
	Msg  string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	s := "simplex: " + e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrData              = &Error{Kind: DataError}
	ErrState             = &Error{Kind: StateError}
	ErrInfeasible        = &Error{Kind: InfeasibleSolve}
	ErrIncompatible      = &Error{Kind: IncompatibleSolve}
	ErrUnboundedMaximize = &Error{Kind: UnboundedMaximize}
	ErrUnboundedMinimize = &Error{Kind: UnboundedMinimize}
	ErrDifficult         = &Error{Kind: DifficultSolve}
)

func newError(k Kind, format string, args ...any) error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func dataError(err error) error {
	return &Error{Kind: DataError, Err: err}
}

// KindOf returns the kind of err, or 0 when err does not come from this
// package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

var errNotSolved = &Error{Kind: StateError, Msg: "the system hasn't been solved yet"}
