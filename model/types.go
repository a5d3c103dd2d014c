package model

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Direction is the objective function type.
type Direction int

const (
	Min Direction = iota
	Max
)

func (d Direction) valid() bool { return d == Min || d == Max }

func (d Direction) String() string {
	switch d {
	case Min:
		return "min"
	case Max:
		return "max"
	}
	return "unknown"
}

// ParseDirection accepts "min" or "max" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "min":
		return Min, nil
	case "max":
		return Max, nil
	}
	return 0, errors.Wrapf(ErrInvalid, "unknown direction %q", s)
}

// Inequality is the sign of a constraint. Strict signs are solved as their
// non-strict counterparts.
type Inequality int

const (
	Equal Inequality = iota
	LessOrEqual
	Less
	GreaterOrEqual
	Greater
)

var symbols = [...]string{
	Equal:          "=",
	LessOrEqual:    "<=",
	Less:           "<",
	GreaterOrEqual: ">=",
	Greater:        ">",
}

var inversions = [...]Inequality{
	Equal:          Equal,
	LessOrEqual:    GreaterOrEqual,
	Less:           Greater,
	GreaterOrEqual: LessOrEqual,
	Greater:        Less,
}

// Valid reports whether s is one of the declared signs.
func (s Inequality) Valid() bool { return s >= Equal && s <= Greater }

// Invert returns the sign of the constraint after both sides are
// multiplied by -1.
func (s Inequality) Invert() Inequality {
	if !s.Valid() {
		return s
	}
	return inversions[s]
}

// Holds reports whether lhs (s) rhs is true within eps.
func (s Inequality) Holds(lhs, rhs, eps float64) bool {
	switch s {
	case Equal:
		return math.Abs(lhs-rhs) < eps
	case LessOrEqual, Less:
		return lhs < rhs+eps
	case GreaterOrEqual, Greater:
		return lhs > rhs-eps
	}
	return false
}

func (s Inequality) String() string {
	if !s.Valid() {
		return "?"
	}
	return symbols[s]
}

// ParseInequality accepts the symbols printed by String, plus "==", "≤"
// and "≥".
func ParseInequality(str string) (Inequality, error) {
	switch strings.TrimSpace(str) {
	case "=", "==":
		return Equal, nil
	case "<=", "≤":
		return LessOrEqual, nil
	case "<":
		return Less, nil
	case ">=", "≥":
		return GreaterOrEqual, nil
	case ">":
		return Greater, nil
	}
	return 0, errors.Wrapf(ErrInvalid, "unknown inequality %q", str)
}

// Answer is a solution vector in the user's variables and the objective
// value it attains.
type Answer struct {
	X         []float64
	Objective float64
}

// Equal reports whether both answers agree within eps.
func (a Answer) Equal(b Answer, eps float64) bool {
	if len(a.X) != len(b.X) || math.Abs(a.Objective-b.Objective) >= eps {
		return false
	}
	for i := range a.X {
		if math.Abs(a.X[i]-b.X[i]) >= eps {
			return false
		}
	}
	return true
}
