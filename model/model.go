package model

import (
	"fmt"
	"math"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalid is the cause of every validation error returned by this package.
var ErrInvalid = errors.New("invalid problem")

// Problem describes a linear program
//
//	min (or max) C·x
//	s.t.         A_i·x (=, <=, <, >=, >) B_i   for every row i
//	             x_j >= 0                      for every sign-constrained column j
//
// A Problem is immutable: NewProblem copies its inputs and accessors return
// copies.
type Problem struct {
	//a constraints matrix, one row per constraint
	a [][]float64

	//b constraints rhs
	b []float64

	//c objective function coefficients
	c []float64

	direction    Direction
	inequalities []Inequality

	//signConstrained[j] is true when x_j >= 0 is required
	signConstrained []bool

	//outOfRange collects WithFree columns that name no variable
	outOfRange []int
}

// Option customizes the optional parts of a Problem.
type Option func(*Problem)

// WithDirection sets the objective direction. The default is Min.
func WithDirection(d Direction) Option {
	return func(p *Problem) { p.direction = d }
}

// WithInequalities sets the sign of every constraint. The default is Equal
// for all rows.
func WithInequalities(signs ...Inequality) Option {
	return func(p *Problem) { p.inequalities = slices.Clone(signs) }
}

// WithSignConstraints sets, per column, whether the variable must be
// non-negative. The default is true for all columns.
func WithSignConstraints(constrained ...bool) Option {
	return func(p *Problem) { p.signConstrained = slices.Clone(constrained) }
}

// WithFree marks the given columns as unconstrained in sign.
func WithFree(columns ...int) Option {
	return func(p *Problem) {
		if p.signConstrained == nil {
			p.signConstrained = make([]bool, len(p.c))
			for j := range p.signConstrained {
				p.signConstrained[j] = true
			}
		}
		for _, j := range columns {
			if j < 0 || j >= len(p.signConstrained) {
				p.outOfRange = append(p.outOfRange, j)
				continue
			}
			p.signConstrained[j] = false
		}
	}
}

// NewProblem validates the inputs and returns a Problem holding copies of
// them. Unset optional fields get their defaults.
func NewProblem(a [][]float64, b, c []float64, opts ...Option) (Problem, error) {
	if len(a) == 0 {
		return Problem{}, errors.Wrap(ErrInvalid, "empty constraints matrix")
	}
	if len(b) == 0 {
		return Problem{}, errors.Wrap(ErrInvalid, "empty constraints rhs")
	}
	if len(c) == 0 {
		return Problem{}, errors.Wrap(ErrInvalid, "empty objective function")
	}
	if len(a) != len(b) {
		return Problem{}, errors.Wrapf(ErrInvalid, "mismatch number of constraints: A has %d rows, B has %d", len(a), len(b))
	}

	p := Problem{
		a: make([][]float64, len(a)),
		b: slices.Clone(b),
		c: slices.Clone(c),
	}
	for i, row := range a {
		if len(row) != len(c) {
			return Problem{}, errors.Wrapf(ErrInvalid, "mismatch number of variables: row %d has %d coefficients, C has %d", i, len(row), len(c))
		}
		p.a[i] = slices.Clone(row)
	}

	for _, opt := range opts {
		opt(&p)
	}
	if p.inequalities == nil {
		p.inequalities = make([]Inequality, len(b))
	}
	if p.signConstrained == nil {
		p.signConstrained = make([]bool, len(c))
		for j := range p.signConstrained {
			p.signConstrained[j] = true
		}
	}

	if err := p.validate(); err != nil {
		return Problem{}, err
	}
	return p, nil
}

func (p Problem) validate() error {
	if len(p.outOfRange) > 0 {
		return errors.Wrapf(ErrInvalid, "column %d out of range", p.outOfRange[0])
	}
	if len(p.inequalities) != len(p.b) {
		return errors.Wrapf(ErrInvalid, "mismatch number of constraints: %d inequalities for %d rows", len(p.inequalities), len(p.b))
	}
	if len(p.signConstrained) != len(p.c) {
		return errors.Wrapf(ErrInvalid, "mismatch number of variables: %d sign constraints for %d columns", len(p.signConstrained), len(p.c))
	}
	if !p.direction.valid() {
		return errors.Wrapf(ErrInvalid, "unknown direction %d", int(p.direction))
	}
	for i, s := range p.inequalities {
		if !s.Valid() {
			return errors.Wrapf(ErrInvalid, "unknown inequality %d in row %d", int(s), i)
		}
	}
	if !finite(p.b) || !finite(p.c) {
		return errors.Wrap(ErrInvalid, "non-finite coefficient")
	}
	for _, row := range p.a {
		if !finite(row) {
			return errors.Wrap(ErrInvalid, "non-finite coefficient")
		}
	}
	return nil
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// NumRows returns the number of constraints.
func (p Problem) NumRows() int { return len(p.b) }

// NumCols returns the number of decision variables.
func (p Problem) NumCols() int { return len(p.c) }

// Direction returns the objective direction.
func (p Problem) Direction() Direction { return p.direction }

// Row returns a copy of the coefficients of constraint i.
func (p Problem) Row(i int) []float64 { return slices.Clone(p.a[i]) }

// RHS returns a copy of the constraints rhs.
func (p Problem) RHS() []float64 { return slices.Clone(p.b) }

// Objective returns a copy of the objective function coefficients.
func (p Problem) Objective() []float64 { return slices.Clone(p.c) }

// Inequalities returns a copy of the constraint signs.
func (p Problem) Inequalities() []Inequality { return slices.Clone(p.inequalities) }

// SignConstraints returns a copy of the per-column non-negativity flags.
func (p Problem) SignConstraints() []bool { return slices.Clone(p.signConstrained) }

// Value evaluates the objective function at x.
func (p Problem) Value(x []float64) float64 {
	return floats.Dot(p.c, x)
}

// Satisfied reports whether x meets every constraint and sign constraint
// within eps.
func (p Problem) Satisfied(x []float64, eps float64) bool {
	if len(x) != len(p.c) {
		return false
	}
	for j, v := range x {
		if p.signConstrained[j] && v < -eps {
			return false
		}
	}
	for i, row := range p.a {
		if !p.inequalities[i].Holds(floats.Dot(row, x), p.b[i], eps) {
			return false
		}
	}
	return true
}

// WithRHS returns a copy of p with the constraints rhs replaced.
func (p Problem) WithRHS(b []float64) (Problem, error) {
	if len(b) != len(p.b) {
		return Problem{}, errors.Wrapf(ErrInvalid, "mismatch number of constraints: new rhs has %d values, want %d", len(b), len(p.b))
	}
	if !finite(b) {
		return Problem{}, errors.Wrap(ErrInvalid, "non-finite coefficient")
	}
	q := p.clone()
	q.b = slices.Clone(b)
	return q, nil
}

// WithConstraint returns a copy of p with the constraint ai·x (sign) bi
// appended.
func (p Problem) WithConstraint(ai []float64, sign Inequality, bi float64) (Problem, error) {
	if len(ai) != len(p.c) {
		return Problem{}, errors.Wrapf(ErrInvalid, "mismatch number of variables: constraint has %d coefficients, want %d", len(ai), len(p.c))
	}
	if !sign.Valid() {
		return Problem{}, errors.Wrapf(ErrInvalid, "unknown inequality %d", int(sign))
	}
	if !finite(ai) || !finite([]float64{bi}) {
		return Problem{}, errors.Wrap(ErrInvalid, "non-finite coefficient")
	}
	q := p.clone()
	q.a = append(q.a, slices.Clone(ai))
	q.b = append(q.b, bi)
	q.inequalities = append(q.inequalities, sign)
	return q, nil
}

func (p Problem) clone() Problem {
	q := Problem{
		a:               make([][]float64, len(p.a)),
		b:               slices.Clone(p.b),
		c:               slices.Clone(p.c),
		direction:       p.direction,
		inequalities:    slices.Clone(p.inequalities),
		signConstrained: slices.Clone(p.signConstrained),
	}
	for i, row := range p.a {
		q.a[i] = slices.Clone(row)
	}
	return q
}

func (p Problem) String() string {
	return fmt.Sprintf("%v C=%v, A=%v %v B=%v", p.direction, p.c, p.a, p.inequalities, p.b)
}
