package simplex

import (
	"fmt"
	"slices"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/tableau/model"
)

// Tableau is the augmented matrix of a linear program in standard
// minimization form together with its basis bookkeeping.
//
// The matrix has one row per constraint plus a trailing row of reduced
// costs, whose constant entry is the current (minimized) objective value.
// Columns, left to right:
//
//	0                  constant column, values of the basic variables
//	1..n               decision variables
//	subst              shared substitution variable (only with free variables)
//	slack..            one slack/surplus column per constraint
//	artificial..       one artificial column per constraint
//
// A Tableau is not safe for concurrent use. Use Clone to get an independent
// copy.
type Tableau struct {
	problem model.Problem

	//free[j] is true when x_j is unconstrained in sign
	free []bool

	//rowSign[i] is -1 when row i was negated to make its rhs non-negative
	rowSign []float64

	t *mat.Dense

	//cost is the objective in minimization form, one entry per column
	cost []float64

	//phase1 is the artificial objective, one entry per column
	phase1 []float64

	subst      int
	slack      int
	artificial int

	basis []int

	solved bool

	//err is set by the first failure that leaves the matrix unusable
	err error
}

// New canonicalizes p into a tableau whose basis is the artificial columns.
func New(p model.Problem) *Tableau {
	rows, n := p.NumRows(), p.NumCols()
	tb := &Tableau{
		problem: p,
		free:    make([]bool, n),
		rowSign: make([]float64, rows),
		subst:   -1,
	}

	a := make([][]float64, rows)
	for i := range a {
		a[i] = p.Row(i)
	}
	c := p.Objective()

	// x_j = x_j' - t for every free x_j, all of them sharing one t >= 0.
	for j, constrained := range p.SignConstraints() {
		tb.free[j] = !constrained
		if !constrained {
			tb.subst = n + 1
		}
	}
	if tb.subst >= 0 {
		var cs float64
		for j, free := range tb.free {
			if free {
				cs -= c[j]
			}
		}
		c = append(c, cs)
		for i := range a {
			var as float64
			for j, free := range tb.free {
				if free {
					as -= a[i][j]
				}
			}
			a[i] = append(a[i], as)
		}
	}

	if p.Direction() == model.Max {
		floats.Scale(-1, c)
	}

	b := p.RHS()
	signs := p.Inequalities()
	for i := range b {
		tb.rowSign[i] = 1
		if b[i] < 0 {
			floats.Scale(-1, a[i])
			b[i] = -b[i]
			signs[i] = signs[i].Invert()
			tb.rowSign[i] = -1
		}
	}

	tb.slack = 1 + len(c)
	tb.artificial = tb.slack + rows
	cols := tb.artificial + rows

	tb.t = mat.NewDense(rows+1, cols, nil)
	for i := range rows {
		row := tb.t.RawRowView(i)
		row[0] = b[i]
		copy(row[1:], a[i])
		row[tb.slack+i] = slackCoefficient(signs[i])
		row[tb.artificial+i] = 1
	}

	tb.cost = make([]float64, cols)
	copy(tb.cost[1:], c)
	tb.phase1 = make([]float64, cols)
	tb.basis = make([]int, rows)
	for i := range rows {
		tb.phase1[tb.artificial+i] = 1
		tb.basis[i] = tb.artificial + i
	}

	log.V(1).Infof("canonicalized %d x %d problem into %d x %d tableau", rows, n, rows+1, cols)
	return tb
}

func slackCoefficient(s model.Inequality) float64 {
	switch s {
	case model.LessOrEqual, model.Less:
		return 1
	case model.GreaterOrEqual, model.Greater:
		return -1
	}
	return 0
}

// Clone returns a deep copy of tb sharing no mutable storage with it.
func (tb *Tableau) Clone() *Tableau {
	return &Tableau{
		problem:    tb.problem,
		free:       slices.Clone(tb.free),
		rowSign:    slices.Clone(tb.rowSign),
		t:          mat.DenseCopyOf(tb.t),
		cost:       slices.Clone(tb.cost),
		phase1:     slices.Clone(tb.phase1),
		subst:      tb.subst,
		slack:      tb.slack,
		artificial: tb.artificial,
		basis:      slices.Clone(tb.basis),
		solved:     tb.solved,
		err:        tb.err,
	}
}

// Solved reports whether Solve has completed successfully.
func (tb *Tableau) Solved() bool { return tb.solved && tb.err == nil }

// Problem returns the problem currently represented, including rhs changes
// and appended constraints.
func (tb *Tableau) Problem() model.Problem { return tb.problem }

// Basis returns, per constraint row, the column of the basic variable.
func (tb *Tableau) Basis() []int { return slices.Clone(tb.basis) }

// Err returns the failure that made tb unusable, if any.
func (tb *Tableau) Err() error { return tb.err }

func (tb *Tableau) String() string {
	t := mat.Formatted(tb.t, mat.Prefix("    "), mat.Squeeze())
	return fmt.Sprintf("T = %v\nbasis = %v", t, tb.basis)
}

func (tb *Tableau) rows() int { return len(tb.basis) }

func (tb *Tableau) cols() int {
	_, c := tb.t.Dims()
	return c
}

// scores returns the trailing row of reduced costs.
func (tb *Tableau) scores() []float64 {
	return tb.t.RawRowView(tb.rows())
}

func (tb *Tableau) isBasic(col int) bool {
	return slices.Contains(tb.basis, col)
}

// grow appends the constraint ai·x (sign) bi as a new row just above the
// reduced costs, with its own slack column at the end of the slack block
// and its own artificial column at the end of the matrix. The new row is
// not yet expressed in terms of the current basis.
func (tb *Tableau) grow(ai []float64, sign model.Inequality, bi float64) {
	r, c := tb.rows(), tb.cols()
	a := tb.artificial

	next := mat.NewDense(r+2, c+2, nil)
	next.Slice(0, r, 0, a).(*mat.Dense).Copy(tb.t.Slice(0, r, 0, a))
	next.Slice(0, r, a+1, c+1).(*mat.Dense).Copy(tb.t.Slice(0, r, a, c))
	next.Slice(r+1, r+2, 0, a).(*mat.Dense).Copy(tb.t.Slice(r, r+1, 0, a))
	next.Slice(r+1, r+2, a+1, c+1).(*mat.Dense).Copy(tb.t.Slice(r, r+1, a, c))

	row := next.RawRowView(r)
	row[0] = bi
	copy(row[1:], ai)
	if tb.subst >= 0 {
		var as float64
		for j, free := range tb.free {
			if free {
				as -= ai[j]
			}
		}
		row[tb.subst] = as
	}
	row[a] = slackCoefficient(sign)
	row[c+1] = 1
	tb.t = next

	tb.cost = slices.Insert(tb.cost, a, 0)
	tb.cost = append(tb.cost, 0)
	tb.phase1 = slices.Insert(tb.phase1, a, 0)
	tb.phase1 = append(tb.phase1, 1)

	for i, j := range tb.basis {
		if j >= a {
			tb.basis[i] = j + 1
		}
	}
	tb.basis = append(tb.basis, c+1)
	tb.rowSign = append(tb.rowSign, 1)
	tb.artificial++
}
