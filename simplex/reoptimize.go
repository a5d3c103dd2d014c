package simplex

import (
	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/tableau/model"
)

// ChangeRHS replaces the constraints rhs and re-optimizes by the dual
// simplex method, starting from the current optimal basis.
//
// A StateError is returned before Solve and a DataError when b has the
// wrong length; the tableau is untouched in both cases. IncompatibleSolve
// means the new system is infeasible and leaves the tableau unusable.
func (tb *Tableau) ChangeRHS(b []float64) (model.Answer, error) {
	if tb.err != nil {
		return model.Answer{}, tb.err
	}
	if !tb.solved {
		return model.Answer{}, errNotSolved
	}

	p, err := tb.problem.WithRHS(b)
	if err != nil {
		return model.Answer{}, dataError(err)
	}
	return tb.reoptimize(p)
}

// ChangeRHSAt replaces the rhs of constraint i only. See ChangeRHS.
func (tb *Tableau) ChangeRHSAt(i int, v float64) (model.Answer, error) {
	if tb.err != nil {
		return model.Answer{}, tb.err
	}
	if !tb.solved {
		return model.Answer{}, errNotSolved
	}

	b := tb.problem.RHS()
	if i < 0 || i >= len(b) {
		return model.Answer{}, newError(DataError, "incorrect index %d for rhs with length %d", i, len(b))
	}
	b[i] = v
	p, err := tb.problem.WithRHS(b)
	if err != nil {
		return model.Answer{}, dataError(err)
	}
	return tb.reoptimize(p)
}

func (tb *Tableau) reoptimize(p model.Problem) (model.Answer, error) {
	tb.problem = p
	tb.recalculateConstants(p.RHS())
	if err := tb.dualSimplex(); err != nil {
		return tb.fail(err)
	}
	return tb.answer(), nil
}

// recalculateConstants sets the constant column to the inverse basis, read
// off the artificial block, times b, and the objective to its value there.
func (tb *Tableau) recalculateConstants(b []float64) {
	r := tb.rows()
	canonical := mat.NewVecDense(r, nil)
	for i, v := range b {
		canonical.SetVec(i, tb.rowSign[i]*v)
	}

	var x mat.VecDense
	x.MulVec(tb.t.Slice(0, r, tb.artificial, tb.artificial+r), canonical)
	for i := range r {
		tb.t.Set(i, 0, x.AtVec(i))
	}
	tb.t.Set(r, 0, tb.value())
}

// dualSimplex pivots until no basic variable is negative, keeping the
// reduced costs optimal.
func (tb *Tableau) dualSimplex() error {
	for {
		row := tb.mostNegative()
		if row < 0 {
			return nil
		}
		col := tb.dualEntering(row)
		if col < 0 {
			return newError(IncompatibleSolve, "the new system is incompatible, row %d stays negative", row)
		}
		tb.pivot(row, col)
	}
}

// AddConstraint appends the constraint ai·x (sign) bi and re-optimizes by
// the dual simplex method.
//
// A StateError is returned before Solve and a DataError when ai does not
// have one coefficient per variable; the tableau is untouched in both
// cases. IncompatibleSolve means the extended system is infeasible, or its
// new artificial variable could not be purged, and leaves the tableau
// unusable.
func (tb *Tableau) AddConstraint(ai []float64, sign model.Inequality, bi float64) (model.Answer, error) {
	if tb.err != nil {
		return model.Answer{}, tb.err
	}
	if !tb.solved {
		return model.Answer{}, errNotSolved
	}

	p, err := tb.problem.WithConstraint(ai, sign, bi)
	if err != nil {
		return model.Answer{}, dataError(err)
	}
	tb.problem = p
	tb.grow(ai, sign, bi)

	row := tb.rows() - 1
	tb.formPseudoBasis(row)
	if err := tb.purge(row); err != nil {
		if KindOf(err) == DifficultSolve {
			err = newError(IncompatibleSolve, "the system is incompatible, new constraint cannot leave the artificial basis")
		}
		return tb.fail(err)
	}
	log.V(1).Infof("constraint %v %v %v added as row %d", ai, sign, bi, row)

	if err := tb.dualSimplex(); err != nil {
		return tb.fail(err)
	}
	return tb.answer(), nil
}

// formPseudoBasis expresses the new row through the non-basic columns and
// its own artificial variable, which becomes basic in it.
func (tb *Tableau) formPseudoBasis(row int) {
	nr := tb.t.RawRowView(row)
	for i := range row {
		if k := nr[tb.basis[i]]; k != 0 {
			floats.AddScaled(nr, -k, tb.t.RawRowView(i))
		}
	}
	tb.pivot(row, tb.basis[row])
}
