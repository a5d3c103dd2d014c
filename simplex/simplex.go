package simplex

import (
	"fmt"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/tableau/model"
)

// Solve solves the problem by the two-phase simplex method and returns the
// optimal answer. Once solved, Solve returns the current answer without
// pivoting again.
//
// Besides InfeasibleSolve, UnboundedMaximize and UnboundedMinimize, Solve
// may fail with DifficultSolve when an artificial variable cannot be driven
// out of the basis after phase 1. After any of these the tableau is
// unusable and every later call returns the same error.
//
// The pivot loop has no anti-cycling rule and may not terminate on some
// degenerate problems; callers that need a time bound should run Solve on
// their own goroutine.
func (tb *Tableau) Solve() (model.Answer, error) {
	if tb.err != nil {
		return model.Answer{}, tb.err
	}
	if tb.solved {
		return tb.answer(), nil
	}

	if err := tb.solvePhase1(); err != nil {
		return tb.fail(err)
	}
	if err := tb.solvePhase2(); err != nil {
		return tb.fail(err)
	}
	return tb.answer(), nil
}

// fail records err when it leaves the matrix unusable and returns it.
func (tb *Tableau) fail(err error) (model.Answer, error) {
	if !KindOf(err).Safe() {
		tb.err = err
		tb.solved = false
	}
	return model.Answer{}, err
}

// score sets the trailing row to costOfBasis·T - costs.
func (tb *Tableau) score(costs []float64) {
	r, c := tb.rows(), tb.cols()
	cb := mat.NewVecDense(r, nil)
	for i, j := range tb.basis {
		cb.SetVec(i, costs[j])
	}

	var s mat.VecDense
	s.MulVec(tb.t.Slice(0, r, 0, c).T(), cb)
	for j := range c {
		tb.t.Set(r, j, s.AtVec(j)-costs[j])
	}
}

func (tb *Tableau) solvePhase1() error {
	for i := range tb.basis {
		tb.basis[i] = tb.artificial + i
	}
	tb.score(tb.phase1)

	if err := tb.iterate(tb.cols()); err != nil {
		// The artificial objective is bounded below by zero.
		panic(fmt.Sprintf("simplex: phase 1 is unbounded: %v", err))
	}
	if w := tb.t.At(tb.rows(), 0); !isZero(w) {
		return newError(InfeasibleSolve, "the system is incompatible, artificial objective is %v", w)
	}
	log.V(1).Infof("phase 1 done, basis %v", tb.basis)
	return tb.purgeArtificial()
}

func (tb *Tableau) purgeArtificial() error {
	for i := range tb.basis {
		if err := tb.purge(i); err != nil {
			return err
		}
	}
	return nil
}

// purge replaces the artificial variable basic in row, if any, with a
// non-artificial column of zero reduced cost.
func (tb *Tableau) purge(row int) error {
	if tb.basis[row] < tb.artificial {
		return nil
	}
	col := tb.purgeCandidate(row)
	if col < 0 {
		return newError(DifficultSolve, "artificial column %d in row %d is a linear combination of non-artificial columns", tb.basis[row], row)
	}
	tb.pivot(row, col)
	return nil
}

func (tb *Tableau) solvePhase2() error {
	tb.score(tb.cost)
	if err := tb.iterate(tb.artificial); err != nil {
		return err
	}
	tb.solved = true
	return nil
}

// answer reads the current basic solution back into the user's variables.
func (tb *Tableau) answer() model.Answer {
	full := make([]float64, tb.cols())
	for i, j := range tb.basis {
		full[j] = tb.t.At(i, 0)
	}

	n := tb.problem.NumCols()
	x := make([]float64, n)
	copy(x, full[1:n+1])
	if tb.subst >= 0 {
		for j, free := range tb.free {
			if free {
				x[j] -= full[tb.subst]
			}
		}
	}

	fx := tb.t.At(tb.rows(), 0)
	if tb.problem.Direction() == model.Max {
		fx = -fx
	}
	return model.Answer{X: x, Objective: fx}
}

// value returns costOfBasis·constants, the minimized objective of the
// current basic solution.
func (tb *Tableau) value() float64 {
	cb := make([]float64, tb.rows())
	x := make([]float64, tb.rows())
	for i, j := range tb.basis {
		cb[i] = tb.cost[j]
		x[i] = tb.t.At(i, 0)
	}
	return floats.Dot(cb, x)
}
