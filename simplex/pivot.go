package simplex

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
	"q.log/tableau/model"
)

// Epsilon is the tolerance of every zero, sign and equality test. Answers
// are correct to within Epsilon.
const Epsilon = 1e-8

func isZero(v float64) bool     { return math.Abs(v) < Epsilon }
func isPositive(v float64) bool { return !isZero(v) && v > 0 }
func isNegative(v float64) bool { return !isZero(v) && v < 0 }

// pivot makes col basic in row by Gauss-Jordan elimination over the whole
// matrix, reduced costs included.
func (tb *Tableau) pivot(row, col int) {
	p := tb.t.At(row, col)
	if isZero(p) {
		panic(fmt.Sprintf("simplex: pivot element %v at (%d, %d) is zero", p, row, col))
	}
	log.V(2).Infof("base change %d -> %d at row %d, pivot %v", tb.basis[row], col, row, p)

	pr := tb.t.RawRowView(row)
	floats.Scale(1/p, pr)
	pr[col] = 1

	r, _ := tb.t.Dims()
	for i := range r {
		if i == row {
			continue
		}
		ri := tb.t.RawRowView(i)
		if k := ri[col]; k != 0 {
			floats.AddScaled(ri, -k, pr)
			ri[col] = 0
		}
	}
	tb.basis[row] = col
}

// entering returns the first column in [1, border) with a positive
// reduced cost, or -1 when the reduced costs are optimal.
func (tb *Tableau) entering(border int) int {
	s := tb.scores()
	for j := 1; j < border; j++ {
		if isPositive(s[j]) {
			return j
		}
	}
	return -1
}

// leaving is the minimum-ratio test: the first row minimizing
// constant/entry over the rows with a positive entry in col, or -1 when no
// row limits col.
func (tb *Tableau) leaving(col int) int {
	row, best := -1, math.Inf(1)
	for i := range tb.rows() {
		v := tb.t.At(i, col)
		if !isPositive(v) {
			continue
		}
		if theta := tb.t.At(i, 0) / v; theta < best {
			row, best = i, theta
		}
	}
	return row
}

// enter pivots col into the basis by the minimum-ratio test.
func (tb *Tableau) enter(col int) error {
	row := tb.leaving(col)
	if row < 0 {
		return tb.unbounded()
	}
	tb.pivot(row, col)
	return nil
}

func (tb *Tableau) unbounded() error {
	if tb.problem.Direction() == model.Max {
		return newError(UnboundedMaximize, "the function can be increased without limit")
	}
	return newError(UnboundedMinimize, "the function can be decreased without limit")
}

// iterate runs the primal simplex over the columns in [1, border) until no
// reduced cost is positive.
func (tb *Tableau) iterate(border int) error {
	for iter := 1; ; iter++ {
		col := tb.entering(border)
		if col < 0 {
			log.V(1).Infof("optimal after %d iterations, objective %v", iter-1, tb.t.At(tb.rows(), 0))
			return nil
		}
		if err := tb.enter(col); err != nil {
			return err
		}
	}
}

// mostNegative returns the row with the most negative constant, or -1 when
// the basic solution is feasible.
func (tb *Tableau) mostNegative() int {
	row, best := -1, math.Inf(1)
	for i := range tb.rows() {
		if v := tb.t.At(i, 0); isNegative(v) && v < best {
			row, best = i, v
		}
	}
	return row
}

// dualEntering returns the non-artificial column with a negative entry in
// row minimizing reducedCost/entry, or -1 when there is none.
func (tb *Tableau) dualEntering(row int) int {
	s := tb.scores()
	r := tb.t.RawRowView(row)
	col, best := -1, math.Inf(1)
	for j := 1; j < tb.artificial; j++ {
		if !isNegative(r[j]) {
			continue
		}
		if theta := s[j] / r[j]; theta < best {
			col, best = j, theta
		}
	}
	return col
}

// purgeCandidate returns the first non-artificial, non-basic column with a
// zero reduced cost and a non-zero entry in row, or -1.
func (tb *Tableau) purgeCandidate(row int) int {
	s := tb.scores()
	r := tb.t.RawRowView(row)
	for j := 1; j < tb.artificial; j++ {
		if tb.isBasic(j) || isZero(r[j]) {
			continue
		}
		if isZero(s[j]) {
			return j
		}
	}
	return -1
}
