package simplex

import "fmt"

// check verifies the structural invariants of the tableau.
func (tb *Tableau) check() error {
	r, c := tb.t.Dims()
	switch {
	case r != tb.rows()+1:
		return fmt.Errorf("matrix has %d rows for %d basic variables", r, tb.rows())
	case c != len(tb.cost) || c != len(tb.phase1):
		return fmt.Errorf("matrix has %d columns, costs have %d and %d", c, len(tb.cost), len(tb.phase1))
	case c-tb.artificial != tb.rows() || tb.artificial-tb.slack != tb.rows():
		return fmt.Errorf("slack block at %d and artificial block at %d do not match %d rows", tb.slack, tb.artificial, tb.rows())
	case len(tb.rowSign) != tb.rows():
		return fmt.Errorf("%d row signs for %d rows", len(tb.rowSign), tb.rows())
	}
	seen := make(map[int]bool, tb.rows())
	for i, j := range tb.basis {
		if j <= 0 || j >= c {
			return fmt.Errorf("basis[%d] = %d is out of range", i, j)
		}
		if seen[j] {
			return fmt.Errorf("column %d is basic twice", j)
		}
		seen[j] = true
	}
	return nil
}
