package simplex

import (
	log "github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"q.log/tableau/model"
)

// Executor runs the independent tasks of FindAlternativeSolutions. Wait
// blocks until every task passed to Go has returned and reports the first
// error. *errgroup.Group is an Executor.
type Executor interface {
	Go(task func() error)
	Wait() error
}

type inline struct {
	err error
}

// Inline returns an Executor running every task on the calling goroutine.
func Inline() Executor { return &inline{} }

func (e *inline) Go(task func() error) {
	if err := task(); err != nil && e.err == nil {
		e.err = err
	}
}

func (e *inline) Wait() error { return e.err }

// Parallel returns an Executor running tasks on at most n goroutines, or
// without limit when n <= 0.
func Parallel(n int) Executor {
	g := new(errgroup.Group)
	if n > 0 {
		g.SetLimit(n)
	}
	return g
}

// FindAlternativeSolutions pivots in, one at a time, every non-basic column
// whose reduced cost is zero at the optimum and returns the distinct
// optimal answers reached, in column order. An empty result means no
// pivot leaves the optimum found by Solve.
//
// Each column is explored on a private clone, so tb is not modified. Tasks
// are run by exec, or inline when exec is nil; a failing task fails the
// whole call.
func (tb *Tableau) FindAlternativeSolutions(exec Executor) ([]model.Answer, error) {
	if tb.err != nil {
		return nil, tb.err
	}
	if !tb.solved {
		return nil, errNotSolved
	}
	if exec == nil {
		exec = Inline()
	}

	cols := tb.degenerateColumns()
	log.V(1).Infof("columns with zero reduced cost: %v", cols)

	answers := make([]model.Answer, len(cols))
	for k, col := range cols {
		alt := tb.Clone()
		exec.Go(func() error {
			if err := alt.enter(col); err != nil {
				return errors.Wrapf(err, "entering column %d", col)
			}
			answers[k] = alt.answer()
			return nil
		})
	}
	if err := exec.Wait(); err != nil {
		return nil, errors.Wrap(err, "alternative solutions")
	}
	return distinct(tb.answer(), answers), nil
}

// distinct drops the answers equal, within Epsilon, to primary or to an
// earlier answer. On a degenerate optimum a zero reduced cost column may
// enter at level zero and leave the vertex unchanged.
func distinct(primary model.Answer, answers []model.Answer) []model.Answer {
	seen := []model.Answer{primary}
	kept := answers[:0]
	for _, a := range answers {
		dup := false
		for _, s := range seen {
			if a.Equal(s, Epsilon) {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, a)
			kept = append(kept, a)
		}
	}
	return kept
}

// degenerateColumns returns the non-artificial, non-basic columns with a
// zero reduced cost.
func (tb *Tableau) degenerateColumns() []int {
	var cols []int
	s := tb.scores()
	for j := 1; j < tb.artificial; j++ {
		if isZero(s[j]) && !tb.isBasic(j) {
			cols = append(cols, j)
		}
	}
	return cols
}
