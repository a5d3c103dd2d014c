package simplex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/tableau/model"
)

const (
	le = model.LessOrEqual
	ge = model.GreaterOrEqual
)

var approx = cmpopts.EquateApprox(0, 1e-7)

func newTableau(t *testing.T, a [][]float64, b, c []float64, opts ...model.Option) *Tableau {
	t.Helper()
	p, err := model.NewProblem(a, b, c, opts...)
	require.NoError(t, err)
	return New(p)
}

func requireAnswer(t *testing.T, want, got model.Answer) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("answer mismatch (-want +got):\n%s", diff)
	}
}

type fixture struct {
	name string
	a    [][]float64
	b    []float64
	c    []float64
	opts []model.Option
}

func (p fixture) tableau(t *testing.T) *Tableau {
	return newTableau(t, p.a, p.b, p.c, p.opts...)
}

var (
	production = fixture{
		name: "production",
		a:    [][]float64{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
		b:    []float64{40, 30, 60, 80},
		c:    []float64{2, 3},
		opts: []model.Option{model.WithDirection(model.Max), model.WithInequalities(le, le, le, le)},
	}
	small = fixture{
		name: "small",
		a:    [][]float64{{-1, 1}, {0, 1}, {1, 0}},
		b:    []float64{2, 1, 3},
		c:    []float64{6, 10},
		opts: []model.Option{model.WithDirection(model.Max), model.WithInequalities(le, le, le)},
	}
)

func TestSolve(t *testing.T) {
	tests := []struct {
		fixture
		want model.Answer
	}{
		{
			fixture: fixture{
				name: "equalities with negative rhs",
				a:    [][]float64{{-1, 1, 1, 2, -3}, {1, 1, 4, 1, -8}, {0, 1, 1, 0, -4}},
				b:    []float64{4, 3, -4},
				c:    []float64{-1, -1, 1, 3, 7},
			},
			want: model.Answer{X: []float64{5, 0, 0, 6, 1}, Objective: 20},
		},
		{
			fixture: production,
			want:    model.Answer{X: []float64{40, 20}, Objective: 140},
		},
		{
			fixture: fixture{
				name: "mixed inequalities",
				a:    [][]float64{{2, -1, 1}, {4, -2, 1}, {3, 0, 1}},
				b:    []float64{1, -2, 5},
				c:    []float64{1, -1, -3},
				opts: []model.Option{model.WithInequalities(le, ge, le)},
			},
			want: model.Answer{X: []float64{1.0 / 3, 11.0 / 3, 4}, Objective: -46.0 / 3},
		},
		{
			fixture: fixture{
				name: "maximize",
				a:    [][]float64{{-2, 3}, {1, 1}, {3, -5}},
				b:    []float64{12, 9, 3},
				c:    []float64{1, -1},
				opts: []model.Option{model.WithDirection(model.Max), model.WithInequalities(le, le, le)},
			},
			want: model.Answer{X: []float64{6, 3}, Objective: 3},
		},
		{
			fixture: fixture{
				name: "maximize with surplus",
				a:    [][]float64{{-2, 3}, {1, 1}, {3, -5}},
				b:    []float64{12, 9, 3},
				c:    []float64{1, -1},
				opts: []model.Option{model.WithDirection(model.Max), model.WithInequalities(le, le, ge)},
			},
			want: model.Answer{X: []float64{9, 0}, Objective: 9},
		},
		{
			fixture: fixture{
				name: "maximize degenerate vertex",
				a:    [][]float64{{-2, 3}, {1, 1}, {1, -1}},
				b:    []float64{12, 9, 3},
				c:    []float64{1, -1},
				opts: []model.Option{model.WithDirection(model.Max), model.WithInequalities(le, le, le)},
			},
			want: model.Answer{X: []float64{6, 3}, Objective: 3},
		},
		{
			fixture: fixture{
				name: "maximize equalities",
				a:    [][]float64{{1, 3, 2, 2}, {2, 2, 1, 1}},
				b:    []float64{3, 3},
				c:    []float64{5, 3, 4, -1},
				opts: []model.Option{model.WithDirection(model.Max)},
			},
			want: model.Answer{X: []float64{1, 0, 1, 0}, Objective: 9},
		},
		{
			fixture: fixture{
				name: "all free",
				a:    [][]float64{{1, 1}, {0, -1}},
				b:    []float64{1, 3},
				c:    []float64{-1, 2},
				opts: []model.Option{model.WithInequalities(le, le), model.WithFree(0, 1)},
			},
			want: model.Answer{X: []float64{4, -3}, Objective: -10},
		},
		{
			fixture: fixture{
				name: "some free",
				a:    [][]float64{{2, -1, 0, -2, -2}, {-1, 2, 1, 1, 0}, {1, -2, 0, 2, 3}},
				b:    []float64{4, 8, 6},
				c:    []float64{1, 2, -2, 1, 1},
				opts: []model.Option{model.WithFree(2, 4)},
			},
			want: model.Answer{X: []float64{3, 0, 11, 0, 1}, Objective: -18},
		},
		{
			fixture: fixture{
				name: "strict less",
				a:    [][]float64{{1, 1}},
				b:    []float64{2},
				c:    []float64{1, 1},
				opts: []model.Option{model.WithDirection(model.Max), model.WithInequalities(model.Less)},
			},
			want: model.Answer{X: []float64{2, 0}, Objective: 2},
		},
		{
			fixture: fixture{
				name: "strict greater",
				a:    [][]float64{{1, 0}, {0, 1}},
				b:    []float64{1, 2},
				c:    []float64{2, 1},
				opts: []model.Option{model.WithInequalities(model.Greater, model.Greater)},
			},
			want: model.Answer{X: []float64{1, 2}, Objective: 4},
		},
		{
			fixture: fixture{
				name: "strict mixed",
				a:    [][]float64{{-2, 3}, {1, 1}, {3, -5}},
				b:    []float64{12, 9, 3},
				c:    []float64{1, -1},
				opts: []model.Option{model.WithDirection(model.Max), model.WithInequalities(model.Less, model.Less, model.Greater)},
			},
			want: model.Answer{X: []float64{9, 0}, Objective: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := tt.tableau(t)
			got, err := tb.Solve()
			require.NoError(t, err)
			requireAnswer(t, tt.want, got)

			assert.True(t, tb.Solved())
			assert.NoError(t, tb.check())

			p := tb.Problem()
			assert.True(t, p.Satisfied(got.X, 1e-7), "answer %v violates %v", got.X, p)
			assert.InDelta(t, got.Objective, p.Value(got.X), 1e-7)
		})
	}
}

func TestSolveIsIdempotent(t *testing.T) {
	tb := production.tableau(t)
	first, err := tb.Solve()
	require.NoError(t, err)
	basis := tb.Basis()

	second, err := tb.Solve()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, basis, tb.Basis())
}

func TestSolveFailures(t *testing.T) {
	tests := []struct {
		fixture
		want error
	}{
		{
			fixture: fixture{
				name: "infeasible",
				a:    [][]float64{{1, 1}, {1, 1}},
				b:    []float64{1, 3},
				c:    []float64{1, 1},
				opts: []model.Option{model.WithInequalities(le, ge)},
			},
			want: ErrInfeasible,
		},
		{
			fixture: fixture{
				name: "unbounded maximize",
				a:    [][]float64{{-2, 3}, {3, -5}},
				b:    []float64{12, 3},
				c:    []float64{1, 1},
				opts: []model.Option{model.WithDirection(model.Max), model.WithInequalities(le, le)},
			},
			want: ErrUnboundedMaximize,
		},
		{
			fixture: fixture{
				name: "unbounded minimize",
				a:    [][]float64{{1, -1}},
				b:    []float64{1},
				c:    []float64{-1, 0},
				opts: []model.Option{model.WithInequalities(ge)},
			},
			want: ErrUnboundedMinimize,
		},
		{
			fixture: fixture{
				name: "redundant equalities",
				a:    [][]float64{{1, 1}, {2, 2}},
				b:    []float64{2, 4},
				c:    []float64{1, 2},
			},
			want: ErrDifficult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := tt.tableau(t)
			_, err := tb.Solve()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.False(t, tb.Solved())

			// The failure sticks.
			_, again := tb.Solve()
			assert.Equal(t, err, again)
			assert.Equal(t, err, tb.Err())
			_, err = tb.ChangeRHS(tt.b)
			assert.True(t, errors.Is(err, tt.want))
			_, err = tb.FindAlternativeSolutions(nil)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestErrorKinds(t *testing.T) {
	err := newError(IncompatibleSolve, "row %d", 3)
	assert.Equal(t, IncompatibleSolve, KindOf(err))
	assert.Equal(t, IncompatibleSolve, KindOf(errors.Wrap(err, "context")))
	assert.True(t, errors.Is(errors.Wrap(err, "context"), ErrIncompatible))
	assert.False(t, errors.Is(err, ErrInfeasible))
	assert.Equal(t, "simplex: incompatible: row 3", err.Error())

	cause := errors.New("bad input")
	wrapped := dataError(cause)
	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, errors.Is(wrapped, ErrData))

	assert.Equal(t, Kind(0), KindOf(cause))
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.True(t, DataError.Safe())
	assert.True(t, StateError.Safe())
	assert.False(t, IncompatibleSolve.Safe())
	assert.False(t, DifficultSolve.Safe())
}
