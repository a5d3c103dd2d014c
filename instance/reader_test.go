package instance

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/tableau/model"
)

func TestConstructInstanceFromFile(t *testing.T) {
	inst, err := NewReader("testdata/production.yaml").ConstructInstanceFromFile()
	require.NoError(t, err)

	p := inst.Problem
	assert.Equal(t, model.Max, p.Direction())
	assert.Equal(t, 4, p.NumRows())
	assert.Equal(t, 2, p.NumCols())
	assert.Equal(t, []float64{1, 2}, p.Row(3))
	assert.Equal(t, []float64{40, 30, 60, 80}, p.RHS())
	assert.Equal(t, []float64{2, 3}, p.Objective())
	assert.Equal(t, []bool{true, true}, p.SignConstraints())
	for _, s := range p.Inequalities() {
		assert.Equal(t, model.LessOrEqual, s)
	}

	assert.Equal(t, []Constraint{{A: []float64{1, 0}, Sign: model.LessOrEqual, B: 30}}, inst.Constraints)
}

func TestConstructInstanceFromMissingFile(t *testing.T) {
	_, err := NewReader("testdata/missing.yaml").ConstructInstanceFromFile()
	assert.Error(t, err)
}

func TestDecodeDefaults(t *testing.T) {
	inst, err := Decode(strings.NewReader(`{"a": [[1, 1]], "b": [2], "c": [1, -1], "free": [false, true]}`))
	require.NoError(t, err)

	p := inst.Problem
	assert.Equal(t, model.Min, p.Direction())
	assert.Equal(t, []model.Inequality{model.Equal}, p.Inequalities())
	assert.Equal(t, []bool{true, false}, p.SignConstraints())
	assert.Empty(t, inst.Constraints)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{
			name: "unknown field",
			doc:  "a: [[1]]\nb: [1]\nc: [1]\nobjective: min\n",
		},
		{
			name: "not a matrix",
			doc:  "a: [1, 2]\nb: [1]\nc: [1]\n",
		},
		{
			name:    "bad direction",
			doc:     "direction: sideways\na: [[1]]\nb: [1]\nc: [1]\n",
			invalid: true,
		},
		{
			name:    "bad inequality",
			doc:     "a: [[1]]\nb: [1]\nc: [1]\ninequalities: [\"=<\"]\n",
			invalid: true,
		},
		{
			name:    "mismatched rows",
			doc:     "a: [[1], [2]]\nb: [1]\nc: [1]\n",
			invalid: true,
		},
		{
			name:    "short constraint",
			doc:     "a: [[1, 1]]\nb: [1]\nc: [1, 1]\nconstraints:\n  - {a: [1], sign: \"<=\", b: 1}\n",
			invalid: true,
		},
		{
			name:    "bad constraint sign",
			doc:     "a: [[1, 1]]\nb: [1]\nc: [1, 1]\nconstraints:\n  - {a: [1, 1], sign: \"!=\", b: 1}\n",
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, model.ErrInvalid), "got %v", err)
		})
	}
}
