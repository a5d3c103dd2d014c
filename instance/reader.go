package instance

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"q.log/tableau/model"
)

// Reader reads a problem document to construct a model.
//
// A document is YAML (or JSON, which YAML accepts):
//
//	direction: max
//	a: [[1, 0], [0, 1], [1, 1]]
//	b: [40, 30, 60]
//	c: [2, 3]
//	inequalities: ["<=", "<=", "<="]
//	free: [false, false]
//	constraints:
//	  - {a: [1, 2], sign: "<=", b: 80}
//
// Only direction is optional among the problem fields; inequalities default
// to "=" and every variable defaults to non-negative. Constraints are not
// part of the problem, they are meant to be added after it is solved.
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// Instance is a decoded document.
type Instance struct {
	Problem model.Problem

	// Constraints to add, in order, once Problem is solved.
	Constraints []Constraint
}

// Constraint is a row ai·x (Sign) bi.
type Constraint struct {
	A    []float64
	Sign model.Inequality
	B    float64
}

type document struct {
	Direction    string        `yaml:"direction"`
	A            [][]float64   `yaml:"a"`
	B            []float64     `yaml:"b"`
	C            []float64     `yaml:"c"`
	Inequalities []string      `yaml:"inequalities"`
	Free         []bool        `yaml:"free"`
	Constraints  []constraintD `yaml:"constraints"`
}

type constraintD struct {
	A    []float64 `yaml:"a"`
	Sign string    `yaml:"sign"`
	B    float64   `yaml:"b"`
}

// ConstructInstanceFromFile reads and decodes the reader's file.
func (r *Reader) ConstructInstanceFromFile() (*Instance, error) {
	data, err := os.ReadFile(r.filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read problem file")
	}
	inst, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "problem file %s", r.filename)
	}
	return inst, nil
}

// Decode reads one document from in.
func Decode(in io.Reader) (*Instance, error) {
	var doc document
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode problem")
	}

	dir, err := model.ParseDirection(doc.Direction)
	if err != nil {
		return nil, err
	}
	opts := []model.Option{model.WithDirection(dir)}

	if len(doc.Inequalities) > 0 {
		signs := make([]model.Inequality, len(doc.Inequalities))
		for i, s := range doc.Inequalities {
			if signs[i], err = model.ParseInequality(s); err != nil {
				return nil, errors.Wrapf(err, "row %d", i)
			}
		}
		opts = append(opts, model.WithInequalities(signs...))
	}

	if len(doc.Free) > 0 {
		constrained := make([]bool, len(doc.Free))
		for j, free := range doc.Free {
			constrained[j] = !free
		}
		opts = append(opts, model.WithSignConstraints(constrained...))
	}

	p, err := model.NewProblem(doc.A, doc.B, doc.C, opts...)
	if err != nil {
		return nil, err
	}

	inst := &Instance{Problem: p}
	for k, c := range doc.Constraints {
		sign, err := model.ParseInequality(c.Sign)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %d", k)
		}
		if len(c.A) != p.NumCols() {
			return nil, errors.Wrapf(model.ErrInvalid, "constraint %d: mismatch number of variables: %d coefficients, want %d", k, len(c.A), p.NumCols())
		}
		inst.Constraints = append(inst.Constraints, Constraint{A: c.A, Sign: sign, B: c.B})
	}
	return inst, nil
}
