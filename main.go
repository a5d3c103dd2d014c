// The tableau command solves a linear program read from a YAML problem
// document, then optionally re-optimizes it and lists alternate optima.
//
//	tableau [-rhs 4,2,6] [-alternatives] [-workers 4] [-timeout 10s] problem.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"github.com/pkg/errors"
	"q.log/tableau/instance"
	"q.log/tableau/model"
	"q.log/tableau/simplex"
)

var (
	alternatives = flag.Bool("alternatives", false, "list alternate optimal solutions")
	workers      = flag.Int("workers", 1, "goroutines used to search alternate solutions, 0 for no limit")
	rhs          = flag.String("rhs", "", "comma separated rhs to re-optimize with after solving")
	timeout      = flag.Duration("timeout", 0, "abort when the run takes longer, 0 for no limit")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tableau [flags] problem.yaml")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	if err := run(ctx, flag.Arg(0)); err != nil {
		log.Exitf("tableau: %v", err)
	}
}

// run solves on its own goroutine: the pivot loop cannot be interrupted,
// so a timeout abandons it.
func run(ctx context.Context, filename string) error {
	r := instance.NewReader(filename)
	inst, err := r.ConstructInstanceFromFile()
	if err != nil {
		return err
	}

	var newB []float64
	if *rhs != "" {
		if newB, err = parseVector(*rhs); err != nil {
			return err
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- solve(inst, newB)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "solving %s", filename)
	}
}

func solve(inst *instance.Instance, newB []float64) error {
	tb := simplex.New(inst.Problem)
	answer, err := tb.Solve()
	if err != nil {
		return err
	}
	printAnswer("solution", answer)

	for k, c := range inst.Constraints {
		if answer, err = tb.AddConstraint(c.A, c.Sign, c.B); err != nil {
			return errors.Wrapf(err, "adding constraint %d", k)
		}
		printAnswer(fmt.Sprintf("with constraint %v %v %v", c.A, c.Sign, c.B), answer)
	}

	if newB != nil {
		if answer, err = tb.ChangeRHS(newB); err != nil {
			return errors.Wrap(err, "changing rhs")
		}
		printAnswer(fmt.Sprintf("with rhs %v", newB), answer)
	}

	if *alternatives {
		alts, err := tb.FindAlternativeSolutions(simplex.Parallel(*workers))
		if err != nil {
			return err
		}
		if len(alts) == 0 {
			fmt.Println("no alternate optimum")
		}
		for i, alt := range alts {
			printAnswer(fmt.Sprintf("alternative %d", i+1), alt)
		}
	}
	return nil
}

func printAnswer(title string, a model.Answer) {
	fmt.Printf("%s:\n  X = %v\n  Z = %v\n", title, a.X, a.Objective)
}

func parseVector(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	v := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "rhs value %d", i)
		}
		v[i] = x
	}
	return v, nil
}
