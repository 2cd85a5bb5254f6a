// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package gradients implements the parameter-shift and finite-difference
// gradient rule engines.
//
// Both engines follow the same shape: given a tape, they produce a set
// of shifted auxiliary tapes plus a pure post-processing function that
// recombines the auxiliary results into one Jacobian column per
// trainable parameter. The engines never execute anything themselves;
// callers dispatch the tapes through whatever device they use.
package gradients

import (
	"math"

	"github.com/jkanem/pennylane/internal/logger"
	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/ops"
	"github.com/jkanem/pennylane/tape"
)

// PostFn recombines raw auxiliary-tape results into one derivative
// tensor per trainable parameter, each shaped like the tape's own
// result. It is pure: stacking, scaling and summation only.
type PostFn func(results []*num.Tensor) ([]*num.Tensor, error)

// Config carries the rule engine configuration. The zero value selects
// the defaults: central finite differences with h=1e-7, warnings to the
// default logger.
type Config struct {
	// Step is the finite-difference step size h.
	Step float64
	// Order selects the finite-difference pattern: 1 for forward
	// differences, 2 for central differences.
	Order int
	// Logger receives soft-failure warnings.
	Logger logger.Logger
}

func (c Config) withDefaults() Config {
	if c.Step == 0 {
		c.Step = 1e-7
	}
	if c.Order == 0 {
		c.Order = 2
	}
	if c.Logger == nil {
		c.Logger = logger.Default()
	}
	return c
}

// opForParam locates the operation owning the given flattened parameter
// index.
func opForParam(t *tape.Tape, flat int) (ops.Operation, bool) {
	i := 0
	for _, o := range t.Operations() {
		n := o.NumParams()
		if flat < i+n {
			return o, true
		}
		i += n
	}
	return ops.Operation{}, false
}

// shiftedTape returns a copy of t with the parameter at flat index i
// offset by delta. The shifted parameter is a detached constant; the
// rule's post-processing carries the gradient relationship instead.
func shiftedTape(t *tape.Tape, i int, delta float64) (*tape.Tape, error) {
	params := t.GetParameters(false)
	vals := append([]*num.Value(nil), params...)
	vals[i] = num.Lit(params[i].Float() + delta)
	return t.WithParameters(false, vals)
}

func warnNoTrainable(log logger.Logger) {
	log.Warn("attempted to differentiate a tape with no trainable parameters; " +
		"the output appears independent of the input")
}

// resultShape returns the shape of the tape's execution result: a
// scalar for a single expectation or variance, the outcome count for a
// probability readout, and a vector over measurements otherwise. Zero
// gradient columns must match it.
func resultShape(t *tape.Tape) []int {
	ms := t.Measurements()
	if len(ms) != 1 {
		return []int{len(ms)}
	}
	if ms[0].Kind() == tape.Probability {
		ws := ms[0].Wires()
		if len(ws) == 0 {
			ws = t.Wires()
		}
		return []int{1 << len(ws)}
	}
	return nil
}

// ParamShift produces the parameter-shift auxiliary tapes for every
// trainable parameter of t, plus the recombination function.
//
// For a parameter whose operation has generator coefficient c (Pauli
// word eigenvalues scale to ±|c|), the two-term rule evaluates at
// shifts ±pi/(4|c|) and recombines with coefficient |c|. The default
// rotation convention c = -1/2 yields the familiar ±pi/2 rule. A
// trainable parameter without a generator is skipped and contributes an
// all-zero Jacobian column. A tape with no trainable parameters yields
// no tapes and an empty Jacobian, with a warning.
func ParamShift(t *tape.Tape, cfg Config) ([]*tape.Tape, PostFn, error) {
	cfg = cfg.withDefaults()
	trainable := t.TrainableParams()
	if len(trainable) == 0 {
		warnNoTrainable(cfg.Logger)
		return nil, emptyPostFn, nil
	}

	type recipe struct {
		active bool
		coeff  float64
	}
	recipes := make([]recipe, len(trainable))
	var tapes []*tape.Tape

	for k, i := range trainable {
		op, ok := opForParam(t, i)
		if !ok {
			continue
		}
		gen, err := op.Generator()
		if err != nil {
			cfg.Logger.Warn("skipping parameter without a generator; gradient column is zero",
				"operation", op.Name(), "param", i)
			continue
		}
		r := math.Abs(gen.Coeff)
		shift := math.Pi / (4 * r)
		plus, err := shiftedTape(t, i, shift)
		if err != nil {
			return nil, nil, err
		}
		minus, err := shiftedTape(t, i, -shift)
		if err != nil {
			return nil, nil, err
		}
		tapes = append(tapes, plus, minus)
		recipes[k] = recipe{active: true, coeff: r}
	}

	shape := resultShape(t)
	fn := func(results []*num.Tensor) ([]*num.Tensor, error) {
		cols := make([]*num.Tensor, len(recipes))
		j := 0
		for k, rec := range recipes {
			if !rec.active {
				cols[k] = num.Zeros(shape...)
				continue
			}
			cols[k] = results[j].Sub(results[j+1]).Scale(rec.coeff)
			j += 2
		}
		return cols, nil
	}
	return tapes, fn, nil
}

// FiniteDiff produces finite-difference auxiliary tapes for every
// trainable parameter of t. Order 2 uses the central pattern
// (f(x+h)-f(x-h))/2h; order 1 uses the forward pattern with a single
// shared unshifted tape.
func FiniteDiff(t *tape.Tape, cfg Config) ([]*tape.Tape, PostFn, error) {
	cfg = cfg.withDefaults()
	trainable := t.TrainableParams()
	if len(trainable) == 0 {
		warnNoTrainable(cfg.Logger)
		return nil, emptyPostFn, nil
	}

	h := cfg.Step
	var tapes []*tape.Tape
	forward := cfg.Order == 1
	if forward {
		tapes = append(tapes, t.Copy())
	}
	for _, i := range trainable {
		plus, err := shiftedTape(t, i, h)
		if err != nil {
			return nil, nil, err
		}
		tapes = append(tapes, plus)
		if !forward {
			minus, err := shiftedTape(t, i, -h)
			if err != nil {
				return nil, nil, err
			}
			tapes = append(tapes, minus)
		}
	}

	n := len(trainable)
	fn := func(results []*num.Tensor) ([]*num.Tensor, error) {
		cols := make([]*num.Tensor, n)
		if forward {
			base := results[0]
			for k := 0; k < n; k++ {
				cols[k] = results[1+k].Sub(base).Scale(1 / h)
			}
			return cols, nil
		}
		for k := 0; k < n; k++ {
			cols[k] = results[2*k].Sub(results[2*k+1]).Scale(1 / (2 * h))
		}
		return cols, nil
	}
	return tapes, fn, nil
}

func emptyPostFn(results []*num.Tensor) ([]*num.Tensor, error) {
	return nil, nil
}
