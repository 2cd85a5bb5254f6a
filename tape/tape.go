// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package tape provides the circuit recording container.
//
// A Tape is an ordered sequence of operations followed by an ordered
// sequence of measurements. Circuits are recorded through an explicit
// builder passed into the recording function; operations never register
// themselves through global state:
//
//	t, err := tape.Record(func(q *tape.Queue) {
//	    q.Apply(ops.NewHadamard(0))
//	    q.Apply(ops.NewRX(num.Var(0.5), 0))
//	    q.Expval(ops.Z(0))
//	})
//
// Once Record returns the tape is frozen: transforms produce new Tape
// instances and never mutate an existing one. Operations are immutable
// value objects, so transformed tapes may share them.
package tape

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/ops"
	"github.com/jkanem/pennylane/wires"
)

// MeasureKind tags the return semantics of a measurement.
type MeasureKind int

const (
	Expval MeasureKind = iota + 1
	Variance
	Probability
	Sample
	State
)

var measureNames = map[MeasureKind]string{
	Expval:      "expval",
	Variance:    "var",
	Probability: "probs",
	Sample:      "sample",
	State:       "state",
}

func (k MeasureKind) String() string {
	if n, ok := measureNames[k]; ok {
		return n
	}
	return fmt.Sprintf("MeasureKind(%d)", int(k))
}

// Measurement is a terminal record naming an observable (or none, for
// probability and state readouts) and the wires it acts over.
type Measurement struct {
	kind MeasureKind
	obs  *ops.Observable
	ws   wires.Wires
}

// Kind returns the measurement's return semantics.
func (m Measurement) Kind() MeasureKind { return m.kind }

// Observable returns the measured observable and whether one exists.
func (m Measurement) Observable() (ops.Observable, bool) {
	if m.obs == nil {
		return ops.Observable{}, false
	}
	return *m.obs, true
}

// Wires returns the wires the measurement acts over.
func (m Measurement) Wires() wires.Wires {
	if m.obs != nil {
		return m.obs.Wires()
	}
	return m.ws
}

// ExpvalOf builds an expectation measurement outside a recording scope.
// Transforms use it when assembling tapes directly.
func ExpvalOf(obs ops.Observable) Measurement {
	o := obs
	return Measurement{kind: Expval, obs: &o}
}

// VarianceOf builds a variance measurement outside a recording scope.
func VarianceOf(obs ops.Observable) Measurement {
	o := obs
	return Measurement{kind: Variance, obs: &o}
}

// ProbsOf builds a probability measurement over the given wires.
func ProbsOf(ws ...wires.Wire) Measurement {
	return Measurement{kind: Probability, ws: wires.New(ws...)}
}

// Queue is the recording builder handed to the circuit function. All
// queued operations and measurements end up, in order, on the tape that
// Record returns.
type Queue struct {
	ops []ops.Operation
	ms  []Measurement
	err error
}

// Apply queues an operation. Operations must precede measurements;
// queuing one after a measurement makes Record fail.
func (q *Queue) Apply(o ops.Operation) {
	if q.err != nil {
		return
	}
	if len(q.ms) > 0 {
		q.err = fmt.Errorf("tape: operation %s queued after a measurement", o.Name())
		return
	}
	q.ops = append(q.ops, o)
}

// Expval queues an expectation-value measurement of the observable.
func (q *Queue) Expval(obs ops.Observable) {
	q.ms = append(q.ms, ExpvalOf(obs))
}

// Var queues a variance measurement of the observable.
func (q *Queue) Var(obs ops.Observable) {
	q.ms = append(q.ms, VarianceOf(obs))
}

// Probs queues a computational-basis probability measurement over the
// given wires.
func (q *Queue) Probs(ws ...wires.Wire) {
	q.ms = append(q.ms, ProbsOf(ws...))
}

// Sample queues a sample measurement of the observable.
func (q *Queue) Sample(obs ops.Observable) {
	o := obs
	q.ms = append(q.ms, Measurement{kind: Sample, obs: &o})
}

// State queues a raw state readout.
func (q *Queue) State() {
	q.ms = append(q.ms, Measurement{kind: State})
}

// Record runs the circuit function against a fresh Queue and returns
// the frozen tape holding everything it queued.
func Record(fn func(q *Queue)) (*Tape, error) {
	q := &Queue{}
	fn(q)
	if q.err != nil {
		return nil, q.err
	}
	return FromOps(q.ops, q.ms), nil
}

// Tape is a frozen, ordered sequence of operations and measurements.
type Tape struct {
	ops        []ops.Operation
	ms         []Measurement
	trainable  []int
	overridden bool
}

// FromOps builds a tape directly from operation and measurement lists.
// The slices are copied; the operations themselves are shared.
func FromOps(operations []ops.Operation, measurements []Measurement) *Tape {
	return &Tape{
		ops: append([]ops.Operation(nil), operations...),
		ms:  append([]Measurement(nil), measurements...),
	}
}

// Operations returns the recorded operations in order. The returned
// slice is a copy and may be modified freely.
func (t *Tape) Operations() []ops.Operation {
	return append([]ops.Operation(nil), t.ops...)
}

// Measurements returns the recorded measurements in order.
func (t *Tape) Measurements() []Measurement {
	return append([]Measurement(nil), t.ms...)
}

// Wires returns every wire touched by the circuit or its measurements,
// in order of first use.
func (t *Tape) Wires() wires.Wires {
	var ws wires.Wires
	for _, o := range t.ops {
		ws = ws.Union(o.Wires())
	}
	for _, m := range t.ms {
		ws = ws.Union(m.Wires())
	}
	return ws
}

// NumParams returns the length of the flattened parameter list.
func (t *Tape) NumParams() int {
	n := 0
	for _, o := range t.ops {
		n += o.NumParams()
	}
	return n
}

// TrainableParams returns the sorted indices into the flattened
// parameter list that are treated as trainable. By default these are
// the parameters whose values are marked as requiring a gradient; when
// no parameter carries trainability metadata, every parameter is
// trainable. SetTrainableParams overrides the default.
func (t *Tape) TrainableParams() []int {
	if t.overridden {
		return append([]int(nil), t.trainable...)
	}
	var idx []int
	i := 0
	for _, o := range t.ops {
		for _, p := range o.Params() {
			if p.RequiresGrad() {
				idx = append(idx, i)
			}
			i++
		}
	}
	if len(idx) == 0 {
		idx = make([]int, t.NumParams())
		for k := range idx {
			idx[k] = k
		}
	}
	return idx
}

// SetTrainableParams overrides the trainable parameter set with the
// given flattened indices.
func (t *Tape) SetTrainableParams(idx []int) error {
	n := t.NumParams()
	seen := map[int]bool{}
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= n {
			return fmt.Errorf("tape: trainable index %d out of range for %d parameters", i, n)
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	t.trainable = out
	t.overridden = true
	return nil
}

// GetParameters returns the flattened parameter list. With trainableOnly
// set, only parameters in the trainable set are returned, in index
// order.
func (t *Tape) GetParameters(trainableOnly bool) []*num.Value {
	all := make([]*num.Value, 0, t.NumParams())
	for _, o := range t.ops {
		all = append(all, o.Params()...)
	}
	if !trainableOnly {
		return all
	}
	idx := t.TrainableParams()
	out := make([]*num.Value, len(idx))
	for k, i := range idx {
		out[k] = all[i]
	}
	return out
}

// WithParameters returns a new tape identical to t except that the
// selected parameters are replaced by vals, in flattened index order.
// With trainableOnly set, vals addresses only the trainable set.
func (t *Tape) WithParameters(trainableOnly bool, vals []*num.Value) (*Tape, error) {
	replace := map[int]*num.Value{}
	if trainableOnly {
		idx := t.TrainableParams()
		if len(vals) != len(idx) {
			return nil, fmt.Errorf("tape: got %d values for %d trainable parameters", len(vals), len(idx))
		}
		for k, i := range idx {
			replace[i] = vals[k]
		}
	} else {
		if len(vals) != t.NumParams() {
			return nil, fmt.Errorf("tape: got %d values for %d parameters", len(vals), t.NumParams())
		}
		for i, v := range vals {
			replace[i] = v
		}
	}

	newOps := make([]ops.Operation, len(t.ops))
	i := 0
	for k, o := range t.ops {
		if o.NumParams() == 0 {
			newOps[k] = o
			continue
		}
		params := append([]*num.Value(nil), o.Params()...)
		changed := false
		for s := range params {
			if v, ok := replace[i]; ok {
				params[s] = v
				changed = true
			}
			i++
		}
		if changed {
			newOps[k] = o.WithParams(params)
		} else {
			newOps[k] = o
		}
	}

	out := FromOps(newOps, t.ms)
	out.trainable = append([]int(nil), t.trainable...)
	out.overridden = t.overridden
	return out, nil
}

// Copy returns an independent tape sharing the immutable operation
// objects. Mutating the copy's trainable parameter set does not affect
// the original.
func (t *Tape) Copy() *Tape {
	out := FromOps(t.ops, t.ms)
	out.trainable = append([]int(nil), t.trainable...)
	out.overridden = t.overridden
	return out
}

// MaxExpansionDepth caps recursive decomposition in Expand.
const MaxExpansionDepth = 20

// ErrExpansionDepth is reported when an operation's decomposition does
// not reach the stopping predicate within MaxExpansionDepth levels.
var ErrExpansionDepth = errors.New("expansion did not terminate")

// Expand recursively replaces every operation for which stopAt is false
// by its declared decomposition, until all remaining operations satisfy
// stopAt or have no decomposition. Measurements are preserved. An
// explicit trainable override is carried over, since every declared
// decomposition keeps the flattened parameter list intact; expansion
// fails if a decomposition ever changes the parameter count under an
// override, rather than silently widening the trainable set.
func (t *Tape) Expand(stopAt func(ops.Operation) bool) (*Tape, error) {
	var out []ops.Operation
	for _, o := range t.ops {
		expanded, err := expandOp(o, stopAt, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	res := FromOps(out, t.ms)
	if t.overridden {
		if res.NumParams() != t.NumParams() {
			return nil, fmt.Errorf("tape: expansion changed the parameter count from %d to %d; the explicit trainable set cannot be carried over", t.NumParams(), res.NumParams())
		}
		res.trainable = append([]int(nil), t.trainable...)
		res.overridden = true
	}
	return res, nil
}

func expandOp(o ops.Operation, stopAt func(ops.Operation) bool, depth int) ([]ops.Operation, error) {
	if stopAt(o) {
		return []ops.Operation{o}, nil
	}
	dec, ok := o.Decomposition()
	if !ok {
		return []ops.Operation{o}, nil
	}
	if depth >= MaxExpansionDepth {
		return nil, fmt.Errorf("tape: %s: %w", o.Name(), ErrExpansionDepth)
	}
	if len(dec) == 1 && dec[0].Kind() == o.Kind() {
		return nil, fmt.Errorf("tape: %s decomposes into itself: %w", o.Name(), ErrExpansionDepth)
	}
	var out []ops.Operation
	for _, sub := range dec {
		expanded, err := expandOp(sub, stopAt, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}
