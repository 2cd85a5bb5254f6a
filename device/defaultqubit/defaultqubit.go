// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package defaultqubit provides a dense statevector simulator
// implementing the device execution contract.
//
// The simulator is analytic: expectation values, variances and
// probabilities are computed exactly from the final state. It exists so
// the transform and gradient machinery can be exercised end to end
// without hardware; it is not an optimized simulation engine.
package defaultqubit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/ops"
	"github.com/jkanem/pennylane/tape"
	"github.com/jkanem/pennylane/wires"
)

// Simulator is a dense statevector device.
type Simulator struct {
	ws wires.Wires
}

// New creates a simulator exposing the given wires. With no wires the
// simulator accepts any labels and sizes its register per tape.
func New(ws ...wires.Wire) *Simulator {
	return &Simulator{ws: wires.New(ws...)}
}

// Wires returns the wires the simulator exposes.
func (s *Simulator) Wires() wires.Wires { return s.ws }

// Execute runs each tape through the statevector engine.
func (s *Simulator) Execute(tapes []*tape.Tape) ([]*num.Tensor, error) {
	out := make([]*num.Tensor, len(tapes))
	for i, t := range tapes {
		res, err := s.run(t)
		if err != nil {
			return nil, fmt.Errorf("defaultqubit: tape %d: %w", i, err)
		}
		out[i] = res
	}
	return out, nil
}

// register holds a statevector over an ordered wire set. Wire k of the
// register owns bit (n-1-k) of the amplitude index, so the first wire
// is the most significant bit.
type register struct {
	n     int
	pos   map[wires.Wire]int
	state []complex128
}

func newRegister(ws wires.Wires) *register {
	r := &register{
		n:     len(ws),
		pos:   make(map[wires.Wire]int, len(ws)),
		state: make([]complex128, 1<<len(ws)),
	}
	for i, w := range ws {
		r.pos[w] = i
	}
	r.state[0] = 1
	return r
}

func (r *register) mask(w wires.Wire) int {
	return 1 << (r.n - 1 - r.pos[w])
}

func (s *Simulator) run(t *tape.Tape) (*num.Tensor, error) {
	tw := t.Wires()
	if len(s.ws) > 0 {
		for _, w := range tw {
			if !s.ws.Contains(w) {
				return nil, wires.Errorf("wire %v not found on device", w)
			}
		}
	}

	r := newRegister(tw)
	for _, o := range t.Operations() {
		if err := r.apply(o); err != nil {
			return nil, err
		}
	}

	ms := t.Measurements()
	if len(ms) == 0 {
		return nil, fmt.Errorf("tape has no measurements")
	}
	results := make([]*num.Tensor, len(ms))
	for i, m := range ms {
		res, err := r.measure(m, tw)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	if len(results) == 1 {
		return results[0], nil
	}
	vals := make([]float64, len(results))
	for i, res := range results {
		if !res.IsScalar() {
			return nil, fmt.Errorf("cannot mix %s with scalar measurements on one tape", ms[i].Kind())
		}
		vals[i] = res.Float()
	}
	return num.Vector(vals...), nil
}

// Gate application.

func (r *register) apply(o ops.Operation) error {
	switch o.Kind() {
	case ops.Hadamard:
		h := complex(1/math.Sqrt2, 0)
		r.apply1(o.Wires()[0], [2][2]complex128{{h, h}, {h, -h}})
	case ops.PauliX:
		r.apply1(o.Wires()[0], pauliMatrix(ops.AxisX))
	case ops.PauliY:
		r.apply1(o.Wires()[0], pauliMatrix(ops.AxisY))
	case ops.PauliZ:
		r.apply1(o.Wires()[0], pauliMatrix(ops.AxisZ))
	case ops.S:
		r.apply1(o.Wires()[0], [2][2]complex128{{1, 0}, {0, complex(0, 1)}})
	case ops.T:
		r.apply1(o.Wires()[0], [2][2]complex128{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}})
	case ops.RX:
		th := o.Params()[0].Float() / 2
		c, sn := complex(math.Cos(th), 0), complex(0, -math.Sin(th))
		r.apply1(o.Wires()[0], [2][2]complex128{{c, sn}, {sn, c}})
	case ops.RY:
		th := o.Params()[0].Float() / 2
		c, sn := complex(math.Cos(th), 0), complex(math.Sin(th), 0)
		r.apply1(o.Wires()[0], [2][2]complex128{{c, -sn}, {sn, c}})
	case ops.RZ:
		th := o.Params()[0].Float() / 2
		r.apply1(o.Wires()[0], [2][2]complex128{
			{cmplx.Exp(complex(0, -th)), 0},
			{0, cmplx.Exp(complex(0, th))},
		})
	case ops.PhaseShift:
		th := o.Params()[0].Float()
		r.apply1(o.Wires()[0], [2][2]complex128{{1, 0}, {0, cmplx.Exp(complex(0, th))}})
	case ops.Rot:
		dec, _ := o.Decomposition()
		for _, sub := range dec {
			if err := r.apply(sub); err != nil {
				return err
			}
		}
	case ops.CNOT:
		r.applyControlled1(o.Wires()[0], o.Wires()[1], pauliMatrix(ops.AxisX))
	case ops.CY:
		r.applyControlled1(o.Wires()[0], o.Wires()[1], pauliMatrix(ops.AxisY))
	case ops.CZ:
		r.applyControlled1(o.Wires()[0], o.Wires()[1], pauliMatrix(ops.AxisZ))
	case ops.SWAP:
		ma, mb := r.mask(o.Wires()[0]), r.mask(o.Wires()[1])
		for i := range r.state {
			if i&ma != 0 && i&mb == 0 {
				j := i &^ ma | mb
				r.state[i], r.state[j] = r.state[j], r.state[i]
			}
		}
	case ops.MultiRZ:
		th := o.Params()[0].Float() / 2
		masks := make([]int, len(o.Wires()))
		for i, w := range o.Wires() {
			masks[i] = r.mask(w)
		}
		for i := range r.state {
			z := 1.0
			for _, m := range masks {
				if i&m != 0 {
					z = -z
				}
			}
			r.state[i] *= cmplx.Exp(complex(0, -th*z))
		}
	case ops.IsingZZ:
		th := o.Params()[0].Float() / 2
		ma, mb := r.mask(o.Wires()[0]), r.mask(o.Wires()[1])
		for i := range r.state {
			z := 1.0
			if i&ma != 0 {
				z = -z
			}
			if i&mb != 0 {
				z = -z
			}
			r.state[i] *= cmplx.Exp(complex(0, -th*z))
		}
	case ops.IsingXX:
		th := o.Params()[0].Float() / 2
		c, sn := complex(math.Cos(th), 0), complex(0, -math.Sin(th))
		flip := r.mask(o.Wires()[0]) | r.mask(o.Wires()[1])
		next := make([]complex128, len(r.state))
		for i := range r.state {
			next[i] = c*r.state[i] + sn*r.state[i^flip]
		}
		r.state = next
	case ops.QubitUnitary:
		return r.applyMatrix(o.Matrix(), o.Wires())
	case ops.ControlledWord:
		control := o.Wires()[0]
		for _, f := range o.Word() {
			r.applyControlled1(control, f.Wire, pauliMatrix(f.Axis))
		}
	default:
		return fmt.Errorf("unsupported operation %s", o.Name())
	}
	return nil
}

func pauliMatrix(a ops.Axis) [2][2]complex128 {
	switch a {
	case ops.AxisX:
		return [2][2]complex128{{0, 1}, {1, 0}}
	case ops.AxisY:
		return [2][2]complex128{{0, complex(0, -1)}, {complex(0, 1), 0}}
	default:
		return [2][2]complex128{{1, 0}, {0, -1}}
	}
}

func (r *register) apply1(w wires.Wire, m [2][2]complex128) {
	mask := r.mask(w)
	for i := range r.state {
		if i&mask == 0 {
			a0, a1 := r.state[i], r.state[i|mask]
			r.state[i] = m[0][0]*a0 + m[0][1]*a1
			r.state[i|mask] = m[1][0]*a0 + m[1][1]*a1
		}
	}
}

func (r *register) applyControlled1(control, target wires.Wire, m [2][2]complex128) {
	cm, tm := r.mask(control), r.mask(target)
	for i := range r.state {
		if i&cm != 0 && i&tm == 0 {
			a0, a1 := r.state[i], r.state[i|tm]
			r.state[i] = m[0][0]*a0 + m[0][1]*a1
			r.state[i|tm] = m[1][0]*a0 + m[1][1]*a1
		}
	}
}

// applyMatrix applies a dense unitary over the given wires.
func (r *register) applyMatrix(m [][]complex128, ws wires.Wires) error {
	k := len(ws)
	dim := 1 << k
	if len(m) != dim {
		return fmt.Errorf("matrix dimension %d does not match %d wires", len(m), k)
	}
	masks := make([]int, k)
	for i, w := range ws {
		masks[i] = r.mask(w)
	}
	visited := make([]bool, len(r.state))
	idx := make([]int, dim)
	amp := make([]complex128, dim)
	for base := range r.state {
		if visited[base] {
			continue
		}
		// Only handle indices with all target bits clear; the rest of
		// the 2^k block is derived from the masks.
		skip := false
		for _, mask := range masks {
			if base&mask != 0 {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		for j := 0; j < dim; j++ {
			off := base
			for b := 0; b < k; b++ {
				if j&(1<<(k-1-b)) != 0 {
					off |= masks[b]
				}
			}
			idx[j] = off
			amp[j] = r.state[off]
			visited[off] = true
		}
		for row := 0; row < dim; row++ {
			var sum complex128
			for col := 0; col < dim; col++ {
				sum += m[row][col] * amp[col]
			}
			r.state[idx[row]] = sum
		}
	}
	return nil
}

// Measurement evaluation.

func (r *register) measure(m tape.Measurement, tw wires.Wires) (*num.Tensor, error) {
	switch m.Kind() {
	case tape.Expval:
		obs, _ := m.Observable()
		e, _, err := r.moments(obs)
		if err != nil {
			return nil, err
		}
		return num.Scalar(e), nil
	case tape.Variance:
		obs, _ := m.Observable()
		e, e2, err := r.moments(obs)
		if err != nil {
			return nil, err
		}
		return num.Scalar(e2 - e*e), nil
	case tape.Probability:
		ws := m.Wires()
		if len(ws) == 0 {
			ws = tw
		}
		return r.probs(ws), nil
	}
	return nil, fmt.Errorf("measurement %s not supported by the analytic simulator", m.Kind())
}

// moments returns the first and second moment of the observable in the
// current state.
func (r *register) moments(obs ops.Observable) (float64, float64, error) {
	phi := append([]complex128(nil), r.state...)
	tmp := &register{n: r.n, pos: r.pos, state: phi}
	if obs.IsWord() {
		for _, f := range obs.Word() {
			tmp.apply1(f.Wire, pauliMatrix(f.Axis))
		}
		e := overlap(r.state, tmp.state)
		// Pauli words square to the identity.
		return e, 1, nil
	}
	if err := tmp.applyMatrix(obs.Matrix(), obs.Wires()); err != nil {
		return 0, 0, err
	}
	e := overlap(r.state, tmp.state)
	e2 := overlap(tmp.state, tmp.state)
	return e, e2, nil
}

// overlap returns Re<a|b>.
func overlap(a, b []complex128) float64 {
	s := 0.0
	for i := range a {
		s += real(cmplx.Conj(a[i]) * b[i])
	}
	return s
}

// probs returns the joint computational-basis probabilities over the
// given wires, marginalizing the rest. The first wire is the most
// significant bit of the outcome index.
func (r *register) probs(ws wires.Wires) *num.Tensor {
	k := len(ws)
	masks := make([]int, k)
	for i, w := range ws {
		masks[i] = r.mask(w)
	}
	out := make([]float64, 1<<k)
	for i, a := range r.state {
		key := 0
		for b, mask := range masks {
			if i&mask != 0 {
				key |= 1 << (k - 1 - b)
			}
		}
		out[key] += real(a)*real(a) + imag(a)*imag(a)
	}
	return num.Vector(out...)
}
