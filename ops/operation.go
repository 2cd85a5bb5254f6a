// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package ops defines the closed set of circuit operations and
// observables.
//
// Operations form a tagged variant: a Kind enum plus per-kind data
// (wires, parameters, an optional unitary matrix). Every structural
// query (generator lookup, decomposition, self-inverse) is a total
// function over the Kind, with explicit "not available" results, so no
// string-keyed dispatch is needed anywhere in the framework.
//
// An Operation is an immutable value object once constructed. Transforms
// that need a modified operation build a new one (see WithParams).
package ops

import (
	"errors"
	"fmt"

	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/wires"
)

// Kind identifies an operation in the closed gate set.
type Kind int

const (
	Invalid Kind = iota
	Hadamard
	PauliX
	PauliY
	PauliZ
	S
	T
	RX
	RY
	RZ
	Rot
	PhaseShift
	CNOT
	CY
	CZ
	SWAP
	MultiRZ
	IsingXX
	IsingZZ
	QubitUnitary
	// ControlledWord applies a Pauli word to its target wires controlled
	// on an auxiliary wire. It only appears in generated circuits such
	// as Hadamard-test tapes, never in user-recorded ones.
	ControlledWord
)

var kindNames = map[Kind]string{
	Hadamard:       "Hadamard",
	PauliX:         "PauliX",
	PauliY:         "PauliY",
	PauliZ:         "PauliZ",
	S:              "S",
	T:              "T",
	RX:             "RX",
	RY:             "RY",
	RZ:             "RZ",
	Rot:            "Rot",
	PhaseShift:     "PhaseShift",
	CNOT:           "CNOT",
	CY:             "CY",
	CZ:             "CZ",
	SWAP:           "SWAP",
	MultiRZ:        "MultiRZ",
	IsingXX:        "IsingXX",
	IsingZZ:        "IsingZZ",
	QubitUnitary:   "QubitUnitary",
	ControlledWord: "ControlledWord",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Operation is a gate acting on an ordered, duplicate-free sequence of
// wires, carrying zero or more numeric parameters.
type Operation struct {
	kind   Kind
	wires  wires.Wires
	params []*num.Value
	matrix [][]complex128 // QubitUnitary only
	word   PauliWord      // ControlledWord only
}

func newOp(k Kind, ws wires.Wires, params ...*num.Value) Operation {
	return Operation{kind: k, wires: wires.New(ws...), params: params}
}

// Single-qubit non-parametrized gates.

func NewHadamard(w wires.Wire) Operation { return newOp(Hadamard, wires.Wires{w}) }
func NewPauliX(w wires.Wire) Operation   { return newOp(PauliX, wires.Wires{w}) }
func NewPauliY(w wires.Wire) Operation   { return newOp(PauliY, wires.Wires{w}) }
func NewPauliZ(w wires.Wire) Operation   { return newOp(PauliZ, wires.Wires{w}) }
func NewS(w wires.Wire) Operation        { return newOp(S, wires.Wires{w}) }
func NewT(w wires.Wire) Operation        { return newOp(T, wires.Wires{w}) }

// Single-qubit rotations.

func NewRX(theta *num.Value, w wires.Wire) Operation { return newOp(RX, wires.Wires{w}, theta) }
func NewRY(theta *num.Value, w wires.Wire) Operation { return newOp(RY, wires.Wires{w}, theta) }
func NewRZ(theta *num.Value, w wires.Wire) Operation { return newOp(RZ, wires.Wires{w}, theta) }

func NewRot(phi, theta, omega *num.Value, w wires.Wire) Operation {
	return newOp(Rot, wires.Wires{w}, phi, theta, omega)
}

func NewPhaseShift(theta *num.Value, w wires.Wire) Operation {
	return newOp(PhaseShift, wires.Wires{w}, theta)
}

// Two-qubit gates. For asymmetric gates the first wire is the control.

func NewCNOT(control, target wires.Wire) Operation {
	return newOp(CNOT, wires.Wires{control, target})
}

func NewCY(control, target wires.Wire) Operation {
	return newOp(CY, wires.Wires{control, target})
}

func NewCZ(a, b wires.Wire) Operation   { return newOp(CZ, wires.Wires{a, b}) }
func NewSWAP(a, b wires.Wire) Operation { return newOp(SWAP, wires.Wires{a, b}) }

// Multi-qubit parametrized gates.

func NewMultiRZ(theta *num.Value, ws ...wires.Wire) Operation {
	return newOp(MultiRZ, wires.New(ws...), theta)
}

func NewIsingXX(theta *num.Value, a, b wires.Wire) Operation {
	return newOp(IsingXX, wires.Wires{a, b}, theta)
}

func NewIsingZZ(theta *num.Value, a, b wires.Wire) Operation {
	return newOp(IsingZZ, wires.Wires{a, b}, theta)
}

// NewQubitUnitary applies an arbitrary unitary matrix to the given
// wires. The matrix must have dimension 2^len(ws).
func NewQubitUnitary(m [][]complex128, ws ...wires.Wire) Operation {
	op := newOp(QubitUnitary, wires.New(ws...))
	op.matrix = m
	return op
}

// NewControlledWord applies the Pauli word to its own wires, controlled
// on the given auxiliary wire. The control wire is the operation's
// first wire.
func NewControlledWord(word PauliWord, control wires.Wire) Operation {
	op := Operation{
		kind:  ControlledWord,
		wires: wires.New(append(wires.Wires{control}, word.Wires()...)...),
		word:  word,
	}
	return op
}

// Kind returns the operation's kind tag.
func (o Operation) Kind() Kind { return o.kind }

// Name returns the operation's conventional gate name.
func (o Operation) Name() string { return o.kind.String() }

// Wires returns the wires the operation acts on, in order. The control
// wire of an asymmetric gate comes first.
func (o Operation) Wires() wires.Wires { return o.wires }

// Params returns the operation's parameters in declaration order.
func (o Operation) Params() []*num.Value { return o.params }

// NumParams returns the number of parameters.
func (o Operation) NumParams() int { return len(o.params) }

// Matrix returns the unitary of a QubitUnitary operation, nil otherwise.
func (o Operation) Matrix() [][]complex128 { return o.matrix }

// Word returns the Pauli word of a ControlledWord operation.
func (o Operation) Word() PauliWord { return o.word }

// WithParams returns a copy of the operation carrying new parameters.
func (o Operation) WithParams(params []*num.Value) Operation {
	if len(params) != len(o.params) {
		panic(fmt.Sprintf("ops: %s takes %d parameters, got %d", o.Name(), len(o.params), len(params)))
	}
	out := o
	out.params = append([]*num.Value(nil), params...)
	return out
}

// SelfInverse reports whether the operation is its own inverse.
func (o Operation) SelfInverse() bool {
	switch o.kind {
	case Hadamard, PauliX, PauliY, PauliZ, CNOT, CY, CZ, SWAP:
		return true
	}
	return false
}

// SymmetricWires reports whether the operation acts identically under
// any permutation of its wires. CNOT and CY are asymmetric; CZ, SWAP
// and the Ising couplings are symmetric.
func (o Operation) SymmetricWires() bool {
	switch o.kind {
	case CZ, SWAP, IsingXX, IsingZZ, MultiRZ:
		return true
	}
	return len(o.wires) < 2
}

// Decomposition returns the operation expressed as a fixed sequence of
// simpler operations, or false when the operation is terminal.
func (o Operation) Decomposition() ([]Operation, bool) {
	switch o.kind {
	case Rot:
		w := o.wires[0]
		return []Operation{
			NewRZ(o.params[0], w),
			NewRY(o.params[1], w),
			NewRZ(o.params[2], w),
		}, true
	case PhaseShift:
		// Up to a global phase.
		return []Operation{NewRZ(o.params[0], o.wires[0])}, true
	case IsingXX:
		a, b := o.wires[0], o.wires[1]
		return []Operation{NewCNOT(a, b), NewRX(o.params[0], a), NewCNOT(a, b)}, true
	case IsingZZ:
		a, b := o.wires[0], o.wires[1]
		return []Operation{NewCNOT(a, b), NewRZ(o.params[0], b), NewCNOT(a, b)}, true
	case MultiRZ:
		n := len(o.wires)
		if n == 1 {
			return []Operation{NewRZ(o.params[0], o.wires[0])}, true
		}
		var out []Operation
		for i := n - 1; i > 0; i-- {
			out = append(out, NewCNOT(o.wires[i], o.wires[i-1]))
		}
		out = append(out, NewRZ(o.params[0], o.wires[0]))
		for i := 1; i < n; i++ {
			out = append(out, NewCNOT(o.wires[i], o.wires[i-1]))
		}
		return out, true
	}
	return nil, false
}

// ErrNoGenerator is reported when an operation's generator is required
// but the operation does not declare one.
var ErrNoGenerator = errors.New("operation has no generator")

// Generator describes the Hermitian generator of a parametrized
// operation as Coeff * Word + Const * I, so that the operation equals
// exp(i * theta * (Coeff*Word + Const*I)) up to a global phase.
type Generator struct {
	Coeff float64
	Word  PauliWord
	Const float64
}

// Generator returns the operation's generator, or ErrNoGenerator
// (wrapped with the gate name) when the operation does not declare one.
// Operations without a direct generator but with a decomposition, such
// as Rot, are expected to be decomposed first.
func (o Operation) Generator() (Generator, error) {
	switch o.kind {
	case RX:
		return Generator{Coeff: -0.5, Word: PauliWord{{AxisX, o.wires[0]}}}, nil
	case RY:
		return Generator{Coeff: -0.5, Word: PauliWord{{AxisY, o.wires[0]}}}, nil
	case RZ:
		return Generator{Coeff: -0.5, Word: PauliWord{{AxisZ, o.wires[0]}}}, nil
	case PhaseShift:
		// Generator is the |1><1| projector: (I - Z)/2.
		return Generator{Coeff: -0.5, Word: PauliWord{{AxisZ, o.wires[0]}}, Const: 0.5}, nil
	case MultiRZ:
		word := make(PauliWord, len(o.wires))
		for i, w := range o.wires {
			word[i] = Factor{AxisZ, w}
		}
		return Generator{Coeff: -0.5, Word: word}, nil
	case IsingXX:
		return Generator{Coeff: -0.5, Word: PauliWord{{AxisX, o.wires[0]}, {AxisX, o.wires[1]}}}, nil
	case IsingZZ:
		return Generator{Coeff: -0.5, Word: PauliWord{{AxisZ, o.wires[0]}, {AxisZ, o.wires[1]}}}, nil
	}
	return Generator{}, fmt.Errorf("%s: %w", o.Name(), ErrNoGenerator)
}
