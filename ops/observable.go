// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package ops

import "github.com/jkanem/pennylane/wires"

// Observable is a Hermitian operator measured at the end of a circuit.
// It is either a Pauli word or an explicit Hermitian matrix over a set
// of wires.
type Observable struct {
	word   PauliWord
	matrix [][]complex128
	mwires wires.Wires
}

// X returns the PauliX observable on a wire.
func X(w wires.Wire) Observable { return Observable{word: PauliWord{{AxisX, w}}} }

// Y returns the PauliY observable on a wire.
func Y(w wires.Wire) Observable { return Observable{word: PauliWord{{AxisY, w}}} }

// Z returns the PauliZ observable on a wire.
func Z(w wires.Wire) Observable { return Observable{word: PauliWord{{AxisZ, w}}} }

// WordObservable returns the observable for a Pauli word.
func WordObservable(word PauliWord) Observable { return Observable{word: word} }

// Hermitian returns the observable for an explicit Hermitian matrix of
// dimension 2^len(ws) acting on the given wires.
func Hermitian(m [][]complex128, ws ...wires.Wire) Observable {
	return Observable{matrix: m, mwires: wires.New(ws...)}
}

// IsWord reports whether the observable is a Pauli word.
func (o Observable) IsWord() bool { return o.matrix == nil }

// Word returns the Pauli word of a word observable.
func (o Observable) Word() PauliWord { return o.word }

// Matrix returns the matrix of a Hermitian observable, nil for words.
func (o Observable) Matrix() [][]complex128 { return o.matrix }

// Wires returns the wires the observable acts on.
func (o Observable) Wires() wires.Wires {
	if o.IsWord() {
		return o.word.Wires()
	}
	return o.mwires
}

// Name returns a printable description of the observable.
func (o Observable) Name() string {
	if o.IsWord() {
		return o.word.String()
	}
	return "Hermitian"
}
