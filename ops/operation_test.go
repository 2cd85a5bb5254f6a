// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package ops

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/wires"
)

func TestOperation_Basics(t *testing.T) {
	theta := num.Var(0.5)
	op := NewRX(theta, 2)
	assert.Equal(t, RX, op.Kind())
	assert.Equal(t, "RX", op.Name())
	assert.Equal(t, wires.Wires{2}, op.Wires())
	assert.Equal(t, 1, op.NumParams())
	assert.Same(t, theta, op.Params()[0])
}

func TestWithParams(t *testing.T) {
	op := NewRY(num.Lit(0.1), 0)
	shifted := op.WithParams([]*num.Value{num.Lit(0.3)})
	assert.InDelta(t, 0.3, shifted.Params()[0].Float(), 1e-12)
	// The original is untouched.
	assert.InDelta(t, 0.1, op.Params()[0].Float(), 1e-12)

	assert.Panics(t, func() {
		op.WithParams([]*num.Value{num.Lit(1), num.Lit(2)})
	})
}

func TestSelfInverse(t *testing.T) {
	assert.True(t, NewHadamard(0).SelfInverse())
	assert.True(t, NewCNOT(0, 1).SelfInverse())
	assert.True(t, NewSWAP(0, 1).SelfInverse())
	assert.False(t, NewS(0).SelfInverse())
	assert.False(t, NewT(0).SelfInverse())
	assert.False(t, NewRX(num.Lit(0.2), 0).SelfInverse())
}

func TestSymmetricWires(t *testing.T) {
	assert.True(t, NewCZ(0, 1).SymmetricWires())
	assert.True(t, NewSWAP(0, 1).SymmetricWires())
	assert.False(t, NewCNOT(0, 1).SymmetricWires())
	assert.False(t, NewCY(0, 1).SymmetricWires())
}

func TestGenerator_Rotations(t *testing.T) {
	tests := []struct {
		op   Operation
		word PauliWord
	}{
		{NewRX(num.Lit(0.1), 0), PauliWord{{AxisX, 0}}},
		{NewRY(num.Lit(0.1), 1), PauliWord{{AxisY, 1}}},
		{NewRZ(num.Lit(0.1), 2), PauliWord{{AxisZ, 2}}},
		{NewIsingXX(num.Lit(0.1), 0, 1), PauliWord{{AxisX, 0}, {AxisX, 1}}},
		{NewIsingZZ(num.Lit(0.1), 0, 1), PauliWord{{AxisZ, 0}, {AxisZ, 1}}},
		{NewMultiRZ(num.Lit(0.1), 0, 1, 2), PauliWord{{AxisZ, 0}, {AxisZ, 1}, {AxisZ, 2}}},
	}
	for _, tc := range tests {
		gen, err := tc.op.Generator()
		require.NoError(t, err, tc.op.Name())
		assert.Equal(t, -0.5, gen.Coeff, tc.op.Name())
		assert.Equal(t, tc.word, gen.Word, tc.op.Name())
		assert.Equal(t, 0.0, gen.Const, tc.op.Name())
	}
}

func TestGenerator_PhaseShift(t *testing.T) {
	gen, err := NewPhaseShift(num.Lit(0.1), 3).Generator()
	require.NoError(t, err)
	// |1><1| projector: (I - Z)/2.
	assert.Equal(t, -0.5, gen.Coeff)
	assert.Equal(t, 0.5, gen.Const)
	assert.Equal(t, PauliWord{{AxisZ, 3}}, gen.Word)
}

func TestGenerator_Missing(t *testing.T) {
	_, err := NewHadamard(0).Generator()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoGenerator))
	assert.Contains(t, err.Error(), "Hadamard")

	_, err = NewRot(num.Lit(1), num.Lit(2), num.Lit(3), 0).Generator()
	assert.True(t, errors.Is(err, ErrNoGenerator))
}

func TestDecomposition_Rot(t *testing.T) {
	phi, theta, omega := num.Lit(0.1), num.Lit(0.2), num.Lit(0.3)
	dec, ok := NewRot(phi, theta, omega, 1).Decomposition()
	require.True(t, ok)
	require.Len(t, dec, 3)
	assert.Equal(t, RZ, dec[0].Kind())
	assert.Equal(t, RY, dec[1].Kind())
	assert.Equal(t, RZ, dec[2].Kind())
	// The decomposition shares the original parameter values, so
	// trainability metadata survives.
	assert.Same(t, phi, dec[0].Params()[0])
	assert.Same(t, theta, dec[1].Params()[0])
	assert.Same(t, omega, dec[2].Params()[0])
}

func TestDecomposition_MultiRZ(t *testing.T) {
	dec, ok := NewMultiRZ(num.Lit(0.4), 0, 1, 2).Decomposition()
	require.True(t, ok)
	// CNOT ladder down, RZ on the first wire, CNOT ladder back up.
	require.Len(t, dec, 5)
	assert.Equal(t, CNOT, dec[0].Kind())
	assert.Equal(t, CNOT, dec[1].Kind())
	assert.Equal(t, RZ, dec[2].Kind())
	assert.Equal(t, wires.Wires{0}, dec[2].Wires())
	assert.Equal(t, CNOT, dec[3].Kind())
	assert.Equal(t, CNOT, dec[4].Kind())
}

func TestDecomposition_Terminal(t *testing.T) {
	_, ok := NewHadamard(0).Decomposition()
	assert.False(t, ok)
	_, ok = NewRX(num.Lit(0.1), 0).Decomposition()
	assert.False(t, ok)
}

func TestPauliWord_Diagonalizing(t *testing.T) {
	word := PauliWord{{AxisX, 0}, {AxisY, 1}, {AxisZ, 2}}
	gates := word.Diagonalizing()
	require.Len(t, gates, 4)
	assert.Equal(t, Hadamard, gates[0].Kind())
	assert.Equal(t, wires.Wires{0}, gates[0].Wires())
	assert.Equal(t, PauliZ, gates[1].Kind())
	assert.Equal(t, S, gates[2].Kind())
	assert.Equal(t, Hadamard, gates[3].Kind())
	assert.Equal(t, wires.Wires{1}, gates[3].Wires())
}

func TestPauliWord_Eigenvalue(t *testing.T) {
	word := PauliWord{{AxisZ, 0}, {AxisZ, 2}}
	assert.Equal(t, 1.0, word.Eigenvalue(map[wires.Wire]int{0: 0, 1: 1, 2: 0}))
	assert.Equal(t, -1.0, word.Eigenvalue(map[wires.Wire]int{0: 1, 1: 0, 2: 0}))
	assert.Equal(t, 1.0, word.Eigenvalue(map[wires.Wire]int{0: 1, 1: 0, 2: 1}))
	assert.Equal(t, "Z(0)@Z(2)", word.String())
}

func TestControlledWord_Wires(t *testing.T) {
	word := PauliWord{{AxisX, 0}, {AxisZ, 2}}
	op := NewControlledWord(word, "aux")
	assert.Equal(t, wires.Wires{"aux", 0, 2}, op.Wires())
	assert.Equal(t, word, op.Word())
}

func TestObservable(t *testing.T) {
	z := Z(1)
	assert.True(t, z.IsWord())
	assert.Equal(t, wires.Wires{1}, z.Wires())
	assert.Equal(t, "Z(1)", z.Name())

	h := Hermitian([][]complex128{{1, 0}, {0, -1}}, 3)
	assert.False(t, h.IsWord())
	assert.Equal(t, wires.Wires{3}, h.Wires())
	assert.Equal(t, "Hermitian", h.Name())
}
