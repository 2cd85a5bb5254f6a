// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/ops"
	"github.com/jkanem/pennylane/wires"
)

func recordBasic(t *testing.T) *Tape {
	t.Helper()
	tp, err := Record(func(q *Queue) {
		q.Apply(ops.NewHadamard(0))
		q.Apply(ops.NewRX(num.Var(0.5), 0))
		q.Apply(ops.NewCNOT(0, 1))
		q.Expval(ops.Z(1))
	})
	require.NoError(t, err)
	return tp
}

func TestRecord_Order(t *testing.T) {
	tp := recordBasic(t)
	operations := tp.Operations()
	require.Len(t, operations, 3)
	assert.Equal(t, ops.Hadamard, operations[0].Kind())
	assert.Equal(t, ops.RX, operations[1].Kind())
	assert.Equal(t, ops.CNOT, operations[2].Kind())

	ms := tp.Measurements()
	require.Len(t, ms, 1)
	assert.Equal(t, Expval, ms[0].Kind())
	obs, ok := ms[0].Observable()
	require.True(t, ok)
	assert.Equal(t, "Z(1)", obs.Name())
}

func TestRecord_OperationAfterMeasurement(t *testing.T) {
	_, err := Record(func(q *Queue) {
		q.Apply(ops.NewHadamard(0))
		q.Expval(ops.Z(0))
		q.Apply(ops.NewPauliX(0))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PauliX")
}

func TestTape_Wires(t *testing.T) {
	tp, err := Record(func(q *Queue) {
		q.Apply(ops.NewCNOT(2, 0))
		q.Apply(ops.NewRY(num.Lit(0.1), "aux"))
		q.Probs(0, 5)
	})
	require.NoError(t, err)
	assert.Equal(t, wires.Wires{2, 0, "aux", 5}, tp.Wires())
}

func TestTrainableParams_Default(t *testing.T) {
	tp, err := Record(func(q *Queue) {
		q.Apply(ops.NewRX(num.Var(0.1), 0))
		q.Apply(ops.NewRY(num.Lit(0.2), 0))
		q.Apply(ops.NewRZ(num.Var(0.3), 0))
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, tp.TrainableParams())

	params := tp.GetParameters(true)
	require.Len(t, params, 2)
	assert.InDelta(t, 0.1, params[0].Float(), 1e-12)
	assert.InDelta(t, 0.3, params[1].Float(), 1e-12)
}

func TestTrainableParams_FallbackAll(t *testing.T) {
	tp, err := Record(func(q *Queue) {
		q.Apply(ops.NewRX(num.Lit(0.1), 0))
		q.Apply(ops.NewRY(num.Lit(0.2), 0))
	})
	require.NoError(t, err)
	// Plain literals carry no trainability metadata; everything is
	// trainable.
	assert.Equal(t, []int{0, 1}, tp.TrainableParams())
}

func TestSetTrainableParams(t *testing.T) {
	tp := recordBasic(t)
	require.NoError(t, tp.SetTrainableParams([]int{0}))
	assert.Equal(t, []int{0}, tp.TrainableParams())

	err := tp.SetTrainableParams([]int{3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestCopy_Independent(t *testing.T) {
	tp := recordBasic(t)
	cp := tp.Copy()

	require.NoError(t, cp.SetTrainableParams([]int{}))
	assert.Empty(t, cp.TrainableParams())
	// The original's trainable set is unaffected.
	assert.Equal(t, []int{0}, tp.TrainableParams())

	// Structure is shared but equal.
	assert.Equal(t, len(tp.Operations()), len(cp.Operations()))
	assert.Equal(t, len(tp.Measurements()), len(cp.Measurements()))
}

func TestWithParameters(t *testing.T) {
	tp := recordBasic(t)
	shifted, err := tp.WithParameters(true, []*num.Value{num.Lit(1.5)})
	require.NoError(t, err)

	assert.InDelta(t, 1.5, shifted.GetParameters(false)[0].Float(), 1e-12)
	// The original tape still holds the unshifted value.
	assert.InDelta(t, 0.5, tp.GetParameters(false)[0].Float(), 1e-12)

	_, err = tp.WithParameters(true, nil)
	require.Error(t, err)
}

func TestExpand_StopAtEverything(t *testing.T) {
	tp := recordBasic(t)
	expanded, err := tp.Expand(func(ops.Operation) bool { return true })
	require.NoError(t, err)

	in, out := tp.Operations(), expanded.Operations()
	require.Equal(t, len(in), len(out))
	for i := range in {
		assert.Equal(t, in[i].Kind(), out[i].Kind())
		assert.True(t, in[i].Wires().Equal(out[i].Wires()))
	}
}

func TestExpand_Rot(t *testing.T) {
	tp, err := Record(func(q *Queue) {
		q.Apply(ops.NewRot(num.Var(0.1), num.Var(0.2), num.Var(0.3), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)

	expanded, err := tp.Expand(func(o ops.Operation) bool {
		return o.Kind() != ops.Rot
	})
	require.NoError(t, err)

	operations := expanded.Operations()
	require.Len(t, operations, 3)
	assert.Equal(t, ops.RZ, operations[0].Kind())
	assert.Equal(t, ops.RY, operations[1].Kind())
	assert.Equal(t, ops.RZ, operations[2].Kind())
	// Measurements survive expansion.
	assert.Len(t, expanded.Measurements(), 1)
}

func TestExpand_Recursive(t *testing.T) {
	tp, err := Record(func(q *Queue) {
		q.Apply(ops.NewIsingXX(num.Var(0.3), 0, 1))
	})
	require.NoError(t, err)

	// Expanding with a never-satisfied predicate recurses until every
	// operation is terminal: CNOT RX CNOT.
	expanded, err := tp.Expand(func(o ops.Operation) bool { return false })
	require.NoError(t, err)
	operations := expanded.Operations()
	require.Len(t, operations, 3)
	assert.Equal(t, ops.CNOT, operations[0].Kind())
	assert.Equal(t, ops.RX, operations[1].Kind())
	assert.Equal(t, ops.CNOT, operations[2].Kind())
}

// TestExpand_CarriesTrainableOverride tests that an explicit trainable
// set survives expansion, since decompositions keep the flattened
// parameter list intact.
func TestExpand_CarriesTrainableOverride(t *testing.T) {
	tp, err := Record(func(q *Queue) {
		q.Apply(ops.NewRot(num.Var(0.1), num.Var(0.2), num.Var(0.3), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)
	require.NoError(t, tp.SetTrainableParams([]int{1}))

	expanded, err := tp.Expand(func(o ops.Operation) bool {
		return o.Kind() != ops.Rot
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, expanded.TrainableParams())
	require.Len(t, expanded.GetParameters(true), 1)
	assert.InDelta(t, 0.2, expanded.GetParameters(true)[0].Float(), 1e-12)
}

func TestFingerprint(t *testing.T) {
	tp := recordBasic(t)
	f1, err := tp.Fingerprint()
	require.NoError(t, err)
	f2, err := tp.Copy().Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, f1, f2)

	shifted, err := tp.WithParameters(true, []*num.Value{num.Lit(0.500001)})
	require.NoError(t, err)
	f3, err := shifted.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, f1, f3)
}

func TestMeasurement_Builders(t *testing.T) {
	m := ExpvalOf(ops.X(0))
	assert.Equal(t, Expval, m.Kind())
	assert.Equal(t, wires.Wires{0}, m.Wires())

	p := ProbsOf(1, 0)
	assert.Equal(t, Probability, p.Kind())
	_, ok := p.Observable()
	assert.False(t, ok)
	assert.Equal(t, wires.Wires{1, 0}, p.Wires())
}
