// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package gradients

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkanem/pennylane/device/defaultqubit"
	"github.com/jkanem/pennylane/internal/logger"
	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/ops"
	"github.com/jkanem/pennylane/tape"
)

func quietConfig() Config {
	return Config{Logger: logger.Nop()}
}

func evalColumns(t *testing.T, tapes []*tape.Tape, post PostFn) []*num.Tensor {
	t.Helper()
	results, err := defaultqubit.New().Execute(tapes)
	require.NoError(t, err)
	cols, err := post(results)
	require.NoError(t, err)
	return cols
}

// TestParamShift_RX tests the two-term rule against the analytic
// derivative d<Z>/dtheta = -sin(theta).
func TestParamShift_RX(t *testing.T) {
	for _, theta := range []float64{-1.3, 0, 0.432, math.Pi / 2, 2.5} {
		tp, err := tape.Record(func(q *tape.Queue) {
			q.Apply(ops.NewRX(num.Var(theta), 0))
			q.Expval(ops.Z(0))
		})
		require.NoError(t, err)

		tapes, post, err := ParamShift(tp, quietConfig())
		require.NoError(t, err)
		require.Len(t, tapes, 2)

		cols := evalColumns(t, tapes, post)
		require.Len(t, cols, 1)
		assert.InDelta(t, -math.Sin(theta), cols[0].Float(), 1e-10, "theta=%v", theta)
	}
}

// TestParamShift_ShiftValues tests that the auxiliary tapes carry the
// parameter offset by pi/2 for the standard rotation convention.
func TestParamShift_ShiftValues(t *testing.T) {
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewRY(num.Var(0.3), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)

	tapes, _, err := ParamShift(tp, quietConfig())
	require.NoError(t, err)
	require.Len(t, tapes, 2)
	assert.InDelta(t, 0.3+math.Pi/2, tapes[0].GetParameters(false)[0].Float(), 1e-12)
	assert.InDelta(t, 0.3-math.Pi/2, tapes[1].GetParameters(false)[0].Float(), 1e-12)
}

// TestParamShift_TwoParams tests independent columns for a two-parameter
// circuit: <Z> = cos(a)cos(b).
func TestParamShift_TwoParams(t *testing.T) {
	a, b := 0.54, -0.32
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewRX(num.Var(a), 0))
		q.Apply(ops.NewRY(num.Var(b), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)

	tapes, post, err := ParamShift(tp, quietConfig())
	require.NoError(t, err)
	require.Len(t, tapes, 4)

	cols := evalColumns(t, tapes, post)
	require.Len(t, cols, 2)
	assert.InDelta(t, -math.Sin(a)*math.Cos(b), cols[0].Float(), 1e-10)
	assert.InDelta(t, -math.Cos(a)*math.Sin(b), cols[1].Float(), 1e-10)
}

// TestParamShift_PhaseShift tests the rule on a generator with a
// constant offset; the constant contributes nothing to the derivative.
func TestParamShift_PhaseShift(t *testing.T) {
	theta := 0.77
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewHadamard(0))
		q.Apply(ops.NewPhaseShift(num.Var(theta), 0))
		q.Expval(ops.X(0))
	})
	require.NoError(t, err)

	tapes, post, err := ParamShift(tp, quietConfig())
	require.NoError(t, err)
	cols := evalColumns(t, tapes, post)
	require.Len(t, cols, 1)
	// <X> = cos(theta) on the plus state.
	assert.InDelta(t, -math.Sin(theta), cols[0].Float(), 1e-10)
}

// TestParamShift_NoGenerator tests that parameters without a shift rule
// contribute zero columns instead of failing.
func TestParamShift_NoGenerator(t *testing.T) {
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewRot(num.Var(0.1), num.Var(0.2), num.Var(0.3), 0))
		q.Apply(ops.NewRX(num.Var(0.4), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)

	tapes, post, err := ParamShift(tp, quietConfig())
	require.NoError(t, err)
	// Only the RX parameter produces shifted tapes.
	require.Len(t, tapes, 2)

	cols := evalColumns(t, tapes, post)
	require.Len(t, cols, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, cols[i].Float(), "Rot column %d", i)
	}
	assert.NotEqual(t, 0.0, cols[3].Float())
}

// TestParamShift_ZeroColumnShape tests that skipped parameters produce
// zero columns shaped like the tape's own result, even when no
// parameter has a shift rule at all.
func TestParamShift_ZeroColumnShape(t *testing.T) {
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewRot(num.Var(0.1), num.Var(0.2), num.Var(0.3), 0))
		q.Probs(0)
	})
	require.NoError(t, err)

	tapes, post, err := ParamShift(tp, quietConfig())
	require.NoError(t, err)
	assert.Empty(t, tapes)

	cols, err := post(nil)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	for i, c := range cols {
		assert.Equal(t, []int{2}, c.Shape(), "column %d", i)
		assert.Equal(t, []float64{0, 0}, c.Data(), "column %d", i)
	}
}

// TestParamShift_NoTrainable tests the soft-failure path for a tape
// whose trainable set is empty.
func TestParamShift_NoTrainable(t *testing.T) {
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewRX(num.Var(0.5), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)
	require.NoError(t, tp.SetTrainableParams(nil))

	tapes, post, err := ParamShift(tp, quietConfig())
	require.NoError(t, err)
	assert.Empty(t, tapes)

	cols, err := post(nil)
	require.NoError(t, err)
	assert.Empty(t, cols)
}

// TestFiniteDiff_Central tests central differences against the analytic
// derivative.
func TestFiniteDiff_Central(t *testing.T) {
	theta := 0.432
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewRX(num.Var(theta), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)

	tapes, post, err := FiniteDiff(tp, quietConfig())
	require.NoError(t, err)
	require.Len(t, tapes, 2)

	cols := evalColumns(t, tapes, post)
	require.Len(t, cols, 1)
	assert.InDelta(t, -math.Sin(theta), cols[0].Float(), 1e-6)
}

// TestFiniteDiff_Forward tests the forward pattern with its shared
// unshifted tape.
func TestFiniteDiff_Forward(t *testing.T) {
	theta := 0.432
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewRX(num.Var(theta), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)

	cfg := quietConfig()
	cfg.Order = 1
	cfg.Step = 1e-7
	tapes, post, err := FiniteDiff(tp, cfg)
	require.NoError(t, err)
	require.Len(t, tapes, 2)
	// The first tape is the unshifted base point.
	assert.InDelta(t, theta, tapes[0].GetParameters(false)[0].Float(), 1e-12)

	cols := evalColumns(t, tapes, post)
	assert.InDelta(t, -math.Sin(theta), cols[0].Float(), 1e-5)
}

// TestFiniteDiff_Rot tests that finite differences cover parameters the
// shift rule cannot.
func TestFiniteDiff_Rot(t *testing.T) {
	tp, err := tape.Record(func(q *tape.Queue) {
		q.Apply(ops.NewRot(num.Var(0.1), num.Var(0.7), num.Var(0.3), 0))
		q.Expval(ops.Z(0))
	})
	require.NoError(t, err)

	tapes, post, err := FiniteDiff(tp, quietConfig())
	require.NoError(t, err)
	require.Len(t, tapes, 6)

	cols := evalColumns(t, tapes, post)
	require.Len(t, cols, 3)
	// <Z> = cos(theta) for Rot(phi, theta, omega) on |0>: only the
	// middle parameter matters.
	assert.InDelta(t, 0, cols[0].Float(), 1e-6)
	assert.InDelta(t, -math.Sin(0.7), cols[1].Float(), 1e-6)
	assert.InDelta(t, 0, cols[2].Float(), 1e-6)
}
