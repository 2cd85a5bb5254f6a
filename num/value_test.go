// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package num

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBackward_Chain tests gradients through a chained expression.
func TestBackward_Chain(t *testing.T) {
	a := Var(0.7)
	b := Var(-1.3)

	// y = sin(a)*b + a
	y := a.Sin().Mul(b).Add(a)

	grads := Backward(y)
	assert.InDelta(t, math.Cos(0.7)*-1.3+1, grads.At(a).Float(), 1e-12)
	assert.InDelta(t, math.Sin(0.7), grads.At(b).Float(), 1e-12)
}

// TestBackward_FanOut tests gradient accumulation when a value feeds
// two consumers.
func TestBackward_FanOut(t *testing.T) {
	a := Var(0.4)
	y := a.Sin().Add(a.Cos())
	grads := Backward(y)
	assert.InDelta(t, math.Cos(0.4)-math.Sin(0.4), grads.At(a).Float(), 1e-12)
}

// TestBackward_StackIndex tests gradients through stacking and
// extraction.
func TestBackward_StackIndex(t *testing.T) {
	a := Var(1.5)
	b := Var(2.5)
	v := Stack([]*Value{a.Mul(b), a.Add(b)})
	require.Equal(t, []int{2}, v.Shape())

	grads := Backward(v.Index(0))
	assert.InDelta(t, 2.5, grads.At(a).Float(), 1e-12)
	assert.InDelta(t, 1.5, grads.At(b).Float(), 1e-12)

	grads = Backward(v.Index(1))
	assert.InDelta(t, 1.0, grads.At(a).Float(), 1e-12)
	assert.InDelta(t, 1.0, grads.At(b).Float(), 1e-12)
}

// TestBackward_Detach tests that no gradient flows into a detached
// subgraph.
func TestBackward_Detach(t *testing.T) {
	a := Var(0.9)
	y := a.Sin().Detach().Mul(a)
	require.True(t, y.RequiresGrad())

	grads := Backward(y)
	// Only the direct factor contributes; the detached sine is a
	// constant.
	assert.InDelta(t, math.Sin(0.9), grads.At(a).Float(), 1e-12)
}

// TestBackward_MatMul tests matrix product gradients.
func TestBackward_MatMul(t *testing.T) {
	a := Param(New([]int{2, 2}, []float64{1, 2, 3, 4}))
	b := Param(New([]int{2, 2}, []float64{5, 6, 7, 8}))
	y := a.MatMul(b).Sum()

	grads := Backward(y)
	// d(sum(AB))/dA = ones * B^T
	assert.True(t, grads.At(a).AllClose(New([]int{2, 2}, []float64{11, 15, 11, 15}), 1e-12))
	assert.True(t, grads.At(b).AllClose(New([]int{2, 2}, []float64{4, 4, 6, 6}), 1e-12))
}

// TestCustom_VJP tests that externally computed nodes propagate their
// declared vector-Jacobian product.
func TestCustom_VJP(t *testing.T) {
	x := Var(0.3)
	// Pretend an external system computed f(x) = x^2 with df/dx = 2x.
	out := Custom("square", []*Value{x}, Scalar(0.09), func(g *Tensor) []*Tensor {
		return []*Tensor{Scalar(g.Float() * 2 * 0.3)}
	})
	require.True(t, out.RequiresGrad())

	y := out.Scale(5)
	grads := Backward(y)
	assert.InDelta(t, 3.0, grads.At(x).Float(), 1e-12)
}

// TestBackward_NonScalarPanics tests the scalar-root requirement.
func TestBackward_NonScalarPanics(t *testing.T) {
	v := Param(Vector(1, 2, 3))
	assert.Panics(t, func() { Backward(v) })
}

// TestGrads_AtUnreached tests the zero default for unreached leaves.
func TestGrads_AtUnreached(t *testing.T) {
	a := Var(1.0)
	b := Var(2.0)
	grads := Backward(a.Sin())
	assert.Equal(t, 0.0, grads.At(b).Float())
}

func TestTensor_Ops(t *testing.T) {
	v := Vector(1, 2, 3)
	assert.Equal(t, 6.0, v.Sum())
	assert.Equal(t, 14.0, v.Dot(v))
	assert.True(t, v.Scale(2).AllClose(Vector(2, 4, 6), 1e-12))
	assert.True(t, v.Neg().Add(v).AllClose(Zeros(3), 1e-12))

	m := New([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 6.0, m.At(1, 2))
	assert.True(t, m.Transpose().Transpose().AllClose(m, 0))
	assert.Panics(t, func() { v.Add(Vector(1, 2)) })
}
