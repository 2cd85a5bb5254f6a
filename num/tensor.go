// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package num provides the minimal numeric backend the framework's
// processing functions are written against.
//
// Two layers are exposed:
//
//   - Tensor: a dense float64 array with a shape, used for raw device
//     results and gradient arithmetic.
//   - Value: a node in an eager reverse-mode autodiff graph wrapping a
//     Tensor. All result post-processing (stacking, summation,
//     reshaping) is expressed in Value operations so that gradients flow
//     through transform processing functions without backend-specific
//     code.
//
// Shape mismatches in Tensor and Value operations are programmer errors
// and panic with a descriptive message; user-facing validation happens
// in the tape and transform layers.
package num

import (
	"fmt"
	"math"
)

// Tensor is a dense float64 array. A zero-dimensional shape denotes a
// scalar holding exactly one element.
type Tensor struct {
	shape []int
	data  []float64
}

// New creates a tensor from a shape and flat data in row-major order.
func New(shape []int, data []float64) *Tensor {
	if len(data) != sizeOf(shape) {
		panic(fmt.Sprintf("num: shape %v requires %d elements, got %d", shape, sizeOf(shape), len(data)))
	}
	return &Tensor{shape: append([]int(nil), shape...), data: data}
}

// Scalar creates a zero-dimensional tensor holding v.
func Scalar(v float64) *Tensor {
	return &Tensor{shape: nil, data: []float64{v}}
}

// Vector creates a one-dimensional tensor from the given values.
func Vector(vs ...float64) *Tensor {
	data := append([]float64(nil), vs...)
	return &Tensor{shape: []int{len(vs)}, data: data}
}

// Zeros creates a tensor of the given shape filled with zeros.
func Zeros(shape ...int) *Tensor {
	return &Tensor{shape: append([]int(nil), shape...), data: make([]float64, sizeOf(shape))}
}

// Eye creates an n-by-n identity matrix.
func Eye(n int) *Tensor {
	t := Zeros(n, n)
	for i := 0; i < n; i++ {
		t.data[i*n+i] = 1
	}
	return t
}

func sizeOf(shape []int) int {
	size := 1
	for _, d := range shape {
		size *= d
	}
	return size
}

// Shape returns the tensor's dimensions. The returned slice must not be
// mutated.
func (t *Tensor) Shape() []int { return t.shape }

// Size returns the total number of elements.
func (t *Tensor) Size() int { return len(t.data) }

// IsScalar reports whether the tensor is zero-dimensional.
func (t *Tensor) IsScalar() bool { return len(t.shape) == 0 }

// Float returns the value of a scalar tensor.
func (t *Tensor) Float() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("num: Float on tensor of shape %v", t.shape))
	}
	return t.data[0]
}

// Data returns the underlying flat data. The returned slice must not be
// mutated.
func (t *Tensor) Data() []float64 { return t.data }

// At returns the element at the given multi-index.
func (t *Tensor) At(idx ...int) float64 {
	return t.data[t.offset(idx)]
}

// Set assigns the element at the given multi-index.
func (t *Tensor) Set(v float64, idx ...int) {
	t.data[t.offset(idx)] = v
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("num: index %v on tensor of shape %v", idx, t.shape))
	}
	off := 0
	for i, d := range t.shape {
		if idx[i] < 0 || idx[i] >= d {
			panic(fmt.Sprintf("num: index %v out of range for shape %v", idx, t.shape))
		}
		off = off*d + idx[i]
	}
	return off
}

// Clone returns an independent copy.
func (t *Tensor) Clone() *Tensor {
	return New(t.shape, append([]float64(nil), t.data...))
}

// Reshape returns a view-copy with a new shape of the same total size.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	if sizeOf(shape) != len(t.data) {
		panic(fmt.Sprintf("num: cannot reshape %v into %v", t.shape, shape))
	}
	return New(shape, append([]float64(nil), t.data...))
}

// Transpose returns the transpose of a 2D tensor.
func (t *Tensor) Transpose() *Tensor {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("num: Transpose on tensor of shape %v", t.shape))
	}
	r, c := t.shape[0], t.shape[1]
	out := Zeros(c, r)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[j*r+i] = t.data[i*c+j]
		}
	}
	return out
}

func (t *Tensor) sameShape(o *Tensor, op string) {
	if len(t.data) != len(o.data) {
		panic(fmt.Sprintf("num: %s on tensors of shape %v and %v", op, t.shape, o.shape))
	}
}

// Add returns the element-wise sum.
func (t *Tensor) Add(o *Tensor) *Tensor {
	t.sameShape(o, "Add")
	out := t.Clone()
	for i := range out.data {
		out.data[i] += o.data[i]
	}
	return out
}

// Sub returns the element-wise difference.
func (t *Tensor) Sub(o *Tensor) *Tensor {
	t.sameShape(o, "Sub")
	out := t.Clone()
	for i := range out.data {
		out.data[i] -= o.data[i]
	}
	return out
}

// Mul returns the element-wise product.
func (t *Tensor) Mul(o *Tensor) *Tensor {
	t.sameShape(o, "Mul")
	out := t.Clone()
	for i := range out.data {
		out.data[i] *= o.data[i]
	}
	return out
}

// Scale returns the tensor multiplied by a scalar.
func (t *Tensor) Scale(c float64) *Tensor {
	out := t.Clone()
	for i := range out.data {
		out.data[i] *= c
	}
	return out
}

// Neg returns the element-wise negation.
func (t *Tensor) Neg() *Tensor { return t.Scale(-1) }

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float64 {
	s := 0.0
	for _, v := range t.data {
		s += v
	}
	return s
}

// Dot returns the inner product of two tensors of equal size.
func (t *Tensor) Dot(o *Tensor) float64 {
	t.sameShape(o, "Dot")
	s := 0.0
	for i := range t.data {
		s += t.data[i] * o.data[i]
	}
	return s
}

// MatMul returns the matrix product of two 2D tensors.
func MatMul(a, b *Tensor) *Tensor {
	if len(a.shape) != 2 || len(b.shape) != 2 || a.shape[1] != b.shape[0] {
		panic(fmt.Sprintf("num: MatMul on shapes %v and %v", a.shape, b.shape))
	}
	m, k, n := a.shape[0], a.shape[1], b.shape[1]
	out := Zeros(m, n)
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			av := a.data[i*k+l]
			if av == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out.data[i*n+j] += av * b.data[l*n+j]
			}
		}
	}
	return out
}

// StackTensors stacks equally shaped tensors along a new leading axis.
// Scalars stack into a vector.
func StackTensors(ts []*Tensor) *Tensor {
	if len(ts) == 0 {
		panic("num: StackTensors of nothing")
	}
	inner := ts[0].shape
	data := make([]float64, 0, len(ts)*ts[0].Size())
	for _, t := range ts {
		t.sameShape(ts[0], "StackTensors")
		data = append(data, t.data...)
	}
	shape := append([]int{len(ts)}, inner...)
	return New(shape, data)
}

// AllClose reports whether two tensors have the same shape and all
// elements within tol of each other.
func (t *Tensor) AllClose(o *Tensor, tol float64) bool {
	if len(t.data) != len(o.data) {
		return false
	}
	for i := range t.data {
		if math.Abs(t.data[i]-o.data[i]) > tol {
			return false
		}
	}
	return true
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, data=%v)", t.shape, t.data)
}
