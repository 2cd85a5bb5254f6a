// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package num

import (
	"fmt"
	"math"
)

// Value is a node in an eager reverse-mode autodiff graph.
//
// Leaf values are created with Wrap, Lit, Var or Param; composite values
// are produced by the arithmetic methods, each of which records a
// vector-Jacobian product for the backward pass. External computations
// (such as quantum circuit executions) join the graph through Custom.
type Value struct {
	data         *Tensor
	requiresGrad bool
	inputs       []*Value
	vjp          func(g *Tensor) []*Tensor
	op           string
}

// Wrap creates a constant leaf value around a tensor.
func Wrap(t *Tensor) *Value {
	return &Value{data: t, op: "const"}
}

// Lit creates a constant scalar leaf.
func Lit(v float64) *Value { return Wrap(Scalar(v)) }

// Var creates a scalar leaf that requires a gradient.
func Var(v float64) *Value {
	return &Value{data: Scalar(v), requiresGrad: true, op: "var"}
}

// Param creates a tensor leaf that requires a gradient.
func Param(t *Tensor) *Value {
	return &Value{data: t, requiresGrad: true, op: "param"}
}

// Tensor returns the value's data.
func (v *Value) Tensor() *Tensor { return v.data }

// Float returns the data of a scalar value.
func (v *Value) Float() float64 { return v.data.Float() }

// Shape returns the data's shape.
func (v *Value) Shape() []int { return v.data.Shape() }

// RequiresGrad reports whether a gradient will flow to or through this
// value during a backward pass.
func (v *Value) RequiresGrad() bool { return v.requiresGrad }

// Detach returns a constant leaf holding the same data, cut off from
// the autodiff graph. Differentiating through a detached value yields a
// zero gradient.
func (v *Value) Detach() *Value { return Wrap(v.data) }

func anyRequiresGrad(vs []*Value) bool {
	for _, v := range vs {
		if v.requiresGrad {
			return true
		}
	}
	return false
}

func newNode(op string, data *Tensor, inputs []*Value, vjp func(g *Tensor) []*Tensor) *Value {
	return &Value{
		data:         data,
		requiresGrad: anyRequiresGrad(inputs),
		inputs:       inputs,
		vjp:          vjp,
		op:           op,
	}
}

// Custom registers an externally computed result as a graph node. The
// vjp callback receives the gradient of the output and must return one
// gradient tensor per input, in order. It is how quantum executions
// participate in the autodiff graph: the forward result comes from a
// device, the vjp from a gradient rule engine.
func Custom(op string, inputs []*Value, out *Tensor, vjp func(g *Tensor) []*Tensor) *Value {
	return newNode(op, out, inputs, vjp)
}

// Add returns the element-wise sum.
func (v *Value) Add(o *Value) *Value {
	return newNode("add", v.data.Add(o.data), []*Value{v, o}, func(g *Tensor) []*Tensor {
		return []*Tensor{g, g}
	})
}

// Sub returns the element-wise difference.
func (v *Value) Sub(o *Value) *Value {
	return newNode("sub", v.data.Sub(o.data), []*Value{v, o}, func(g *Tensor) []*Tensor {
		return []*Tensor{g, g.Neg()}
	})
}

// Mul returns the element-wise product.
func (v *Value) Mul(o *Value) *Value {
	a, b := v.data, o.data
	return newNode("mul", a.Mul(b), []*Value{v, o}, func(g *Tensor) []*Tensor {
		return []*Tensor{g.Mul(b), g.Mul(a)}
	})
}

// Neg returns the element-wise negation.
func (v *Value) Neg() *Value {
	return newNode("neg", v.data.Neg(), []*Value{v}, func(g *Tensor) []*Tensor {
		return []*Tensor{g.Neg()}
	})
}

// Scale returns the value multiplied by a constant.
func (v *Value) Scale(c float64) *Value {
	return newNode("scale", v.data.Scale(c), []*Value{v}, func(g *Tensor) []*Tensor {
		return []*Tensor{g.Scale(c)}
	})
}

func (v *Value) mapElem(op string, f, df func(float64) float64) *Value {
	out := v.data.Clone()
	for i, x := range out.data {
		out.data[i] = f(x)
	}
	in := v.data
	return newNode(op, out, []*Value{v}, func(g *Tensor) []*Tensor {
		gi := g.Clone()
		for i := range gi.data {
			gi.data[i] *= df(in.data[i])
		}
		return []*Tensor{gi}
	})
}

// Sin returns the element-wise sine.
func (v *Value) Sin() *Value { return v.mapElem("sin", math.Sin, math.Cos) }

// Cos returns the element-wise cosine.
func (v *Value) Cos() *Value {
	return v.mapElem("cos", math.Cos, func(x float64) float64 { return -math.Sin(x) })
}

// Abs returns the element-wise absolute value. The derivative at zero
// is taken as zero.
func (v *Value) Abs() *Value {
	return v.mapElem("abs", math.Abs, func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	})
}

// Sum returns the scalar sum of all elements.
func (v *Value) Sum() *Value {
	in := v.data
	return newNode("sum", Scalar(in.Sum()), []*Value{v}, func(g *Tensor) []*Tensor {
		gi := Zeros(in.Shape()...)
		gv := g.Float()
		for i := range gi.data {
			gi.data[i] = gv
		}
		return []*Tensor{gi}
	})
}

// Reshape returns the value reshaped to the given dimensions.
func (v *Value) Reshape(shape ...int) *Value {
	in := v.data
	return newNode("reshape", in.Reshape(shape...), []*Value{v}, func(g *Tensor) []*Tensor {
		return []*Tensor{g.Reshape(in.Shape()...)}
	})
}

// Transpose returns the transpose of a 2D value.
func (v *Value) Transpose() *Value {
	return newNode("transpose", v.data.Transpose(), []*Value{v}, func(g *Tensor) []*Tensor {
		return []*Tensor{g.Transpose()}
	})
}

// MatMul returns the matrix product of two 2D values.
func (v *Value) MatMul(o *Value) *Value {
	a, b := v.data, o.data
	return newNode("matmul", MatMul(a, b), []*Value{v, o}, func(g *Tensor) []*Tensor {
		return []*Tensor{MatMul(g, b.Transpose()), MatMul(a.Transpose(), g)}
	})
}

// Index extracts the scalar element at the given multi-index.
func (v *Value) Index(idx ...int) *Value {
	in := v.data
	i := append([]int(nil), idx...)
	return newNode("index", Scalar(in.At(i...)), []*Value{v}, func(g *Tensor) []*Tensor {
		gi := Zeros(in.Shape()...)
		gi.Set(g.Float(), i...)
		return []*Tensor{gi}
	})
}

// Stack stacks equally shaped values along a new leading axis. Scalars
// stack into a vector, vectors into a matrix.
func Stack(vs []*Value) *Value {
	ts := make([]*Tensor, len(vs))
	for i, v := range vs {
		ts[i] = v.data
	}
	out := StackTensors(ts)
	inner := ts[0].Size()
	return newNode("stack", out, append([]*Value(nil), vs...), func(g *Tensor) []*Tensor {
		gs := make([]*Tensor, len(vs))
		for i := range vs {
			gs[i] = New(ts[i].Shape(), append([]float64(nil), g.data[i*inner:(i+1)*inner]...))
		}
		return gs
	})
}

// Grads holds the result of a backward pass: a gradient tensor per
// reached leaf value.
type Grads map[*Value]*Tensor

// At returns the gradient accumulated for v, or a zero tensor of v's
// shape if no gradient reached it.
func (g Grads) At(v *Value) *Tensor {
	if t, ok := g[v]; ok {
		return t
	}
	return Zeros(v.data.Shape()...)
}

// Backward computes gradients of a scalar root with respect to every
// leaf in its graph, walking nodes in reverse topological order and
// accumulating gradients where a value fans out, the same way a
// gradient tape replays recorded operations backwards.
func Backward(root *Value) Grads {
	if root.data.Size() != 1 {
		panic(fmt.Sprintf("num: Backward on non-scalar value of shape %v", root.data.Shape()))
	}

	// Topological order via iterative post-order DFS.
	var order []*Value
	seen := map[*Value]bool{}
	var visit func(v *Value)
	visit = func(v *Value) {
		if seen[v] {
			return
		}
		seen[v] = true
		for _, in := range v.inputs {
			visit(in)
		}
		order = append(order, v)
	}
	visit(root)

	grads := Grads{root: Scalar(1).Reshape(root.data.Shape()...)}
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		g, ok := grads[v]
		if !ok || v.vjp == nil {
			continue
		}
		inputGrads := v.vjp(g)
		for j, in := range v.inputs {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[in]; ok {
				grads[in] = existing.Add(inputGrads[j])
			} else {
				grads[in] = inputGrads[j]
			}
		}
	}
	return grads
}
