// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package qnode binds a circuit-producing function to a device.
//
// A QNode owns the circuit function, the device and the execution
// options. Calling it records the function into a fresh tape, executes
// the tape through the runner and returns a differentiable value, so a
// QNode composes with the autodiff layer exactly like a classical
// function of its arguments.
package qnode

import (
	"fmt"

	"github.com/jkanem/pennylane/device"
	"github.com/jkanem/pennylane/execute"
	"github.com/jkanem/pennylane/internal/logger"
	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/tape"
)

// CircuitFn builds a circuit by queuing operations and measurements.
// Arguments arrive as autodiff values; any classical processing between
// an argument and a gate parameter must go through num.Value arithmetic
// for gradients to reach the argument.
type CircuitFn func(q *tape.Queue, args []*num.Value)

// QNode is a quantum node: a circuit function bound to a device with
// fixed execution options.
type QNode struct {
	fn     CircuitFn
	dev    device.Device
	runner *execute.Runner
	log    logger.Logger
}

// New binds a circuit function to a device. Zero option fields take
// their defaults.
func New(fn CircuitFn, dev device.Device, opts execute.Options) (*QNode, error) {
	if fn == nil {
		return nil, fmt.Errorf("qnode: nil circuit function")
	}
	runner, err := execute.New(dev, opts)
	if err != nil {
		return nil, err
	}
	return &QNode{fn: fn, dev: dev, runner: runner, log: runner.Options().Logger}, nil
}

// Device returns the bound device.
func (n *QNode) Device() device.Device { return n.dev }

// Runner returns the execution runner, carrying the QNode's options and
// result cache. Transforms wrapping a QNode execute through it so the
// QNode's differentiation mode, caching and max-diff settings apply.
func (n *QNode) Runner() *execute.Runner { return n.runner }

// Options returns the QNode's resolved execution options.
func (n *QNode) Options() execute.Options { return n.runner.Options() }

// Construct records the circuit function with the given arguments into
// a frozen tape without executing it.
func (n *QNode) Construct(args []*num.Value) (*tape.Tape, error) {
	return tape.Record(func(q *tape.Queue) {
		n.fn(q, args)
	})
}

// Call records and executes the circuit, returning the measurement
// result as a differentiable value.
func (n *QNode) Call(args ...*num.Value) (*num.Value, error) {
	t, err := n.Construct(args)
	if err != nil {
		return nil, err
	}
	res, err := n.runner.Execute([]*tape.Tape{t})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// Grad evaluates the QNode and returns the gradient of its scalar
// output with respect to each argument. When the output does not depend
// on any argument a warning is logged and zero gradients are returned.
func (n *QNode) Grad(args ...*num.Value) ([]*num.Tensor, error) {
	out, err := n.Call(args...)
	if err != nil {
		return nil, err
	}
	if out.Tensor().Size() != 1 {
		return nil, fmt.Errorf("qnode: Grad requires a scalar output, got shape %v; use Jacobian", out.Shape())
	}
	grads := make([]*num.Tensor, len(args))
	if !out.RequiresGrad() {
		n.log.Warn("output seems independent of the input; returning zero gradients")
		for i, a := range args {
			grads[i] = num.Zeros(a.Shape()...)
		}
		return grads, nil
	}
	g := num.Backward(out)
	for i, a := range args {
		grads[i] = g.At(a)
	}
	return grads, nil
}

// Jacobian evaluates the QNode and returns the matrix of partial
// derivatives of each output element with respect to each scalar
// argument, shaped [outputs, arguments].
func (n *QNode) Jacobian(args ...*num.Value) (*num.Tensor, error) {
	out, err := n.Call(args...)
	if err != nil {
		return nil, err
	}
	m := out.Tensor().Size()
	jac := num.Zeros(m, len(args))
	if !out.RequiresGrad() {
		n.log.Warn("output seems independent of the input; returning a zero Jacobian")
		return jac, nil
	}
	flat := out.Reshape(m)
	for i := 0; i < m; i++ {
		g := num.Backward(flat.Index(i))
		for j, a := range args {
			jac.Set(g.At(a).Float(), i, j)
		}
	}
	return jac, nil
}

// ClassicalJacobian returns the Jacobian of the tape's trainable gate
// parameters with respect to the QNode's scalar arguments, shaped
// [trainable params, arguments]. It captures only the classical
// processing between arguments and gate parameters; the circuit is
// never executed.
func (n *QNode) ClassicalJacobian(args []*num.Value) (*num.Tensor, error) {
	t, err := n.Construct(args)
	if err != nil {
		return nil, err
	}
	params := t.GetParameters(true)
	jac := num.Zeros(len(params), len(args))
	for k, p := range params {
		if !p.RequiresGrad() {
			continue
		}
		g := num.Backward(p)
		for j, a := range args {
			jac.Set(g.At(a).Float(), k, j)
		}
	}
	return jac, nil
}
