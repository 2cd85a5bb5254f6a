// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package transforms implements the batch-transform machinery and the
// transforms built on it: the metric tensor and circuit optimization
// passes.
//
// A batch transform rewrites one tape into several auxiliary tapes plus
// a processing function that recombines the raw per-tape results into a
// single final value. Because processing functions are written against
// the num.Value graph, gradients flow end to end through
// transform, execution and recombination without transform-specific
// autodiff code.
package transforms

import (
	"errors"
	"fmt"

	"github.com/jkanem/pennylane/internal/logger"
	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/qnode"
	"github.com/jkanem/pennylane/tape"
)

// TransformFn maps a tape to auxiliary tapes and a processing function.
// A nil processing function selects the default recombination: identity
// for a single tape, summation otherwise.
type TransformFn func(t *tape.Tape) ([]*tape.Tape, ProcessingFn, error)

// ProcessingFn recombines the ordered raw results of the auxiliary
// tapes into the final value.
type ProcessingFn func(results []*num.Value) (*num.Value, error)

// ExpandFn preprocesses a tape before the transform runs, typically by
// expanding operations the transform cannot handle.
type ExpandFn func(t *tape.Tape) (*tape.Tape, error)

// ErrNotCallable is reported when a batch transform is built around a
// nil function.
var ErrNotCallable = errors.New("transform function is not callable")

// BatchTransform wraps a tape-to-tapes rewrite into a reusable
// transform that can be applied to raw tapes or to QNodes.
type BatchTransform struct {
	fn       TransformFn
	expand   ExpandFn
	wrapper  QNodeWrapper
	detach   bool
	disabled bool
	log      logger.Logger
}

// TransformOption configures a BatchTransform at construction.
type TransformOption func(*BatchTransform)

// WithExpandFn installs a preprocessing step that always runs before
// the transform function, whether or not it changes the tape.
func WithExpandFn(fn ExpandFn) TransformOption {
	return func(b *BatchTransform) { b.expand = fn }
}

// NonDifferentiable marks the transform's output as detached from the
// autodiff graph. Differentiating through it yields zero gradients.
func NonDifferentiable() TransformOption {
	return func(b *BatchTransform) { b.detach = true }
}

// Disabled turns the transform into an identity pass-through. Every
// application logs a warning. Callers building documentation or other
// side-effect-free environments set this explicitly.
func Disabled() TransformOption {
	return func(b *BatchTransform) { b.disabled = true }
}

// WithTransformLogger routes the transform's warnings to the given
// logger.
func WithTransformLogger(l logger.Logger) TransformOption {
	return func(b *BatchTransform) { b.log = l }
}

// NewBatchTransform builds a batch transform around fn. A nil fn is
// reported as ErrNotCallable.
func NewBatchTransform(fn TransformFn, opts ...TransformOption) (*BatchTransform, error) {
	if fn == nil {
		return nil, fmt.Errorf("transforms: %w (got nil)", ErrNotCallable)
	}
	b := &BatchTransform{fn: fn, log: logger.Default()}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Construct applies the transform to a tape and returns the auxiliary
// tapes plus the processing function. The expand function, when set, is
// always invoked first. A disabled transform returns the tape unchanged
// with an identity processing function.
func (b *BatchTransform) Construct(t *tape.Tape) ([]*tape.Tape, ProcessingFn, error) {
	if b.disabled {
		b.log.Warn("batch transform is disabled; passing tape through unchanged")
		return []*tape.Tape{t}, identityFn, nil
	}
	if b.expand != nil {
		expanded, err := b.expand(t)
		if err != nil {
			return nil, nil, err
		}
		t = expanded
	}
	tapes, proc, err := b.fn(t)
	if err != nil {
		return nil, nil, err
	}
	if proc == nil {
		if len(tapes) == 1 {
			proc = identityFn
		} else {
			proc = sumFn
		}
	}
	if b.detach {
		inner := proc
		proc = func(results []*num.Value) (*num.Value, error) {
			out, err := inner(results)
			if err != nil {
				return nil, err
			}
			return out.Detach(), nil
		}
	}
	return tapes, proc, nil
}

func identityFn(results []*num.Value) (*num.Value, error) {
	if len(results) != 1 {
		return nil, fmt.Errorf("transforms: identity processing expects one result, got %d", len(results))
	}
	return results[0], nil
}

func sumFn(results []*num.Value) (*num.Value, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("transforms: sum processing of no results")
	}
	out := results[0]
	for _, r := range results[1:] {
		out = out.Add(r)
	}
	return out, nil
}

// Apply constructs the transform's tapes for t, executes them through
// the executor and returns the processed final value.
func (b *BatchTransform) Apply(exec Executor, t *tape.Tape) (*num.Value, error) {
	tapes, proc, err := b.Construct(t)
	if err != nil {
		return nil, err
	}
	results, err := exec.Execute(tapes)
	if err != nil {
		return nil, err
	}
	return proc(results)
}

// Executor dispatches a tape batch and returns one differentiable
// value per tape. A *execute.Runner satisfies it.
type Executor interface {
	Execute(tapes []*tape.Tape) ([]*num.Value, error)
}

// QNodeFn is the calling convention of a wrapped QNode: same arguments,
// transformed result.
type QNodeFn func(args ...*num.Value) (*num.Value, error)

// QNodeWrapper overrides how a transform applies to a QNode. Custom
// wrappers typically add bookkeeping around the default dispatch and
// delegate to DefaultQNodeWrapper for the rest.
type QNodeWrapper func(b *BatchTransform, n *qnode.QNode) QNodeFn

// SetQNodeWrapper installs a custom QNode wrapping hook.
func (b *BatchTransform) SetQNodeWrapper(w QNodeWrapper) { b.wrapper = w }

// WrapQNode returns a callable with the QNode's calling convention
// that, on each call, records the circuit, applies the transform and
// executes the auxiliary tapes with the QNode's own execution options.
func (b *BatchTransform) WrapQNode(n *qnode.QNode) QNodeFn {
	if b.wrapper != nil {
		return b.wrapper(b, n)
	}
	return DefaultQNodeWrapper(b, n)
}

// DefaultQNodeWrapper is the standard QNode dispatch: construct the
// tape from the call arguments, apply the transform and execute through
// the QNode's runner so its differentiation mode and caching apply.
func DefaultQNodeWrapper(b *BatchTransform, n *qnode.QNode) QNodeFn {
	return func(args ...*num.Value) (*num.Value, error) {
		t, err := n.Construct(args)
		if err != nil {
			return nil, err
		}
		return b.Apply(n.Runner(), t)
	}
}
