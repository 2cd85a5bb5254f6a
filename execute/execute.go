// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package execute dispatches tape batches to a device and wires the raw
// results into the autodiff graph.
//
// A Runner owns a device, a set of execution options and a result
// cache. Execute returns one num.Value per tape; when a tape carries
// trainable parameters the value is a custom graph node whose backward
// pass runs the configured gradient rule engine, so quantum executions
// differentiate like any other numeric operation.
package execute

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jkanem/pennylane/device"
	"github.com/jkanem/pennylane/gradients"
	"github.com/jkanem/pennylane/internal/logger"
	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/tape"
)

// Runner executes tape batches against a single device.
type Runner struct {
	dev   device.Device
	opts  Options
	cache *Cache
	log   logger.Logger
}

// New creates a runner for the device. Zero option fields take their
// defaults.
func New(dev device.Device, opts Options) (*Runner, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	r := &Runner{dev: dev, opts: opts, log: opts.Logger}
	if opts.CacheSize > 0 {
		r.cache = NewCache(opts.CacheSize)
	}
	return r, nil
}

// Device returns the runner's device.
func (r *Runner) Device() device.Device { return r.dev }

// Options returns the runner's resolved options.
func (r *Runner) Options() Options { return r.opts }

// Execute runs the tapes and returns one value per tape, in order. A
// result whose tape has trainable parameters joins the autodiff graph
// with the configured gradient rule as its backward pass; all other
// results are constants.
func (r *Runner) Execute(tapes []*tape.Tape) ([]*num.Value, error) {
	job := uuid.NewString()
	log := r.log.With("job", job)
	log.Debug("executing tape batch",
		"tapes", len(tapes), "diff_method", r.opts.DiffMethod, "shots", r.opts.Shots)

	raw, err := r.execRaw(log, tapes)
	if err != nil {
		return nil, err
	}

	out := make([]*num.Value, len(tapes))
	for i, t := range tapes {
		params := t.GetParameters(true)
		if !requiresGrad(params) {
			out[i] = num.Wrap(raw[i])
			continue
		}
		out[i] = r.differentiable(log, t, params, raw[i])
	}
	return out, nil
}

func requiresGrad(params []*num.Value) bool {
	for _, p := range params {
		if p.RequiresGrad() {
			return true
		}
	}
	return false
}

// differentiable wraps a raw result in a graph node whose vjp builds
// and executes the gradient tapes on demand.
func (r *Runner) differentiable(log logger.Logger, t *tape.Tape, params []*num.Value, raw *num.Tensor) *num.Value {
	vjp := func(g *num.Tensor) []*num.Tensor {
		gtapes, post, err := r.gradientTapes(t)
		if err == nil {
			var res []*num.Tensor
			res, err = r.execRaw(log, gtapes)
			if err == nil {
				var cols []*num.Tensor
				cols, err = post(res)
				if err == nil {
					grads := make([]*num.Tensor, len(params))
					for k := range params {
						if k < len(cols) {
							grads[k] = num.Scalar(g.Dot(cols[k]))
						}
					}
					return grads
				}
			}
		}
		log.Error("gradient evaluation failed; propagating zero gradients", "error", err)
		return make([]*num.Tensor, len(params))
	}
	return num.Custom("qexec", params, raw, vjp)
}

// gradientTapes selects the rule engine for the tape per the runner's
// diff method.
func (r *Runner) gradientTapes(t *tape.Tape) ([]*tape.Tape, gradients.PostFn, error) {
	cfg := gradients.Config{
		Step:   r.opts.FiniteDiffStep,
		Order:  r.opts.FiniteDiffOrder,
		Logger: r.log,
	}
	method := r.opts.DiffMethod
	if method == DiffBest {
		if r.opts.MaxDiff > 1 || !shiftRuleCovers(t) {
			method = DiffFiniteDiff
		} else {
			method = DiffParamShift
		}
	}
	switch method {
	case DiffParamShift:
		return gradients.ParamShift(t, cfg)
	case DiffFiniteDiff:
		return gradients.FiniteDiff(t, cfg)
	}
	return nil, nil, fmt.Errorf("execute: unknown diff method %q", method)
}

// shiftRuleCovers reports whether the two-term shift rule is exact for
// the tape: every trainable parameter's operation must have a
// generator, and every measurement must be linear in the state
// (variance is quadratic in expectations, so its shift rule differs).
func shiftRuleCovers(t *tape.Tape) bool {
	for _, m := range t.Measurements() {
		if m.Kind() == tape.Variance {
			return false
		}
	}
	flat := 0
	trainable := map[int]bool{}
	for _, i := range t.TrainableParams() {
		trainable[i] = true
	}
	for _, o := range t.Operations() {
		n := o.NumParams()
		covered := true
		if _, err := o.Generator(); err != nil {
			covered = false
		}
		for s := 0; s < n; s++ {
			if trainable[flat+s] && !covered {
				return false
			}
		}
		flat += n
	}
	return true
}

// execRaw runs tapes through the device, serving repeats from the
// cache. Results enter the cache keyed by tape fingerprint.
func (r *Runner) execRaw(log logger.Logger, tapes []*tape.Tape) ([]*num.Tensor, error) {
	if len(tapes) == 0 {
		return nil, nil
	}
	if r.cache == nil {
		return r.dev.Execute(tapes)
	}

	out := make([]*num.Tensor, len(tapes))
	keys := make([]string, len(tapes))
	var misses []*tape.Tape
	var missIdx []int
	hits := 0
	for i, t := range tapes {
		key, err := t.Fingerprint()
		if err != nil {
			return nil, fmt.Errorf("execute: fingerprint tape %d: %w", i, err)
		}
		keys[i] = key
		if cached, ok := r.cache.Get(key); ok {
			out[i] = cached
			hits++
			continue
		}
		misses = append(misses, t)
		missIdx = append(missIdx, i)
	}
	log.Debug("cache lookup", "hits", hits, "misses", len(misses))

	if len(misses) > 0 {
		res, err := r.dev.Execute(misses)
		if err != nil {
			return nil, err
		}
		for k, i := range missIdx {
			out[i] = res[k]
			r.cache.Put(keys[i], res[k])
		}
	}
	return out, nil
}
