// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package execute

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jkanem/pennylane/internal/logger"
)

// Differentiation methods accepted by Options.DiffMethod.
const (
	// DiffParamShift selects the analytic parameter-shift rule.
	DiffParamShift = "parameter-shift"
	// DiffFiniteDiff selects numeric finite differences.
	DiffFiniteDiff = "finite-diff"
	// DiffBest selects parameter-shift where every trainable parameter
	// has a known shift rule and finite differences otherwise.
	DiffBest = "best"
)

// Options configures batch execution.
type Options struct {
	// DiffMethod selects the gradient rule: DiffParamShift,
	// DiffFiniteDiff or DiffBest.
	DiffMethod string `yaml:"diff_method"`

	// Shots is the number of device samples per execution; zero means
	// exact (analytic) results where the device supports them.
	Shots int `yaml:"shots"`

	// MaxDiff is the maximum differentiation order the execution must
	// support. Orders above one force finite differences for the outer
	// layers.
	MaxDiff int `yaml:"max_diff"`

	// FiniteDiffStep is the step size h for finite differences.
	FiniteDiffStep float64 `yaml:"finite_diff_step"`

	// FiniteDiffOrder selects forward (1) or central (2) differences.
	FiniteDiffOrder int `yaml:"finite_diff_order"`

	// CacheSize bounds the per-runner result cache in entries. Zero
	// selects the default; negative disables caching.
	CacheSize int `yaml:"cache_size"`

	// Logger receives execution diagnostics and soft-failure warnings.
	Logger logger.Logger `yaml:"-"`
}

// DefaultOptions returns the options used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		DiffMethod:      DiffBest,
		MaxDiff:         1,
		FiniteDiffStep:  1e-7,
		FiniteDiffOrder: 2,
		CacheSize:       1000,
		Logger:          logger.Default(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DiffMethod == "" {
		o.DiffMethod = def.DiffMethod
	}
	if o.MaxDiff == 0 {
		o.MaxDiff = def.MaxDiff
	}
	if o.FiniteDiffStep == 0 {
		o.FiniteDiffStep = def.FiniteDiffStep
	}
	if o.FiniteDiffOrder == 0 {
		o.FiniteDiffOrder = def.FiniteDiffOrder
	}
	if o.CacheSize == 0 {
		o.CacheSize = def.CacheSize
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	return o
}

func (o Options) validate() error {
	switch o.DiffMethod {
	case DiffParamShift, DiffFiniteDiff, DiffBest:
	default:
		return fmt.Errorf("execute: unknown diff method %q", o.DiffMethod)
	}
	if o.FiniteDiffOrder != 1 && o.FiniteDiffOrder != 2 {
		return fmt.Errorf("execute: finite-diff order must be 1 or 2, got %d", o.FiniteDiffOrder)
	}
	return nil
}

// LoadOptions reads execution options from a YAML file. Fields absent
// from the file keep their defaults.
func LoadOptions(path string) (Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("execute: read options: %w", err)
	}
	opts := DefaultOptions()
	if err := yaml.Unmarshal(b, &opts); err != nil {
		return Options{}, fmt.Errorf("execute: parse options: %w", err)
	}
	if err := opts.validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
