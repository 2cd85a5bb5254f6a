// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package device defines the execution dispatcher boundary.
//
// The core only requires this contract: a device accepts an ordered
// sequence of tapes and returns one raw numeric result per tape, in
// matching order, with the shape dictated by each tape's measurements.
// Everything else about a backend (hardware control, shot noise,
// remote transport) is opaque to the framework.
package device

import (
	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/tape"
	"github.com/jkanem/pennylane/wires"
)

// Device executes tapes and reports the wires it exposes.
type Device interface {
	// Execute runs the tapes in order and returns one result tensor per
	// tape: a scalar for a single expectation or variance, a vector for
	// multiple scalar measurements or a probability readout.
	Execute(tapes []*tape.Tape) ([]*num.Tensor, error)

	// Wires returns the wires available on the device. An empty result
	// means the device accepts any wire labels.
	Wires() wires.Wires
}
