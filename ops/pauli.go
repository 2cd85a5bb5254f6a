// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package ops

import (
	"strings"

	"github.com/jkanem/pennylane/wires"
)

// Axis is a Pauli axis.
type Axis byte

const (
	AxisX Axis = 'X'
	AxisY Axis = 'Y'
	AxisZ Axis = 'Z'
)

// Factor is a single-qubit Pauli operator acting on one wire.
type Factor struct {
	Axis Axis
	Wire wires.Wire
}

// PauliWord is a tensor product of single-qubit Pauli operators on
// distinct wires. The empty word is the identity.
type PauliWord []Factor

// Wires returns the wires the word acts on, in factor order.
func (pw PauliWord) Wires() wires.Wires {
	ws := make(wires.Wires, len(pw))
	for i, f := range pw {
		ws[i] = f.Wire
	}
	return ws
}

// Diagonalizing returns the gate sequence that rotates each factor into
// the computational (Z) basis: X is diagonalized by H, Y by Z, S, H,
// and Z needs nothing.
func (pw PauliWord) Diagonalizing() []Operation {
	var out []Operation
	for _, f := range pw {
		switch f.Axis {
		case AxisX:
			out = append(out, NewHadamard(f.Wire))
		case AxisY:
			out = append(out, NewPauliZ(f.Wire), NewS(f.Wire), NewHadamard(f.Wire))
		case AxisZ:
			// Already diagonal.
		}
	}
	return out
}

// Eigenvalue returns the word's eigenvalue for a computational basis
// assignment after diagonalization: the product of (1 - 2*bit) over the
// word's wires.
func (pw PauliWord) Eigenvalue(bits map[wires.Wire]int) float64 {
	e := 1.0
	for _, f := range pw {
		if bits[f.Wire] == 1 {
			e = -e
		}
	}
	return e
}

func (pw PauliWord) String() string {
	if len(pw) == 0 {
		return "I"
	}
	parts := make([]string, len(pw))
	for i, f := range pw {
		parts[i] = string(f.Axis) + "(" + strings.Join(wires.Wires{f.Wire}.Strings(), "") + ")"
	}
	return strings.Join(parts, "@")
}
