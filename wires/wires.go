// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package wires provides the wire label model for quantum circuits.
//
// Wire labels are hashable values, in practice int or string. Labels do
// not need to be contiguous or numeric; a circuit acting on wires
// "aux", 0 and 5 is valid. A Wires value is an ordered, duplicate-free
// sequence of labels.
package wires

import "fmt"

// Wire is a single wire label. Supported label types are int and string.
type Wire = any

// Wires is an ordered, duplicate-free sequence of wire labels.
type Wires []Wire

// WireError reports a structural problem with wire labels, such as a
// missing auxiliary wire or a label not present on a device.
type WireError struct {
	Msg string
}

func (e *WireError) Error() string { return e.Msg }

// Errorf creates a WireError with a formatted message.
func Errorf(format string, args ...any) *WireError {
	return &WireError{Msg: fmt.Sprintf(format, args...)}
}

// New builds a Wires sequence from the given labels, dropping duplicates
// while preserving first-occurrence order.
func New(labels ...Wire) Wires {
	w := make(Wires, 0, len(labels))
	for _, l := range labels {
		if !w.Contains(l) {
			w = append(w, l)
		}
	}
	return w
}

// Contains reports whether the label appears in the sequence.
func (w Wires) Contains(label Wire) bool {
	for _, l := range w {
		if l == label {
			return true
		}
	}
	return false
}

// Index returns the position of the label, or -1 if absent.
func (w Wires) Index(label Wire) int {
	for i, l := range w {
		if l == label {
			return i
		}
	}
	return -1
}

// SharesWires reports whether the two sequences have any label in common.
func (w Wires) SharesWires(other Wires) bool {
	for _, l := range other {
		if w.Contains(l) {
			return true
		}
	}
	return false
}

// Equal reports whether the two sequences hold the same labels in the
// same order.
func (w Wires) Equal(other Wires) bool {
	if len(w) != len(other) {
		return false
	}
	for i := range w {
		if w[i] != other[i] {
			return false
		}
	}
	return true
}

// EqualSet reports whether the two sequences hold the same labels,
// ignoring order.
func (w Wires) EqualSet(other Wires) bool {
	if len(w) != len(other) {
		return false
	}
	for _, l := range other {
		if !w.Contains(l) {
			return false
		}
	}
	return true
}

// Union appends the labels of other that are not already present.
func (w Wires) Union(other Wires) Wires {
	out := w.Copy()
	for _, l := range other {
		if !out.Contains(l) {
			out = append(out, l)
		}
	}
	return out
}

// Copy returns an independent copy of the sequence.
func (w Wires) Copy() Wires {
	out := make(Wires, len(w))
	copy(out, w)
	return out
}

// Strings formats every label with %v, in order. Useful for error
// messages and serialization.
func (w Wires) Strings() []string {
	out := make([]string, len(w))
	for i, l := range w {
		out[i] = fmt.Sprintf("%v", l)
	}
	return out
}
