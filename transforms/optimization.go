// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package transforms

import (
	"github.com/jkanem/pennylane/ops"
	"github.com/jkanem/pennylane/tape"
	"github.com/jkanem/pennylane/wires"
)

// CancelInverses removes adjacent self-inverse gate pairs from the
// tape's operation sequence. Two operations cancel when they are the
// same self-inverse gate on the same full wire set with no surviving
// operation between them on any of those wires; a cancelled pair is
// transparent, so pairs enclosing it cancel too, making the pass
// idempotent. Wire order must match exactly for asymmetric gates (a
// CNOT and its reverse do not cancel); gates that are symmetric under
// wire permutation cancel on the wire set alone. Measurements and
// surviving-operation order are preserved.
func CancelInverses(t *tape.Tape) *tape.Tape {
	in := t.Operations()
	cancelled := make([]bool, len(in))
	// stacks tracks, per wire, the surviving operations touching it,
	// most recent last.
	stacks := map[wires.Wire][]int{}

	for i, o := range in {
		if p, ok := cancelPartner(in, stacks, o); ok {
			cancelled[p] = true
			cancelled[i] = true
			for _, w := range in[p].Wires() {
				s := stacks[w]
				stacks[w] = s[:len(s)-1]
			}
			continue
		}
		for _, w := range o.Wires() {
			stacks[w] = append(stacks[w], i)
		}
	}

	var out []ops.Operation
	for i, o := range in {
		if !cancelled[i] {
			out = append(out, o)
		}
	}
	return tape.FromOps(out, t.Measurements())
}

// cancelPartner finds the single most-recent surviving operation that o
// cancels against: it must sit on top of every one of o's wire stacks
// and match o's kind and full wire set.
func cancelPartner(in []ops.Operation, stacks map[wires.Wire][]int, o ops.Operation) (int, bool) {
	if !o.SelfInverse() {
		return 0, false
	}
	ws := o.Wires()
	prior := -1
	for _, w := range ws {
		s := stacks[w]
		if len(s) == 0 {
			return 0, false
		}
		top := s[len(s)-1]
		if prior == -1 {
			prior = top
		} else if prior != top {
			return 0, false
		}
	}
	if prior == -1 {
		return 0, false
	}
	cand := in[prior]
	if cand.Kind() != o.Kind() {
		return 0, false
	}
	if o.SymmetricWires() {
		if !cand.Wires().EqualSet(ws) {
			return 0, false
		}
	} else if !cand.Wires().Equal(ws) {
		return 0, false
	}
	return prior, true
}
