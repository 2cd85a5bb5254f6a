// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package wires

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Dedup(t *testing.T) {
	w := New(0, 1, 0, "aux", 1)
	assert.Equal(t, Wires{0, 1, "aux"}, w)
}

func TestWires_Queries(t *testing.T) {
	w := New(0, 5, "aux")
	assert.True(t, w.Contains("aux"))
	assert.False(t, w.Contains(2))
	assert.Equal(t, 1, w.Index(5))
	assert.Equal(t, -1, w.Index(7))
	assert.True(t, w.SharesWires(Wires{7, 5}))
	assert.False(t, w.SharesWires(Wires{7, 8}))
}

func TestWires_Equality(t *testing.T) {
	assert.True(t, Wires{0, 1}.Equal(Wires{0, 1}))
	assert.False(t, Wires{0, 1}.Equal(Wires{1, 0}))
	assert.True(t, Wires{0, 1}.EqualSet(Wires{1, 0}))
	assert.False(t, Wires{0, 1}.EqualSet(Wires{1, 2}))
}

func TestWires_Union(t *testing.T) {
	w := Wires{0, 1}.Union(Wires{1, 2})
	assert.Equal(t, Wires{0, 1, 2}, w)
}

func TestErrorf(t *testing.T) {
	err := Errorf("wire %v not found", "aux")
	assert.Equal(t, "wire aux not found", err.Error())
}
