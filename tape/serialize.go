// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package tape

import (
	"github.com/goccy/go-json"
)

type opJSON struct {
	Name   string      `json:"name"`
	Wires  []string    `json:"wires"`
	Params []float64   `json:"params,omitempty"`
	Matrix [][]float64 `json:"matrix,omitempty"`
}

type measurementJSON struct {
	Kind       string      `json:"kind"`
	Observable string      `json:"observable,omitempty"`
	Wires      []string    `json:"wires"`
	Matrix     [][]float64 `json:"matrix,omitempty"`
}

type tapeJSON struct {
	Operations   []opJSON          `json:"operations"`
	Measurements []measurementJSON `json:"measurements"`
	Trainable    []int             `json:"trainable"`
}

func flattenMatrix(m [][]complex128) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, 0, 2*len(row))
		for _, c := range row {
			out[i] = append(out[i], real(c), imag(c))
		}
	}
	return out
}

// MarshalJSON serializes the tape's structure and parameter values.
// Used for execution-cache fingerprints and inspection; the autodiff
// graph behind the parameters is not preserved.
func (t *Tape) MarshalJSON() ([]byte, error) {
	tj := tapeJSON{
		Operations:   make([]opJSON, len(t.ops)),
		Measurements: make([]measurementJSON, len(t.ms)),
		Trainable:    t.TrainableParams(),
	}
	for i, o := range t.ops {
		oj := opJSON{
			Name:   o.Name(),
			Wires:  o.Wires().Strings(),
			Matrix: flattenMatrix(o.Matrix()),
		}
		for _, p := range o.Params() {
			oj.Params = append(oj.Params, p.Float())
		}
		tj.Operations[i] = oj
	}
	for i, m := range t.ms {
		mj := measurementJSON{
			Kind:  m.Kind().String(),
			Wires: m.Wires().Strings(),
		}
		if obs, ok := m.Observable(); ok {
			mj.Observable = obs.Name()
			mj.Matrix = flattenMatrix(obs.Matrix())
		}
		tj.Measurements[i] = mj
	}
	return json.Marshal(tj)
}

// Fingerprint returns a stable serialization of the tape suitable as a
// cache key: two tapes with the same fingerprint produce the same raw
// execution results.
func (t *Tape) Fingerprint() (string, error) {
	b, err := t.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
