// Copyright 2026 The pennylane-go Authors. All rights reserved.
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package transforms

import (
	"errors"
	"fmt"

	"github.com/jkanem/pennylane/num"
	"github.com/jkanem/pennylane/ops"
	"github.com/jkanem/pennylane/qnode"
	"github.com/jkanem/pennylane/tape"
	"github.com/jkanem/pennylane/wires"
)

// Metric tensor approximation modes.
const (
	// ApproxFull computes the exact tensor, including cross-layer terms
	// via Hadamard tests on an auxiliary wire.
	ApproxFull = ""
	// ApproxBlockDiag computes the full tensor within each layer and
	// zero across layers.
	ApproxBlockDiag = "block-diag"
	// ApproxDiag computes only the diagonal entries.
	ApproxDiag = "diag"
)

// ErrInvalidApprox is reported for an unknown approximation mode.
var ErrInvalidApprox = errors.New("invalid metric tensor approximation")

type mtConfig struct {
	approx string
	aux    wires.Wire
	hasAux bool
	hybrid bool
}

// MTOption configures the metric tensor transform.
type MTOption func(*mtConfig)

// WithApprox selects the approximation mode: ApproxFull, ApproxBlockDiag
// or ApproxDiag.
func WithApprox(approx string) MTOption {
	return func(c *mtConfig) { c.approx = approx }
}

// WithAuxWire designates the auxiliary wire for Hadamard-test circuits.
// The wire must not be used anywhere in the transformed circuit. Only
// full mode with cross-layer terms needs one.
func WithAuxWire(w wires.Wire) MTOption {
	return func(c *mtConfig) { c.aux = w; c.hasAux = true }
}

// WithoutHybrid returns the tensor in the tape's own parameter space,
// skipping the conjugation by the classical Jacobian of the QNode's
// argument processing. Only meaningful when wrapping a QNode.
func WithoutHybrid() MTOption {
	return func(c *mtConfig) { c.hybrid = false }
}

func mtConfigOf(opts []MTOption) mtConfig {
	cfg := mtConfig{hybrid: true}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// mtLayer groups simultaneously measurable trainable parameters: the
// parametrized operations of one layer act on pairwise disjoint wires
// with no other operation between them, so their generator words can be
// jointly diagonalized in a single subcircuit.
type mtLayer struct {
	pre    []ops.Operation
	words  []ops.PauliWord
	coeffs []float64
	cols   []int // column in trainable-parameter order
	opIdx  []int // position in the expanded operation list
}

func (l mtLayer) paramWires() wires.Wires {
	var ws wires.Wires
	for _, w := range l.words {
		ws = ws.Union(w.Wires())
	}
	return ws
}

// expandForGenerators rewrites the tape so every trainable parametrized
// operation has a directly usable generator, decomposing composites
// such as Rot into elementary rotations.
func expandForGenerators(t *tape.Tape) (*tape.Tape, error) {
	return t.Expand(func(o ops.Operation) bool {
		if o.NumParams() == 0 {
			return true
		}
		_, err := o.Generator()
		return err == nil
	})
}

// partitionLayers walks the expanded operation sequence and groups
// trainable parametrized operations into layers. A trainable operation
// joins the open layer only when its wires are disjoint from the
// layer's parametrized wires and no other operation was queued since
// the layer opened; otherwise it starts a new layer whose pre-ops are
// the full prefix before it.
func partitionLayers(t *tape.Tape) ([]mtLayer, error) {
	trainCols := map[int]int{}
	for c, i := range t.TrainableParams() {
		trainCols[i] = c
	}

	var layers []mtLayer
	var prefix []ops.Operation
	var pendingPre []ops.Operation
	open := false
	var openWires wires.Wires
	flat := 0

	for pos, o := range t.Operations() {
		n := o.NumParams()
		col, trainable := -1, false
		for s := 0; s < n; s++ {
			if c, ok := trainCols[flat+s]; ok {
				col, trainable = c, true
			}
		}
		flat += n

		if !trainable {
			pendingPre = append(pendingPre, o)
			continue
		}
		if n != 1 {
			return nil, fmt.Errorf("transforms: metric tensor: %s carries %d trainable parameters; expansion should have reduced it", o.Name(), n)
		}
		gen, err := o.Generator()
		if err != nil {
			return nil, fmt.Errorf("transforms: metric tensor: %w", err)
		}

		if open && len(pendingPre) == 0 && !openWires.SharesWires(o.Wires()) {
			cur := &layers[len(layers)-1]
			cur.words = append(cur.words, gen.Word)
			cur.coeffs = append(cur.coeffs, gen.Coeff)
			cur.cols = append(cur.cols, col)
			cur.opIdx = append(cur.opIdx, pos)
			openWires = openWires.Union(o.Wires())
			prefix = append(prefix, o)
			continue
		}

		prefix = append(prefix, pendingPre...)
		pendingPre = nil
		layers = append(layers, mtLayer{
			pre:    append([]ops.Operation(nil), prefix...),
			words:  []ops.PauliWord{gen.Word},
			coeffs: []float64{gen.Coeff},
			cols:   []int{col},
			opIdx:  []int{pos},
		})
		openWires = o.Wires().Copy()
		open = true
		prefix = append(prefix, o)
	}
	return layers, nil
}

// pruneAncestors drops pre-ops outside the cone of influence of the
// target wires: walking backwards, an operation is kept only if it
// touches a wire the measurement (transitively) depends on.
func pruneAncestors(pre []ops.Operation, target wires.Wires) []ops.Operation {
	keep := make([]bool, len(pre))
	cone := target.Copy()
	for i := len(pre) - 1; i >= 0; i-- {
		if cone.SharesWires(pre[i].Wires()) {
			keep[i] = true
			cone = cone.Union(pre[i].Wires())
		}
	}
	var out []ops.Operation
	for i, o := range pre {
		if keep[i] {
			out = append(out, o)
		}
	}
	return out
}

// layerTape builds the probability subcircuit for one layer: the pruned
// pre-ops, the diagonalizing gates of every generator word, and a joint
// probability readout over the words' wires. One execution yields every
// first and second moment the layer's block needs.
func layerTape(l mtLayer) (*tape.Tape, wires.Wires) {
	target := l.paramWires()
	sub := pruneAncestors(l.pre, target)
	for _, w := range l.words {
		sub = append(sub, w.Diagonalizing()...)
	}
	return tape.FromOps(sub, []tape.Measurement{tape.ProbsOf(target...)}), target
}

// hadamardTestTape builds the cross-term circuit for parameters at
// operation positions pa < pb with generator words wa, wb: an auxiliary
// wire in superposition controls both words, and its X expectation
// reads out Re<psi| W_a' W_b |psi> with the circuit between the two
// insertion points applied in place.
func hadamardTestTape(allOps []ops.Operation, pa, pb int, wa, wb ops.PauliWord, aux wires.Wire) *tape.Tape {
	var sub []ops.Operation
	sub = append(sub, ops.NewHadamard(aux))
	sub = append(sub, allOps[:pa+1]...)
	sub = append(sub, ops.NewControlledWord(wa, aux))
	sub = append(sub, allOps[pa+1:pb+1]...)
	sub = append(sub, ops.NewControlledWord(wb, aux))
	return tape.FromOps(sub, []tape.Measurement{tape.ExpvalOf(ops.X(aux))})
}

// eigenvector returns the word's eigenvalue for every computational
// basis outcome over the target wires, in readout order.
func eigenvector(word ops.PauliWord, target wires.Wires) *num.Tensor {
	m := len(target)
	out := num.Zeros(1 << m)
	bits := map[wires.Wire]int{}
	for k := 0; k < 1<<m; k++ {
		for j, w := range target {
			bits[w] = (k >> (m - 1 - j)) & 1
		}
		out.Set(word.Eigenvalue(bits), k)
	}
	return out
}

// MetricTensorTapes constructs the Fubini-Study metric tensor transform
// for a tape: auxiliary tapes plus a processing function assembling the
// tensor over the tape's trainable parameters.
//
// Each layer contributes one probability subcircuit covering its whole
// block: diagonal entries are Var(generator) scaled by the squared
// generator coefficient, within-layer off-diagonal entries are the
// covariance of the two generator words. Full mode adds one
// Hadamard-test tape per cross-layer parameter pair and requires an
// unused auxiliary wire; without one, construction fails with a
// WireError naming the requirement.
func MetricTensorTapes(t *tape.Tape, opts ...MTOption) ([]*tape.Tape, ProcessingFn, error) {
	cfg := mtConfigOf(opts)
	return metricTensorTapes(t, cfg)
}

func metricTensorTapes(t *tape.Tape, cfg mtConfig) ([]*tape.Tape, ProcessingFn, error) {
	switch cfg.approx {
	case ApproxFull, ApproxBlockDiag, ApproxDiag:
	default:
		return nil, nil, fmt.Errorf("transforms: %w: %q", ErrInvalidApprox, cfg.approx)
	}

	expanded, err := expandForGenerators(t)
	if err != nil {
		return nil, nil, err
	}
	layers, err := partitionLayers(expanded)
	if err != nil {
		return nil, nil, err
	}
	n := len(expanded.TrainableParams())
	if n == 0 {
		return nil, nil, fmt.Errorf("transforms: metric tensor of a tape with no trainable parameters")
	}

	crossTerms := cfg.approx == ApproxFull && len(layers) > 1
	if crossTerms {
		if !cfg.hasAux {
			return nil, nil, wires.Errorf("metric tensor: an unused auxiliary wire is required for the Hadamard tests of cross-layer terms; none was designated")
		}
		if expanded.Wires().Contains(cfg.aux) {
			return nil, nil, wires.Errorf("metric tensor: auxiliary wire %v is already used by the circuit; Hadamard tests need a free wire", cfg.aux)
		}
	}

	var tapes []*tape.Tape
	type layerRead struct {
		res    int // result index of the layer's probs tape
		evecs  []*num.Tensor
		layer  mtLayer
		target wires.Wires
	}
	reads := make([]layerRead, len(layers))
	for li, l := range layers {
		lt, target := layerTape(l)
		evecs := make([]*num.Tensor, len(l.words))
		for i, w := range l.words {
			evecs[i] = eigenvector(w, target)
		}
		reads[li] = layerRead{res: len(tapes), evecs: evecs, layer: l, target: target}
		tapes = append(tapes, lt)
	}

	type cross struct {
		res    int // result index of the Hadamard-test tape
		la, lb int // layer indices
		ia, ib int // parameter position within each layer
	}
	var crosses []cross
	if crossTerms {
		allOps := expanded.Operations()
		for la := 0; la < len(layers); la++ {
			for lb := la + 1; lb < len(layers); lb++ {
				for ia := range layers[la].words {
					for ib := range layers[lb].words {
						ht := hadamardTestTape(allOps,
							layers[la].opIdx[ia], layers[lb].opIdx[ib],
							layers[la].words[ia], layers[lb].words[ib], cfg.aux)
						crosses = append(crosses, cross{res: len(tapes), la: la, lb: lb, ia: ia, ib: ib})
						tapes = append(tapes, ht)
					}
				}
			}
		}
	}

	diagOnly := cfg.approx == ApproxDiag
	proc := func(results []*num.Value) (*num.Value, error) {
		entries := make([][]*num.Value, n)
		for i := range entries {
			entries[i] = make([]*num.Value, n)
			for j := range entries[i] {
				entries[i][j] = num.Lit(0)
			}
		}

		// First moments per parameter, reused by the cross terms.
		expvals := make([]*num.Value, n)
		for _, r := range reads {
			p := results[r.res]
			for i, ci := range r.layer.cols {
				expvals[ci] = p.Mul(num.Wrap(r.evecs[i])).Sum()
			}
		}

		for _, r := range reads {
			p := results[r.res]
			l := r.layer
			for i, ci := range l.cols {
				for j, cj := range l.cols {
					if diagOnly && i != j {
						continue
					}
					var second *num.Value
					if i == j {
						second = num.Lit(1) // a Pauli word squares to the identity
					} else {
						second = p.Mul(num.Wrap(r.evecs[i].Mul(r.evecs[j]))).Sum()
					}
					cov := second.Sub(expvals[ci].Mul(expvals[cj]))
					entries[ci][cj] = cov.Scale(l.coeffs[i] * l.coeffs[j])
				}
			}
		}

		for _, c := range crosses {
			la, lb := layers[c.la], layers[c.lb]
			ca, cb := la.cols[c.ia], lb.cols[c.ib]
			term := results[c.res].Sub(expvals[ca].Mul(expvals[cb]))
			g := term.Scale(la.coeffs[c.ia] * lb.coeffs[c.ib])
			entries[ca][cb] = g
			entries[cb][ca] = g
		}

		rows := make([]*num.Value, n)
		for i := range rows {
			rows[i] = num.Stack(entries[i])
		}
		return num.Stack(rows), nil
	}

	return tapes, proc, nil
}

// MetricTensorTransform wraps the metric tensor construction as a batch
// transform.
func MetricTensorTransform(opts ...MTOption) (*BatchTransform, error) {
	return NewBatchTransform(func(t *tape.Tape) ([]*tape.Tape, ProcessingFn, error) {
		return MetricTensorTapes(t, opts...)
	})
}

// MetricTensor wraps a QNode and returns a callable evaluating the
// metric tensor at the given arguments. By default the quantum tensor
// is conjugated by the classical Jacobian of the QNode's argument
// processing, so it is expressed with respect to the QNode's own
// arguments; WithoutHybrid returns it in tape-parameter space.
func MetricTensor(n *qnode.QNode, opts ...MTOption) QNodeFn {
	cfg := mtConfigOf(opts)
	return func(args ...*num.Value) (*num.Value, error) {
		t, err := n.Construct(args)
		if err != nil {
			return nil, err
		}
		tapes, proc, err := metricTensorTapes(t, cfg)
		if err != nil {
			return nil, err
		}
		results, err := n.Runner().Execute(tapes)
		if err != nil {
			return nil, err
		}
		g, err := proc(results)
		if err != nil {
			return nil, err
		}
		if !cfg.hybrid {
			return g, nil
		}
		jac, err := n.ClassicalJacobian(args)
		if err != nil {
			return nil, err
		}
		jv := num.Wrap(jac)
		return jv.Transpose().MatMul(g).MatMul(jv), nil
	}
}
