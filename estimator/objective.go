// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estimator

import (
	"github.com/pointlander/gradient/tf32"
)

// objective measures how well an amplitude weighted sum of basis signals
// matches a target and returns the gradients of that loss with respect to
// every basis sample and every amplitude
type objective interface {
	evaluate(basis [][]float64, amp []float64) (loss float64, dbasis [][]float64, damp []float64)
}

// mse is the mean squared error with a hand written backward pass
type mse struct {
	target []float64
}

func (m mse) evaluate(basis [][]float64, amp []float64) (float64, [][]float64, []float64) {
	n := len(m.target)
	residual := make([]float64, n)
	copy(residual, m.target)
	for k, s := range basis {
		for i, value := range s {
			residual[i] -= amp[k] * value
		}
	}
	loss, dpred := 0.0, make([]float64, n)
	for i, r := range residual {
		loss += r * r
		dpred[i] = -2 * r / float64(n)
	}
	loss /= float64(n)

	dbasis, damp := make([][]float64, len(basis)), make([]float64, len(basis))
	for k, s := range basis {
		dbasis[k] = make([]float64, n)
		for i, value := range s {
			dbasis[k][i] = amp[k] * dpred[i]
			damp[k] += value * dpred[i]
		}
	}
	return loss, dbasis, damp
}

// graph computes the mean squared error of the mixture with the tf32 reverse
// mode autodiff; the oscillator itself stays outside of the graph
type graph struct {
	k, n                 int
	basis, amp, target   tf32.V
	cost                 tf32.Meta
	basisValues, ampVals []float32
}

func newGraph(target []float64, sinusoids int) *graph {
	n := len(target)
	g := &graph{
		k:           sinusoids,
		n:           n,
		basis:       tf32.NewV(sinusoids, n),
		amp:         tf32.NewV(sinusoids),
		target:      tf32.NewV(1, n),
		basisValues: make([]float32, sinusoids*n),
		ampVals:     make([]float32, sinusoids),
	}
	values := make([]float32, n)
	for i, value := range target {
		values[i] = float32(value)
	}
	g.target.Set(values)
	// one row of width 1 per sample so Avg averages over the samples
	mixture := tf32.Mul(g.amp.Meta(), g.basis.Meta())
	g.cost = tf32.Avg(tf32.Quadratic(mixture, g.target.Meta()))
	return g
}

func (g *graph) evaluate(basis [][]float64, amp []float64) (float64, [][]float64, []float64) {
	// one row per sample holding the value of every basis signal
	for k, s := range basis {
		for i, value := range s {
			g.basisValues[i*g.k+k] = float32(value)
		}
		g.ampVals[k] = float32(amp[k])
	}
	g.basis.Set(g.basisValues)
	g.amp.Set(g.ampVals)
	g.basis.Zero()
	g.amp.Zero()
	g.target.Zero()

	// Quadratic is half the squared error
	const scale = 2
	total := tf32.Gradient(g.cost).X[0]

	dbasis, damp := make([][]float64, g.k), make([]float64, g.k)
	for k := range dbasis {
		dbasis[k] = make([]float64, g.n)
		for i := range dbasis[k] {
			dbasis[k][i] = scale * float64(g.basis.D[i*g.k+k])
		}
		damp[k] = scale * float64(g.amp.D[k])
	}
	return scale * float64(total), dbasis, damp
}
