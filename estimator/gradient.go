// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estimator

import (
	"context"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/pointlander/oscillator/osc"
)

// GradientDescent fits x[n] = sum_k a_k Re(z_k^n) to each signal by first
// order optimization of the complex rotations z_k and the amplitudes a_k.
// The gradient of every rotation is normalized to unit magnitude and the
// amplitude gradient is scaled down to unit norm before the optimizer step.
type GradientDescent struct {
	Kernel        osc.Kernel
	Optimizer     Optimizer
	Steps         int
	LearningRate  float64
	InitMagnitude float64
	Seed          int64
	// Autodiff computes the loss gradients with tf32 instead of by hand
	Autodiff bool
}

// Name is gd or autodiff
func (g *GradientDescent) Name() string {
	if g.Autodiff {
		return "autodiff"
	}
	return "gd"
}

// Estimate runs gradient descent independently on every signal
func (g *GradientDescent) Estimate(ctx context.Context, signals [][]float64, sinusoids int) (Estimate, error) {
	if err := checkSignals(signals, sinusoids); err != nil {
		return Estimate{}, err
	}
	if g.Steps <= 0 {
		return Estimate{}, errors.Errorf("estimator: %d steps", g.Steps)
	}
	rnd := rand.New(rand.NewSource(g.Seed))
	estimate := Estimate{
		Freq:   make([][]float64, len(signals)),
		Amp:    make([][]float64, len(signals)),
		Signal: make([][]float64, len(signals)),
		Losses: make([][]float64, len(signals)),
		Steps:  g.Steps,
	}
	for b, signal := range signals {
		var err error
		estimate.Freq[b], estimate.Amp[b], estimate.Signal[b], estimate.Losses[b], err =
			g.fit(ctx, rnd, signal, sinusoids)
		if err != nil {
			return Estimate{}, errors.Wrapf(err, "example %d", b)
		}
	}
	return estimate, nil
}

// fit estimates the sinusoids of one signal. The parameters are laid out
// as [Re z_0, Im z_0, ..., Re z_K-1, Im z_K-1, a_0, ..., a_K-1].
func (g *GradientDescent) fit(ctx context.Context, rnd *rand.Rand, signal []float64, sinusoids int) (freq, amp, synthesized, costs []float64, err error) {
	n, k := len(signal), sinusoids
	magnitude := g.InitMagnitude
	if magnitude == 0 {
		magnitude = 1
	}
	x := make([]float64, 3*k)
	for i := 0; i < k; i++ {
		z := osc.Rotation(math.Pi*rnd.Float64(), magnitude)
		x[2*i], x[2*i+1] = real(z), imag(z)
		x[2*k+i] = rnd.Float64()
	}

	var loss objective = mse{target: signal}
	if g.Autodiff {
		loss = newGraph(signal, k)
	}
	optimizer := newState(g.Optimizer, g.LearningRate, len(x))
	rotations, amplitudes := make([]complex128, k), x[2*k:]
	basis, gradients := make([][]float64, k), make([]complex128, k)
	d := make([]float64, len(x))
	costs = make([]float64, 0, g.Steps)

	forward := func() error {
		for i := range rotations {
			rotations[i] = complex(x[2*i], x[2*i+1])
			if basis[i], err = g.Kernel.Synthesize(rotations[i], n); err != nil {
				return err
			}
		}
		return nil
	}
	for step := 0; step < g.Steps; step++ {
		if err = ctx.Err(); err != nil {
			return nil, nil, nil, nil, err
		}
		if err = forward(); err != nil {
			return nil, nil, nil, nil, err
		}
		total, dbasis, damp := loss.evaluate(basis, amplitudes)
		costs = append(costs, total)
		for i := range rotations {
			if gradients[i], err = g.Kernel.Backward(rotations[i], dbasis[i]); err != nil {
				return nil, nil, nil, nil, err
			}
		}
		osc.Normalize(gradients)
		for i, grad := range gradients {
			d[2*i], d[2*i+1] = real(grad), imag(grad)
		}
		norm := 0.0
		for _, value := range damp {
			norm += value * value
		}
		norm = math.Sqrt(norm)
		if norm > 1 {
			scaling := 1 / norm
			for i, value := range damp {
				d[2*k+i] = value * scaling
			}
		} else {
			copy(d[2*k:], damp)
		}
		optimizer.step(step, x, d)
	}
	if err = forward(); err != nil {
		return nil, nil, nil, nil, err
	}

	freq, amp = make([]float64, k), make([]float64, k)
	for i, z := range rotations {
		// Re(z^n) is even in the angle
		freq[i], amp[i] = math.Abs(cmplx.Phase(z)), amplitudes[i]
	}
	synthesized = make([]float64, n)
	for i, s := range basis {
		for j, value := range s {
			synthesized[j] += amp[i] * value
		}
	}
	sortByFrequency(freq, amp)
	return freq, amp, synthesized, costs, nil
}
