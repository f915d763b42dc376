// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package osc

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// PowBackward computes the conjugate Wirtinger gradient of a real loss
// with respect to z given the loss gradient g with respect to each sample of
// Pow(z, len(g)). Since z^k is holomorphic the result is
// sum_k g_k conj(k z^(k-1)).
func PowBackward(z complex128, g []float64) (complex128, error) {
	if err := checkSamples(len(g)); err != nil {
		return 0, err
	}
	var grad complex128
	for k := 1; k < len(g); k++ {
		fk := float64(k)
		d := complex(fk, 0) * cmplx.Pow(z, complex(fk-1, 0))
		grad += complex(g[k], 0) * cmplx.Conj(d)
	}
	return grad, nil
}

// DampedBackward is the backward pass of Damped. The chain rule runs through
// the polar coordinates r and theta, which is undefined at z = 0.
func DampedBackward(z complex128, g []float64) (complex128, error) {
	if err := checkSamples(len(g)); err != nil {
		return 0, err
	}
	x, y := real(z), imag(z)
	r, theta := cmplx.Abs(z), cmplx.Phase(z)
	var dr, dtheta float64
	for k := 1; k < len(g); k++ {
		fk := float64(k)
		dr += g[k] * fk * math.Pow(r, fk-1) * math.Cos(theta*fk)
		dtheta -= g[k] * fk * math.Pow(r, fk) * math.Sin(theta*fk)
	}
	r2 := r * r
	dx := dr*x/r - dtheta*y/r2
	dy := dr*y/r + dtheta*x/r2
	return complex(dx, dy), nil
}

// CumprodBackward is the backward pass of Cumprod. It returns one gradient
// per rotation of zs; the last one is always zero because the last rotation
// does not contribute to the output.
func CumprodBackward(zs []complex128, g []float64) ([]complex128, error) {
	if err := checkSamples(len(zs)); err != nil {
		return nil, err
	}
	if len(g) != len(zs) {
		return nil, errors.Wrapf(ErrShape, "%d gradients for %d rotations", len(g), len(zs))
	}
	n := len(zs)
	w := make([]complex128, n)
	w[0] = 1
	for k := 1; k < n; k++ {
		w[k] = w[k-1] * zs[k-1]
	}
	grad := make([]complex128, n)
	var acc complex128
	for k := n - 1; k >= 1; k-- {
		acc += complex(g[k], 0)
		grad[k-1] = acc * cmplx.Conj(w[k-1])
		acc *= cmplx.Conj(zs[k-1])
	}
	return grad, nil
}

// Backward computes the gradient of a time invariant rotation for the
// kernel's formulation
func (k Kernel) Backward(z complex128, g []float64) (complex128, error) {
	switch k {
	case KernelPow:
		return PowBackward(z, g)
	case KernelCumprod:
		grad, err := CumprodBackward(Repeat(z, len(g)), g)
		if err != nil {
			return 0, err
		}
		var sum complex128
		for _, d := range grad {
			sum += d
		}
		return sum, nil
	case KernelDamped:
		return DampedBackward(z, g)
	}
	return 0, errors.Errorf("osc: unknown kernel %d", int(k))
}

// Normalize divides every gradient by its own magnitude. Zero gradients are
// left as they are.
func Normalize(g []complex128) {
	for i, d := range g {
		if norm := cmplx.Abs(d); norm != 0 {
			g[i] = d / complex(norm, 0)
		}
	}
}

// Rotation builds the rotation for angular frequency freq in radians per
// sample and per sample magnitude mag
func Rotation(freq, mag float64) complex128 {
	return cmplx.Rect(mag, freq)
}

// Frequency is the angular frequency encoded by z
func Frequency(z complex128) float64 {
	return cmplx.Phase(z)
}
