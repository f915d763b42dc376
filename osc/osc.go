// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package osc implements the complex oscillator: a sinusoid generator
// parameterised by a complex rotation z so that the frequency arg(z) can be
// learned with first order methods. Three equivalent formulations of
// Re(z^n) are provided, each with a backward pass returning the conjugate
// Wirtinger gradient dL/dRe(z) + i dL/dIm(z) of a real loss L.
package osc

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

var (
	// ErrSampleCount is returned for a sample count that is not positive
	ErrSampleCount = errors.New("osc: sample count must be > 0")
	// ErrShape is returned for ragged or mismatched batches
	ErrShape = errors.New("osc: shape mismatch")
)

// Kernel selects a formulation of the complex oscillator
type Kernel int

const (
	// KernelPow is direct-power synthesis Re(z^n)
	KernelPow Kernel = iota
	// KernelCumprod is the running product of a rotation sequence
	KernelCumprod
	// KernelDamped is r^n cos(theta n) with r = |z| and theta = arg(z)
	KernelDamped
)

// Kernels the kernels
var Kernels = [...]Kernel{
	KernelPow,
	KernelCumprod,
	KernelDamped,
}

// String converts the kernel to a string
func (k Kernel) String() string {
	switch k {
	case KernelPow:
		return "pow"
	case KernelCumprod:
		return "cumprod"
	case KernelDamped:
		return "damped"
	}
	return "unknown"
}

// ParseKernel finds the kernel with the given name
func ParseKernel(name string) (Kernel, error) {
	for _, k := range Kernels {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, errors.Errorf("osc: unknown kernel %q", name)
}

func checkSamples(n int) error {
	if n <= 0 {
		return errors.Wrapf(ErrSampleCount, "got %d", n)
	}
	return nil
}

// Pow synthesizes Re(z^k) for k = 0..n-1. |z|^n may overflow or underflow
// for large n when |z| is far from 1; the result then holds Inf or NaN.
func Pow(z complex128, n int) ([]float64, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	s := make([]float64, n)
	for k := range s {
		s[k] = real(cmplx.Pow(z, complex(float64(k), 0)))
	}
	return s, nil
}

// Cumprod synthesizes the real part of the running product of zs. The
// product starts from the identity so that sample k holds z_0 z_1 ... z_{k-1}
// and the last rotation of the sequence is never used.
func Cumprod(zs []complex128) ([]float64, error) {
	if err := checkSamples(len(zs)); err != nil {
		return nil, err
	}
	s, w := make([]float64, len(zs)), complex(1, 0)
	for k, z := range zs {
		s[k] = real(w)
		w *= z
	}
	return s, nil
}

// Damped synthesizes r^k cos(theta k) for k = 0..n-1. The phase stays
// bounded, only the magnitude term can blow up.
func Damped(z complex128, n int) ([]float64, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	r, theta := cmplx.Abs(z), cmplx.Phase(z)
	s := make([]float64, n)
	for k := range s {
		fk := float64(k)
		s[k] = math.Pow(r, fk) * math.Cos(theta*fk)
	}
	return s, nil
}

// Repeat returns a rotation sequence holding z n times
func Repeat(z complex128, n int) []complex128 {
	zs := make([]complex128, n)
	for i := range zs {
		zs[i] = z
	}
	return zs
}

// Synthesize generates n samples for a time invariant rotation
func (k Kernel) Synthesize(z complex128, n int) ([]float64, error) {
	switch k {
	case KernelPow:
		return Pow(z, n)
	case KernelCumprod:
		if err := checkSamples(n); err != nil {
			return nil, err
		}
		return Cumprod(Repeat(z, n))
	case KernelDamped:
		return Damped(z, n)
	}
	return nil, errors.Errorf("osc: unknown kernel %d", int(k))
}

// Batch synthesizes a batch x sinusoids array of rotations into a
// batch x sinusoids x n array of signals
func (k Kernel) Batch(z [][]complex128, n int) ([][][]float64, error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	out := make([][][]float64, len(z))
	for b, row := range z {
		out[b] = make([][]float64, len(row))
		for i, value := range row {
			s, err := k.Synthesize(value, n)
			if err != nil {
				return nil, err
			}
			out[b][i] = s
		}
	}
	return out, nil
}

// Reduce synthesizes a batch of rotations and sums along the sinusoid axis
func (k Kernel) Reduce(z [][]complex128, n int) ([][]float64, error) {
	return k.ReduceWeighted(z, nil, n)
}

// ReduceWeighted is Reduce with every sinusoid scaled by its amplitude.
// A nil amp weights every sinusoid by one.
func (k Kernel) ReduceWeighted(z [][]complex128, amp [][]float64, n int) ([][]float64, error) {
	if amp != nil {
		if len(amp) != len(z) {
			return nil, errors.Wrapf(ErrShape, "%d amplitude rows for %d rotation rows", len(amp), len(z))
		}
		for b := range z {
			if len(amp[b]) != len(z[b]) {
				return nil, errors.Wrapf(ErrShape, "example %d: %d amplitudes for %d rotations", b, len(amp[b]), len(z[b]))
			}
		}
	}
	signals, err := k.Batch(z, n)
	if err != nil {
		return nil, err
	}
	return Sum(signals, amp, n), nil
}

// CumprodBatch synthesizes a batch x sinusoids x samples array of time
// varying rotations
func CumprodBatch(z [][][]complex128) ([][][]float64, error) {
	out := make([][][]float64, len(z))
	for b, row := range z {
		out[b] = make([][]float64, len(row))
		for i, zs := range row {
			if len(zs) != len(row[0]) {
				return nil, errors.Wrapf(ErrShape, "example %d: sinusoid %d has %d rotations, want %d", b, i, len(zs), len(row[0]))
			}
			s, err := Cumprod(zs)
			if err != nil {
				return nil, err
			}
			out[b][i] = s
		}
	}
	return out, nil
}

// Sum collapses the sinusoid axis of a batch x sinusoids x samples array of
// n samples, scaling each sinusoid by amp when amp is not nil. An example
// without sinusoids sums to n zeros.
func Sum(signals [][][]float64, amp [][]float64, n int) [][]float64 {
	out := make([][]float64, len(signals))
	for b, row := range signals {
		sum := make([]float64, n)
		for i, s := range row {
			a := 1.0
			if amp != nil {
				a = amp[b][i]
			}
			for j, value := range s {
				sum[j] += a * value
			}
		}
		out[b] = sum
	}
	return out
}
