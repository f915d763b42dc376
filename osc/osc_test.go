// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package osc

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelsAgree(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 32; i++ {
		z := cmplx.Rect(rnd.Float64(), math.Pi*rnd.Float64())
		n := 1 + rnd.Intn(128)
		pow, err := Pow(z, n)
		require.NoError(t, err)
		for _, k := range Kernels {
			s, err := k.Synthesize(z, n)
			require.NoError(t, err)
			require.Len(t, s, n)
			for j := range s {
				assert.InDelta(t, pow[j], s[j], 1e-5, "kernel %s z %v sample %d", k, z, j)
			}
		}
	}
}

func TestUnitRotationIsCosine(t *testing.T) {
	z := cmplx.Exp(complex(0, .7))
	for _, k := range Kernels {
		s, err := k.Synthesize(z, 64)
		require.NoError(t, err)
		for n, value := range s {
			assert.InDelta(t, math.Cos(.7*float64(n)), value, 1e-4, "kernel %s sample %d", k, n)
		}
	}
}

func TestCumprodConstantSequence(t *testing.T) {
	z := complex(.6, .7)
	a, err := Cumprod(Repeat(z, 40))
	require.NoError(t, err)
	b, err := Pow(z, 40)
	require.NoError(t, err)
	assert.InDeltaSlice(t, b, a, 1e-9)
	assert.Equal(t, 1.0, a[0])
}

func TestCumprodTimeVarying(t *testing.T) {
	zs := []complex128{1i, 2, 1i, 7}
	s, err := Cumprod(zs)
	require.NoError(t, err)
	// 1, i, 2i, -2
	assert.InDeltaSlice(t, []float64{1, 0, 0, -2}, s, 1e-12)
}

func TestInvalidSampleCount(t *testing.T) {
	for _, k := range Kernels {
		_, err := k.Synthesize(1, 0)
		require.ErrorIs(t, err, ErrSampleCount)
		_, err = k.Synthesize(1, -3)
		require.ErrorIs(t, err, ErrSampleCount)
	}
	_, err := Cumprod(nil)
	require.ErrorIs(t, err, ErrSampleCount)
	_, err = KernelPow.Batch([][]complex128{{1}}, 0)
	require.ErrorIs(t, err, ErrSampleCount)
}

func TestOverflowPropagates(t *testing.T) {
	s, err := Damped(complex(1e3, 0), 400)
	require.NoError(t, err)
	assert.True(t, math.IsInf(s[399], 1))
}

func TestReduce(t *testing.T) {
	z := [][]complex128{
		{cmplx.Exp(.3i), cmplx.Exp(1.1i)},
		{cmplx.Exp(2.1i), cmplx.Exp(.5i)},
	}
	for _, k := range Kernels {
		batch, err := k.Batch(z, 32)
		require.NoError(t, err)
		require.Len(t, batch, 2)
		require.Len(t, batch[0], 2)

		sum, err := k.Reduce(z, 32)
		require.NoError(t, err)
		require.Len(t, sum, 2)
		for b := range z {
			require.Len(t, sum[b], 32)
			for n := range sum[b] {
				expected := math.Cos(real(-1i*cmplx.Log(z[b][0]))*float64(n)) +
					math.Cos(real(-1i*cmplx.Log(z[b][1]))*float64(n))
				assert.InDelta(t, expected, sum[b][n], 1e-6)
			}
		}
	}
}

func TestReduceWithoutSinusoids(t *testing.T) {
	for _, k := range Kernels {
		sum, err := k.Reduce([][]complex128{{}, {1}}, 8)
		require.NoError(t, err)
		require.Len(t, sum, 2)
		assert.Equal(t, make([]float64, 8), sum[0], k.String())
		assert.Len(t, sum[1], 8, k.String())
	}
}

func TestReduceWeightedShape(t *testing.T) {
	_, err := KernelPow.ReduceWeighted([][]complex128{{1, 1}}, [][]float64{{1}}, 8)
	require.ErrorIs(t, err, ErrShape)

	s, err := KernelDamped.ReduceWeighted([][]complex128{{1, -1}}, [][]float64{{2, 3}}, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, -1, 5}, s[0], 1e-12)
}

func TestCumprodBatch(t *testing.T) {
	z := [][][]complex128{{Repeat(cmplx.Exp(.2i), 16), Repeat(cmplx.Exp(.9i), 16)}}
	out, err := CumprodBatch(z)
	require.NoError(t, err)
	expected, err := KernelPow.Batch([][]complex128{{cmplx.Exp(.2i), cmplx.Exp(.9i)}}, 16)
	require.NoError(t, err)
	for i := range out[0] {
		assert.InDeltaSlice(t, expected[0][i], out[0][i], 1e-9)
	}

	_, err = CumprodBatch([][][]complex128{{Repeat(1, 3), Repeat(1, 4)}})
	require.ErrorIs(t, err, ErrShape)
}

// loss is sum_k g_k s_k so dL/ds_k = g_k
func numericalGradient(t *testing.T, k Kernel, z complex128, g []float64) complex128 {
	const h = 1e-6
	loss := func(z complex128) float64 {
		s, err := k.Synthesize(z, len(g))
		require.NoError(t, err)
		sum := 0.0
		for i, value := range s {
			sum += g[i] * value
		}
		return sum
	}
	dx := (loss(z+complex(h, 0)) - loss(z-complex(h, 0))) / (2 * h)
	dy := (loss(z+complex(0, h)) - loss(z-complex(0, h))) / (2 * h)
	return complex(dx, dy)
}

func TestBackward(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 16; i++ {
		z := cmplx.Rect(.8+.2*rnd.Float64(), math.Pi*rnd.Float64())
		g := make([]float64, 24)
		for j := range g {
			g[j] = 2*rnd.Float64() - 1
		}
		for _, k := range Kernels {
			grad, err := k.Backward(z, g)
			require.NoError(t, err)
			expected := numericalGradient(t, k, z, g)
			assert.InDelta(t, real(expected), real(grad), 1e-4, "kernel %s", k)
			assert.InDelta(t, imag(expected), imag(grad), 1e-4, "kernel %s", k)
		}
	}
}

func TestCumprodBackwardPerSample(t *testing.T) {
	zs := []complex128{complex(.9, .1), complex(.2, .8), complex(-.5, .5), complex(.3, -.4)}
	g := []float64{.5, -1, 2, .25}
	grad, err := CumprodBackward(zs, g)
	require.NoError(t, err)
	require.Len(t, grad, len(zs))
	assert.Equal(t, complex128(0), grad[len(grad)-1])

	const h = 1e-6
	loss := func(zs []complex128) float64 {
		s, err := Cumprod(zs)
		require.NoError(t, err)
		sum := 0.0
		for i, value := range s {
			sum += g[i] * value
		}
		return sum
	}
	for i := range zs {
		shift := func(d complex128) float64 {
			cp := append([]complex128(nil), zs...)
			cp[i] += d
			return loss(cp)
		}
		dx := (shift(complex(h, 0)) - shift(complex(-h, 0))) / (2 * h)
		dy := (shift(complex(0, h)) - shift(complex(0, -h))) / (2 * h)
		assert.InDelta(t, dx, real(grad[i]), 1e-6)
		assert.InDelta(t, dy, imag(grad[i]), 1e-6)
	}

	_, err = CumprodBackward(zs, g[:2])
	require.ErrorIs(t, err, ErrShape)
}

func TestNormalize(t *testing.T) {
	g := []complex128{complex(3, 4), 0, complex(0, -2)}
	Normalize(g)
	assert.InDelta(t, .6, real(g[0]), 1e-12)
	assert.InDelta(t, .8, imag(g[0]), 1e-12)
	assert.Equal(t, complex128(0), g[1])
	assert.Equal(t, complex(0, -1), g[2])
}

func TestParseKernel(t *testing.T) {
	for _, k := range Kernels {
		parsed, err := ParseKernel(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKernel("sawtooth")
	require.Error(t, err)
}

func TestRotation(t *testing.T) {
	z := Rotation(.25, 1)
	assert.InDelta(t, .25, Frequency(z), 1e-12)
	assert.InDelta(t, 1, cmplx.Abs(z), 1e-12)
}
