// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(freq, amp float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = amp * math.Cos(freq*float64(i))
	}
	return s
}

func noise(rnd *rand.Rand, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = rnd.NormFloat64()
	}
	return s
}

func TestSpectrum(t *testing.T) {
	// bin 8 of a 64 point transform
	freq := 2 * math.Pi * 8 / 64
	m := Spectrum(cosine(freq, 1, 64))
	require.Len(t, m, 33)
	assert.InDelta(t, .5, m[8], 1e-9)
	assert.InDelta(t, 0, m[3], 1e-9)
}

func TestSpectralIdentical(t *testing.T) {
	x := noise(rand.New(rand.NewSource(1)), 128)

	lsd, err := LogSpectralDistance(x, x)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lsd)

	db, err := SpectralMSEdB(x, x)
	require.NoError(t, err)
	assert.Equal(t, 0.0, db)

	linear, err := SpectralMSE(x, x)
	require.NoError(t, err)
	assert.Equal(t, 0.0, linear)

	// ratio 1 gives 1 - log(1) = 1 in every bin
	is, err := ItakuraSaito(x, x)
	require.NoError(t, err)
	assert.InDelta(t, 1, is, 1e-12)
}

func TestSpectralScaled(t *testing.T) {
	x := noise(rand.New(rand.NewSource(2)), 100)
	y := make([]float64, len(x))
	for i := range x {
		y[i] = 10 * x[i]
	}
	// a factor of 10 in amplitude is 20 dB in power
	lsd, err := LogSpectralDistance(y, x)
	require.NoError(t, err)
	assert.InDelta(t, 20, lsd, 1e-9)

	db, err := SpectralMSEdB(y, x)
	require.NoError(t, err)
	assert.InDelta(t, 400, db, 1e-7)

	is, err := ItakuraSaito(y, x)
	require.NoError(t, err)
	assert.InDelta(t, 100-math.Log(100), is, 1e-9)
}

func TestSpectralShape(t *testing.T) {
	_, err := LogSpectralDistance([]float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, ErrShape)
	_, err = ItakuraSaito(nil, nil)
	require.ErrorIs(t, err, ErrShape)
}

func TestDecibels(t *testing.T) {
	assert.InDelta(t, 20, Decibels(100), 1e-12)
	assert.True(t, math.IsInf(Decibels(0), -1))
	assert.True(t, math.IsNaN(Decibels(-1)))
}

func TestSingle(t *testing.T) {
	target := SingleBatch{
		Freq:   []float64{.25, .5},
		Amp:    []float64{1, 2},
		SNR:    []float64{10, 20},
		Signal: [][]float64{cosine(.25, 1, 32), cosine(.5, 2, 32)},
	}
	predicted := SingleBatch{
		Freq:   []float64{.25, .75},
		Amp:    []float64{1, 1},
		Signal: [][]float64{cosine(.25, 1, 32), cosine(.75, 1, 32)},
	}
	record, err := Single(target, predicted)
	require.NoError(t, err)
	assert.Equal(t, 2, record.Len())

	// an exact estimate has zero error and -Inf decibels
	assert.Equal(t, 0.0, record[FreqMSE][0])
	assert.True(t, math.IsInf(record[FreqMSEdB][0], -1))
	assert.Equal(t, 0.0, record[SignalMSE][0])

	assert.InDelta(t, .0625, record[FreqMSE][1], 1e-12)
	assert.InDelta(t, 1, record[AmpMSE][1], 1e-12)
	assert.InDelta(t, (.0625+1)/2, record[FreqAmpMSE][1], 1e-12)
	assert.InDelta(t, Decibels(.0625), record[FreqMSEdB][1], 1e-12)
	assert.Greater(t, record[SignalMSE][1], 0.0)
	assert.Equal(t, []float64{10, 20}, record[SNR])

	assert.Equal(t, []string{
		AmpMSE, AmpMSEdB, FreqAmpMSE, FreqAmpMSEdB, FreqMSE, FreqMSEdB, SignalMSE, SignalMSEdB, SNR,
	}, record.Names())
}

func TestSingleShape(t *testing.T) {
	_, err := Single(SingleBatch{Freq: []float64{1}, Amp: []float64{1}, Signal: [][]float64{{1}}},
		SingleBatch{Freq: []float64{1, 2}, Amp: []float64{1, 2}, Signal: [][]float64{{1}, {2}}})
	require.ErrorIs(t, err, ErrShape)
	_, err = Single(SingleBatch{Freq: []float64{1}, Signal: [][]float64{{1}}}, SingleBatch{})
	require.ErrorIs(t, err, ErrShape)
}

func TestMinAssignmentCostPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	target, predicted := make([][][]float64, 4), make([][][]float64, 4)
	for b := range target {
		k := 1 + rnd.Intn(6)
		for i := 0; i < k; i++ {
			target[b] = append(target[b], []float64{rnd.Float64(), rnd.Float64()})
		}
		for _, i := range rnd.Perm(k) {
			predicted[b] = append(predicted[b], target[b][i])
		}
	}
	costs, err := MinAssignmentCost(target, predicted)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, costs)

	chamfer, err := Chamfer(target, predicted)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, chamfer)
}

func TestMinAssignmentCostOptimal(t *testing.T) {
	target := [][]float64{{0, 1}}
	predicted := [][]float64{{1.1, -.5}}
	costs, err := MinAssignmentCost1D(target, predicted)
	require.NoError(t, err)
	// 0 -> -.5 and 1 -> 1.1
	assert.InDelta(t, (.25+.01)/2, costs[0], 1e-12)
}

func TestMinAssignmentCostCardinality(t *testing.T) {
	_, err := MinAssignmentCost1D([][]float64{{1, 2}}, [][]float64{{1}})
	require.ErrorIs(t, err, ErrCardinality)
	_, err = MinAssignmentCost1D([][]float64{{1}}, [][]float64{{1}, {2}})
	require.ErrorIs(t, err, ErrShape)
}

func TestMinAssignmentCostEmptySide(t *testing.T) {
	_, err := MinAssignmentCost1D([][]float64{{}}, [][]float64{{1}})
	require.ErrorIs(t, err, ErrCardinality)
	_, err = MinAssignmentCost1D([][]float64{{1}, {2}}, [][]float64{{1}, {}})
	require.ErrorIs(t, err, ErrCardinality)
	_, err = MinAssignmentCost1D([][]float64{{}}, [][]float64{{}})
	require.ErrorIs(t, err, ErrShape)
}

func TestChamferSymmetric(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	for trial := 0; trial < 16; trial++ {
		target, predicted := [][]float64{nil}, [][]float64{nil}
		for i := 0; i < 1+rnd.Intn(5); i++ {
			target[0] = append(target[0], rnd.Float64())
		}
		for i := 0; i < 1+rnd.Intn(5); i++ {
			predicted[0] = append(predicted[0], rnd.Float64())
		}
		a, err := Chamfer1D(target, predicted)
		require.NoError(t, err)
		b, err := Chamfer1D(predicted, target)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestChamferManyToOne(t *testing.T) {
	d, err := Chamfer1D([][]float64{{0, 0}}, [][]float64{{0, 1}})
	require.NoError(t, err)
	// target -> predicted: 0, 0; predicted -> target: 0, 1
	assert.InDelta(t, .5, d[0], 1e-12)
}

func TestMulti(t *testing.T) {
	freq := [][]float64{{.3, 1.2, 2.5}, {.7, 1.9, 2.8}}
	amp := [][]float64{{1, 1, 1}, {1, 1, 1}}
	signal := make([][]float64, len(freq))
	for b := range freq {
		signal[b] = make([]float64, 64)
		for _, f := range freq[b] {
			for n, value := range cosine(f, 1, 64) {
				signal[b][n] += value
			}
		}
	}
	target := MultiBatch{Freq: freq, Amp: amp, Signal: signal}
	shuffled := MultiBatch{
		Freq:   [][]float64{{2.5, .3, 1.2}, {1.9, 2.8, .7}},
		Amp:    amp,
		Signal: signal,
	}
	record, err := Multi(target, shuffled)
	require.NoError(t, err)
	for _, name := range []string{FreqLAP, AmpLAP, FreqChamfer, AmpChamfer, FreqAmpLAP, FreqAmpChamfer, SignalMSE, SpectralDB} {
		assert.Equal(t, []float64{0, 0}, record[name], name)
	}
	assert.True(t, math.IsInf(record[FreqLAPdB][0], -1))

	_, err = Multi(target, MultiBatch{
		Freq:   [][]float64{{1}, {1}},
		Amp:    [][]float64{{1}, {1}},
		Signal: signal,
	})
	require.ErrorIs(t, err, ErrCardinality)
}
