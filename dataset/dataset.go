// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset samples ground truth sinusoid parameters and the noisy
// signals they generate
package dataset

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/pointlander/oscillator/osc"
)

// ErrRange is returned for an invalid sampling range
var ErrRange = errors.New("dataset: invalid range")

// Sampler draws sums of zero phase cosines
type Sampler struct {
	// Sinusoids per example
	Sinusoids int
	// Samples per signal
	Samples int
	// MinFreq and MaxFreq bound the angular frequency in radians per sample
	MinFreq, MaxFreq float64
	// MinAmp and MaxAmp bound the amplitude
	MinAmp, MaxAmp float64
	// SNR is the signal to noise ratio in decibels, +Inf for clean signals
	SNR float64
}

// Batch is a batch of ground truth examples
type Batch struct {
	Freq   [][]float64
	Amp    [][]float64
	Clean  [][]float64
	Signal [][]float64
	SNR    []float64
}

// Len is the batch size
func (b Batch) Len() int {
	return len(b.Freq)
}

// Validate checks the sampler configuration
func (s Sampler) Validate() error {
	switch {
	case s.Sinusoids <= 0:
		return errors.Wrapf(ErrRange, "sinusoids %d", s.Sinusoids)
	case s.Samples <= 0:
		return errors.Wrapf(ErrRange, "samples %d", s.Samples)
	case s.MinFreq < 0 || s.MaxFreq > math.Pi || s.MinFreq > s.MaxFreq:
		return errors.Wrapf(ErrRange, "frequency [%f, %f] not within [0, pi]", s.MinFreq, s.MaxFreq)
	case s.MinAmp > s.MaxAmp:
		return errors.Wrapf(ErrRange, "amplitude [%f, %f]", s.MinAmp, s.MaxAmp)
	case math.IsNaN(s.SNR):
		return errors.Wrap(ErrRange, "snr is NaN")
	}
	return nil
}

// Sample draws a batch of examples
func (s Sampler) Sample(rnd *rand.Rand, size int) (Batch, error) {
	if err := s.Validate(); err != nil {
		return Batch{}, err
	}
	if size <= 0 {
		return Batch{}, errors.Wrapf(ErrRange, "batch size %d", size)
	}
	uniform := func(a, b float64) float64 {
		return (b-a)*rnd.Float64() + a
	}

	batch := Batch{
		Freq: make([][]float64, size),
		Amp:  make([][]float64, size),
		SNR:  make([]float64, size),
	}
	z := make([][]complex128, size)
	for b := 0; b < size; b++ {
		batch.Freq[b], batch.Amp[b] = make([]float64, s.Sinusoids), make([]float64, s.Sinusoids)
		z[b] = make([]complex128, s.Sinusoids)
		for k := 0; k < s.Sinusoids; k++ {
			batch.Freq[b][k] = uniform(s.MinFreq, s.MaxFreq)
			batch.Amp[b][k] = uniform(s.MinAmp, s.MaxAmp)
			z[b][k] = osc.Rotation(batch.Freq[b][k], 1)
		}
		batch.SNR[b] = s.SNR
	}

	clean, err := osc.KernelDamped.ReduceWeighted(z, batch.Amp, s.Samples)
	if err != nil {
		return Batch{}, err
	}
	batch.Clean = clean
	batch.Signal = make([][]float64, size)
	for b, signal := range clean {
		batch.Signal[b] = AddNoise(rnd, signal, s.SNR)
	}
	return batch, nil
}

// AddNoise returns a copy of signal with white gaussian noise at snr
// decibels relative to the signal power
func AddNoise(rnd *rand.Rand, signal []float64, snr float64) []float64 {
	noisy := append([]float64(nil), signal...)
	if math.IsInf(snr, 1) {
		return noisy
	}
	p := 0.0
	for _, value := range signal {
		p += value * value
	}
	p /= float64(len(signal))
	sigma := math.Sqrt(p / math.Pow(10, snr/10))
	for i := range noisy {
		noisy[i] += sigma * rnd.NormFloat64()
	}
	return noisy
}
