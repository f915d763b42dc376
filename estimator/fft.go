// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estimator

import (
	"context"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT picks the largest peaks of the zero padded magnitude spectrum
type FFT struct {
	// Pad is the zero padding factor, values below 1 mean no padding
	Pad int
}

// Name is fft
func (f *FFT) Name() string {
	return "fft"
}

// Estimate estimates the sinusoids of every signal from its spectrum
func (f *FFT) Estimate(ctx context.Context, signals [][]float64, sinusoids int) (Estimate, error) {
	if err := checkSignals(signals, sinusoids); err != nil {
		return Estimate{}, err
	}
	pad := f.Pad
	if pad < 1 {
		pad = 1
	}
	estimate := Estimate{
		Freq: make([][]float64, len(signals)),
		Amp:  make([][]float64, len(signals)),
	}
	transforms := make(map[int]*fourier.FFT)
	for b, signal := range signals {
		if err := ctx.Err(); err != nil {
			return Estimate{}, err
		}
		n := len(signal)
		l := n * pad
		transform, ok := transforms[l]
		if !ok {
			transform = fourier.NewFFT(l)
			transforms[l] = transform
		}
		padded := make([]float64, l)
		copy(padded, signal)
		coefficients := transform.Coefficients(nil, padded)
		magnitudes := make([]float64, len(coefficients))
		for i, c := range coefficients {
			magnitudes[i] = cmplx.Abs(c)
		}

		bins := peaks(magnitudes, sinusoids)
		freq, amp := make([]float64, sinusoids), make([]float64, sinusoids)
		for k, bin := range bins {
			freq[k] = 2 * math.Pi * float64(bin) / float64(l)
			amp[k] = 2 * magnitudes[bin] / float64(n)
			if bin == 0 || 2*bin == l {
				amp[k] /= 2
			}
		}
		sortByFrequency(freq, amp)
		estimate.Freq[b], estimate.Amp[b] = freq, amp
	}

	if err := resynthesize(&estimate, signals); err != nil {
		return Estimate{}, err
	}
	return estimate, nil
}

// peaks returns the bins of the count largest local maxima, topped up with
// the largest remaining bins when there are not enough maxima
func peaks(magnitudes []float64, count int) []int {
	var maxima, rest []int
	for i, m := range magnitudes {
		left := i == 0 || m > magnitudes[i-1]
		right := i == len(magnitudes)-1 || m >= magnitudes[i+1]
		if left && right {
			maxima = append(maxima, i)
		} else {
			rest = append(rest, i)
		}
	}
	byMagnitude := func(bins []int) {
		sort.SliceStable(bins, func(i, j int) bool {
			return magnitudes[bins[i]] > magnitudes[bins[j]]
		})
	}
	byMagnitude(maxima)
	if len(maxima) >= count {
		return maxima[:count]
	}
	byMagnitude(rest)
	bins := append(maxima, rest...)
	if len(bins) > count {
		bins = bins[:count]
	}
	for len(bins) < count {
		bins = append(bins, bins[len(bins)-1])
	}
	return bins
}
