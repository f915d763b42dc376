// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is the forward normalized magnitude spectrum of a real signal
// over the non-negative frequencies, len(x)/2+1 bins
func Spectrum(x []float64) []float64 {
	coefficients := fourier.NewFFT(len(x)).Coefficients(nil, x)
	n := float64(len(x))
	magnitudes := make([]float64, len(coefficients))
	for i, c := range coefficients {
		magnitudes[i] = cmplx.Abs(c) / n
	}
	return magnitudes
}

// spectra computes the magnitude spectra of a pair of signals
func spectra(x, y []float64) (mx, my []float64, err error) {
	if len(x) == 0 {
		return nil, nil, errors.Wrap(ErrShape, "empty signal")
	}
	if len(x) != len(y) {
		return nil, nil, errors.Wrapf(ErrShape, "signal lengths %d and %d", len(x), len(y))
	}
	return Spectrum(x), Spectrum(y), nil
}

func power(m []float64) []float64 {
	p := make([]float64, len(m))
	for i, value := range m {
		p[i] = value * value
	}
	return p
}

// LogSpectralDistance is the root mean square of the power ratio of the
// spectra of x and y in decibels
func LogSpectralDistance(x, y []float64) (float64, error) {
	mx, my, err := spectra(x, y)
	if err != nil {
		return 0, err
	}
	px, py := power(mx), power(my)
	ratios := make([]float64, len(px))
	for i := range px {
		db := Decibels(px[i] / py[i])
		ratios[i] = db * db
	}
	return math.Sqrt(stat.Mean(ratios, nil)), nil
}

// SpectralMSEdB is the mean squared error between the power spectra of x
// and y in decibels
func SpectralMSEdB(x, y []float64) (float64, error) {
	mx, my, err := spectra(x, y)
	if err != nil {
		return 0, err
	}
	px, py := power(mx), power(my)
	errs := make([]float64, len(px))
	for i := range px {
		d := Decibels(px[i]) - Decibels(py[i])
		errs[i] = d * d
	}
	return stat.Mean(errs, nil), nil
}

// SpectralMSE is the mean squared error between the magnitude spectra of x
// and y
func SpectralMSE(x, y []float64) (float64, error) {
	mx, my, err := spectra(x, y)
	if err != nil {
		return 0, err
	}
	return mse(mx, my), nil
}

// ItakuraSaito is mean(Px/Py - log(Px/Py)) over the power spectra of x and y
func ItakuraSaito(x, y []float64) (float64, error) {
	mx, my, err := spectra(x, y)
	if err != nil {
		return 0, err
	}
	px, py := power(mx), power(my)
	values := make([]float64, len(px))
	for i := range px {
		ratio := px[i] / py[i]
		values[i] = ratio - math.Log(ratio)
	}
	return stat.Mean(values, nil), nil
}
