// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"github.com/pkg/errors"
)

// Metric names of the single sinusoid record
const (
	FreqMSE      = "freq_mse"
	FreqMSEdB    = "freq_mse_db"
	AmpMSE       = "amp_mse"
	AmpMSEdB     = "amp_mse_db"
	FreqAmpMSE   = "freq_amp_mse"
	FreqAmpMSEdB = "freq_amp_mse_db"
	SignalMSE    = "signal_mse"
	SignalMSEdB  = "signal_mse_db"
	SpectralDB   = "spectral_mse_db"
	SNR          = "snr"
)

// SingleBatch holds one sinusoid per example
type SingleBatch struct {
	Freq   []float64
	Amp    []float64
	SNR    []float64
	Signal [][]float64
}

// Len is the batch size
func (s SingleBatch) Len() int {
	return len(s.Freq)
}

func (s SingleBatch) check(name string) error {
	n := len(s.Freq)
	if len(s.Amp) != n || len(s.Signal) != n {
		return errors.Wrapf(ErrShape, "%s: %d frequencies, %d amplitudes, %d signals",
			name, n, len(s.Amp), len(s.Signal))
	}
	if s.SNR != nil && len(s.SNR) != n {
		return errors.Wrapf(ErrShape, "%s: %d snr values for %d examples", name, len(s.SNR), n)
	}
	return nil
}

// Single scores one predicted sinusoid per example against its target
func Single(target, predicted SingleBatch) (Record, error) {
	if err := target.check("target"); err != nil {
		return nil, err
	}
	if err := predicted.check("predicted"); err != nil {
		return nil, err
	}
	if target.Len() != predicted.Len() {
		return nil, errors.Wrapf(ErrShape, "batch sizes %d and %d", target.Len(), predicted.Len())
	}

	n := target.Len()
	freq, amp, joint := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		df, da := target.Freq[i]-predicted.Freq[i], target.Amp[i]-predicted.Amp[i]
		freq[i], amp[i] = df*df, da*da
		joint[i] = meanSquared(
			[]float64{target.Freq[i], target.Amp[i]},
			[]float64{predicted.Freq[i], predicted.Amp[i]})
	}
	signal, err := TimeDomainMSE(target.Signal, predicted.Signal)
	if err != nil {
		return nil, err
	}

	record := Record{
		FreqMSE:      freq,
		FreqMSEdB:    DecibelsAll(freq),
		AmpMSE:       amp,
		AmpMSEdB:     DecibelsAll(amp),
		FreqAmpMSE:   joint,
		FreqAmpMSEdB: DecibelsAll(joint),
		SignalMSE:    signal,
		SignalMSEdB:  DecibelsAll(signal),
	}
	if target.SNR != nil {
		record[SNR] = append([]float64(nil), target.SNR...)
	}
	return record, nil
}
