// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"github.com/pkg/errors"
)

// Metric names of the multi sinusoid record
const (
	FreqLAP        = "freq_lap"
	FreqLAPdB      = "freq_lap_db"
	AmpLAP         = "amp_lap"
	AmpLAPdB       = "amp_lap_db"
	FreqChamfer    = "freq_chamfer"
	AmpChamfer     = "amp_chamfer"
	FreqAmpLAP     = "freq_amp_lap"
	FreqAmpLAPdB   = "freq_amp_lap_db"
	FreqAmpChamfer = "freq_amp_chamfer"
)

// MultiBatch holds an unordered set of sinusoids per example
type MultiBatch struct {
	Freq   [][]float64
	Amp    [][]float64
	Signal [][]float64
}

// Len is the batch size
func (m MultiBatch) Len() int {
	return len(m.Freq)
}

// Multi scores unordered sets of predicted sinusoids against their targets.
// Correspondence between target and predicted components is resolved by
// optimal assignment for the *_lap metrics and by nearest neighbours for the
// *_chamfer metrics.
func Multi(target, predicted MultiBatch) (Record, error) {
	if target.Len() != predicted.Len() {
		return nil, errors.Wrapf(ErrShape, "batch sizes %d and %d", target.Len(), predicted.Len())
	}
	if len(target.Amp) != target.Len() || len(predicted.Amp) != predicted.Len() {
		return nil, errors.Wrap(ErrShape, "amplitude batch size differs from frequency batch size")
	}

	record := make(Record)
	one := func(name string, f func(a, b [][]float64) ([]float64, error), a, b [][]float64) error {
		values, err := f(a, b)
		if err != nil {
			return errors.Wrap(err, name)
		}
		record[name] = values
		return nil
	}
	if err := one(FreqLAP, MinAssignmentCost1D, target.Freq, predicted.Freq); err != nil {
		return nil, err
	}
	if err := one(AmpLAP, MinAssignmentCost1D, target.Amp, predicted.Amp); err != nil {
		return nil, err
	}
	if err := one(FreqChamfer, Chamfer1D, target.Freq, predicted.Freq); err != nil {
		return nil, err
	}
	if err := one(AmpChamfer, Chamfer1D, target.Amp, predicted.Amp); err != nil {
		return nil, err
	}

	targetPoints, err := Zip(target.Freq, target.Amp)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}
	predictedPoints, err := Zip(predicted.Freq, predicted.Amp)
	if err != nil {
		return nil, errors.Wrap(err, "predicted")
	}
	if record[FreqAmpLAP], err = MinAssignmentCost(targetPoints, predictedPoints); err != nil {
		return nil, errors.Wrap(err, FreqAmpLAP)
	}
	if record[FreqAmpChamfer], err = Chamfer(targetPoints, predictedPoints); err != nil {
		return nil, errors.Wrap(err, FreqAmpChamfer)
	}

	if record[SignalMSE], err = TimeDomainMSE(target.Signal, predicted.Signal); err != nil {
		return nil, errors.Wrap(err, SignalMSE)
	}
	spectral := make([]float64, len(target.Signal))
	for b := range target.Signal {
		if spectral[b], err = SpectralMSEdB(target.Signal[b], predicted.Signal[b]); err != nil {
			return nil, errors.Wrapf(err, "%s: example %d", SpectralDB, b)
		}
	}
	record[SpectralDB] = spectral

	record[FreqLAPdB] = DecibelsAll(record[FreqLAP])
	record[AmpLAPdB] = DecibelsAll(record[AmpLAP])
	record[FreqAmpLAPdB] = DecibelsAll(record[FreqAmpLAP])
	return record, nil
}
