// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package estimator recovers the frequencies and amplitudes of a sum of
// sinusoids from its samples
package estimator

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/pointlander/oscillator/osc"
)

// ErrUnsupported is returned when an estimator can not handle a problem
var ErrUnsupported = errors.New("estimator: unsupported problem")

// Estimate is the output of an estimator for a batch of signals
type Estimate struct {
	// Freq holds the angular frequencies of each example
	Freq [][]float64
	// Amp holds the amplitudes of each example
	Amp [][]float64
	// Signal is the signal resynthesized from the estimate
	Signal [][]float64
	// Losses is the loss history of each example for iterative estimators
	Losses [][]float64
	// Steps is the number of optimization steps taken
	Steps int
}

// Estimator estimates sinusoid parameters
type Estimator interface {
	// Name is the name of the estimator as used in results
	Name() string
	// Estimate estimates sinusoids parameters for every signal
	Estimate(ctx context.Context, signals [][]float64, sinusoids int) (Estimate, error)
}

// Options configures the estimators created by New
type Options struct {
	Kernel        osc.Kernel
	Optimizer     Optimizer
	Steps         int
	LearningRate  float64
	InitMagnitude float64
	Seed          int64
	Pad           int
}

// Names the estimator names
var Names = [...]string{"gd", "autodiff", "fft", "closed_form"}

// New creates the estimator with the given name
func New(name string, o Options) (Estimator, error) {
	switch name {
	case "gd", "autodiff":
		return &GradientDescent{
			Kernel:        o.Kernel,
			Optimizer:     o.Optimizer,
			Steps:         o.Steps,
			LearningRate:  o.LearningRate,
			InitMagnitude: o.InitMagnitude,
			Seed:          o.Seed,
			Autodiff:      name == "autodiff",
		}, nil
	case "fft":
		return &FFT{Pad: o.Pad}, nil
	case "closed_form":
		return ClosedForm{}, nil
	}
	return nil, errors.Errorf("estimator: unknown estimator %q", name)
}

func checkSignals(signals [][]float64, sinusoids int) error {
	if sinusoids <= 0 {
		return errors.Wrapf(ErrUnsupported, "%d sinusoids", sinusoids)
	}
	if len(signals) == 0 {
		return errors.Wrap(ErrUnsupported, "empty batch")
	}
	for b, s := range signals {
		if len(s) == 0 {
			return errors.Wrapf(ErrUnsupported, "example %d is empty", b)
		}
	}
	return nil
}

// Synthesize rebuilds the signals of a batch of zero phase sinusoids
func Synthesize(freq, amp [][]float64, n int) ([][]float64, error) {
	z := make([][]complex128, len(freq))
	for b := range freq {
		z[b] = make([]complex128, len(freq[b]))
		for k, f := range freq[b] {
			z[b][k] = osc.Rotation(f, 1)
		}
	}
	return osc.KernelPow.ReduceWeighted(z, amp, n)
}

// resynthesize rebuilds every example of an estimate at the length of its
// own signal
func resynthesize(estimate *Estimate, signals [][]float64) error {
	estimate.Signal = make([][]float64, len(signals))
	for b, signal := range signals {
		s, err := Synthesize(estimate.Freq[b:b+1], estimate.Amp[b:b+1], len(signal))
		if err != nil {
			return err
		}
		estimate.Signal[b] = s[0]
	}
	return nil
}

// sortByFrequency orders the components of one example by frequency
func sortByFrequency(freq, amp []float64) {
	sort.Sort(components{freq, amp})
}

type components struct {
	freq, amp []float64
}

func (c components) Len() int           { return len(c.freq) }
func (c components) Less(i, j int) bool { return c.freq[i] < c.freq[j] }
func (c components) Swap(i, j int) {
	c.freq[i], c.freq[j] = c.freq[j], c.freq[i]
	c.amp[i], c.amp[j] = c.amp[j], c.amp[i]
}
