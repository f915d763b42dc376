// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estimator

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// ClosedForm estimates a single sinusoid from the identity
// x[n-1] + x[n+1] = 2 cos(w) x[n] in the least squares sense
type ClosedForm struct{}

// Name is closed_form
func (ClosedForm) Name() string {
	return "closed_form"
}

// Estimate estimates the sinusoid of every signal
func (ClosedForm) Estimate(ctx context.Context, signals [][]float64, sinusoids int) (Estimate, error) {
	if err := checkSignals(signals, sinusoids); err != nil {
		return Estimate{}, err
	}
	if sinusoids != 1 {
		return Estimate{}, errors.Wrapf(ErrUnsupported, "closed form needs one sinusoid, got %d", sinusoids)
	}
	estimate := Estimate{
		Freq: make([][]float64, len(signals)),
		Amp:  make([][]float64, len(signals)),
	}
	for b, x := range signals {
		if len(x) < 3 {
			return Estimate{}, errors.Wrapf(ErrUnsupported, "example %d: %d samples", b, len(x))
		}
		num, den := 0.0, 0.0
		for n := 1; n < len(x)-1; n++ {
			num += x[n] * (x[n-1] + x[n+1])
			den += 2 * x[n] * x[n]
		}
		c := math.Max(-1, math.Min(1, num/den))
		freq := math.Acos(c)

		dot, energy := 0.0, 0.0
		for n, value := range x {
			basis := math.Cos(freq * float64(n))
			dot += value * basis
			energy += basis * basis
		}
		estimate.Freq[b], estimate.Amp[b] = []float64{freq}, []float64{dot / energy}
	}

	if err := resynthesize(&estimate, signals); err != nil {
		return Estimate{}, err
	}
	return estimate, nil
}
