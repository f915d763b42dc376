// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estimator

import (
	"math"

	"github.com/pkg/errors"
)

// Optimizer an optimizer type
type Optimizer int

const (
	// OptimizerStatic is a static learning optimizer
	OptimizerStatic Optimizer = iota
	// OptimizerMomentum basic optimizer
	OptimizerMomentum
	// OptimizerAdam the adam optimizer
	OptimizerAdam
)

// Optimizers the optimizers
var Optimizers = [...]Optimizer{
	OptimizerStatic,
	OptimizerMomentum,
	OptimizerAdam,
}

// Converts the optimzer to a string
func (o Optimizer) String() string {
	switch o {
	case OptimizerStatic:
		return "static"
	case OptimizerMomentum:
		return "momentum"
	case OptimizerAdam:
		return "adam"
	}
	return "unknown"
}

// ParseOptimizer finds the optimizer with the given name
func ParseOptimizer(name string) (Optimizer, error) {
	for _, o := range Optimizers {
		if o.String() == name {
			return o, nil
		}
	}
	return 0, errors.Errorf("estimator: unknown optimizer %q", name)
}

// state is the per parameter state of an optimizer
type state struct {
	optimizer Optimizer
	// momentum parameters
	alpha, eta float64
	// adam parameters
	beta1, beta2, epsilon float64
	deltas, m, v          []float64
}

func newState(optimizer Optimizer, eta float64, size int) *state {
	s := &state{
		optimizer: optimizer,
		alpha:     .1,
		eta:       eta,
		beta1:     .9,
		beta2:     .999,
		epsilon:   1e-8,
	}
	switch optimizer {
	case OptimizerMomentum:
		s.deltas = make([]float64, size)
	case OptimizerAdam:
		s.m, s.v = make([]float64, size), make([]float64, size)
	}
	return s
}

// step updates x in place given the gradient d at iteration i
func (s *state) step(i int, x, d []float64) {
	for l, g := range d {
		switch s.optimizer {
		case OptimizerStatic:
			x[l] -= s.eta * g
		case OptimizerMomentum:
			s.deltas[l] = s.alpha*s.deltas[l] - s.eta*g
			x[l] += s.deltas[l]
		case OptimizerAdam:
			s.m[l] = s.beta1*s.m[l] + (1-s.beta1)*g
			s.v[l] = s.beta2*s.v[l] + (1-s.beta2)*g*g
			t := float64(i + 1)
			mCorrected := s.m[l] / (1 - math.Pow(s.beta1, t))
			vCorrected := s.v[l] / (1 - math.Pow(s.beta2, t))
			x[l] -= s.eta * mCorrected / (math.Sqrt(vCorrected) + s.epsilon)
		}
	}
}
