// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics scores estimated sinusoid parameters against the ground
// truth. Every function operates on a batch and returns one value per
// example, in batch order.
package metrics

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

var (
	// ErrShape is returned when the target and the prediction disagree in shape
	ErrShape = errors.New("metrics: shape mismatch")
	// ErrCardinality is returned when two point sets can not be matched one to one
	ErrCardinality = errors.New("metrics: cardinality mismatch")
)

// Record maps a metric name to one value per batch example
type Record map[string][]float64

// Names returns the metric names in sorted order
func (r Record) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len is the batch size of the record
func (r Record) Len() int {
	for _, values := range r {
		return len(values)
	}
	return 0
}

// Decibels converts a power like quantity to decibels. Zero maps to -Inf
// and negative values to NaN.
func Decibels(x float64) float64 {
	return 10 * math.Log10(x)
}

// DecibelsAll applies Decibels to each value
func DecibelsAll(values []float64) []float64 {
	db := make([]float64, len(values))
	for i, value := range values {
		db[i] = Decibels(value)
	}
	return db
}

func mse(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum / float64(len(a))
}

// TimeDomainMSE is the time domain mean squared error of each example
func TimeDomainMSE(target, predicted [][]float64) ([]float64, error) {
	if len(target) != len(predicted) {
		return nil, errors.Wrapf(ErrShape, "batch sizes %d and %d", len(target), len(predicted))
	}
	values := make([]float64, len(target))
	for b := range target {
		if len(target[b]) != len(predicted[b]) {
			return nil, errors.Wrapf(ErrShape, "example %d: signal lengths %d and %d", b, len(target[b]), len(predicted[b]))
		}
		values[b] = mse(target[b], predicted[b])
	}
	return values, nil
}
