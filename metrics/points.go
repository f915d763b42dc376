// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pointlander/oscillator/lap"
)

// Lift turns a batch of scalar sets into a batch of one coordinate point sets
func Lift(values [][]float64) [][][]float64 {
	points := make([][][]float64, len(values))
	for b, set := range values {
		points[b] = make([][]float64, len(set))
		for i, value := range set {
			points[b][i] = []float64{value}
		}
	}
	return points
}

// Zip pairs two batches of scalar sets into a batch of two coordinate point
// sets, e.g. (frequency, amplitude)
func Zip(x, y [][]float64) ([][][]float64, error) {
	if len(x) != len(y) {
		return nil, errors.Wrapf(ErrShape, "batch sizes %d and %d", len(x), len(y))
	}
	points := make([][][]float64, len(x))
	for b := range x {
		if len(x[b]) != len(y[b]) {
			return nil, errors.Wrapf(ErrShape, "example %d: %d and %d values", b, len(x[b]), len(y[b]))
		}
		points[b] = make([][]float64, len(x[b]))
		for i := range x[b] {
			points[b][i] = []float64{x[b][i], y[b][i]}
		}
	}
	return points, nil
}

// pairwise computes squared euclidean distances, rows are target points
func pairwise(target, predicted [][]float64) (*mat.Dense, error) {
	d := mat.NewDense(len(target), len(predicted), nil)
	for i, a := range target {
		for j, b := range predicted {
			if len(a) != len(b) {
				return nil, errors.Wrapf(ErrShape, "point dimensions %d and %d", len(a), len(b))
			}
			distance := floats.Distance(a, b, 2)
			d.Set(i, j, distance*distance)
		}
	}
	return d, nil
}

func checkBatch(target, predicted [][][]float64) error {
	if len(target) != len(predicted) {
		return errors.Wrapf(ErrShape, "batch sizes %d and %d", len(target), len(predicted))
	}
	for b := range target {
		if len(target[b]) == 0 || len(predicted[b]) == 0 {
			return errors.Wrapf(ErrShape, "example %d: empty point set", b)
		}
	}
	return nil
}

// MinAssignmentCost solves the minimum cost perfect matching between the
// target and the predicted points of each example under squared euclidean
// distance and returns the mean matched cost per example
func MinAssignmentCost(target, predicted [][][]float64) ([]float64, error) {
	if len(target) == len(predicted) {
		for b := range target {
			if len(target[b]) != len(predicted[b]) {
				return nil, errors.Wrapf(ErrCardinality, "example %d: %d target and %d predicted points",
					b, len(target[b]), len(predicted[b]))
			}
		}
	}
	if err := checkBatch(target, predicted); err != nil {
		return nil, err
	}
	costs := make([]float64, len(target))
	for b := range target {
		d, err := pairwise(target[b], predicted[b])
		if err != nil {
			return nil, errors.Wrapf(err, "example %d", b)
		}
		assignment, err := lap.Solve(d)
		if err != nil {
			return nil, errors.Wrapf(err, "example %d", b)
		}
		costs[b] = assignment.Cost / float64(len(target[b]))
	}
	return costs, nil
}

// MinAssignmentCost1D is MinAssignmentCost over scalar sets
func MinAssignmentCost1D(target, predicted [][]float64) ([]float64, error) {
	return MinAssignmentCost(Lift(target), Lift(predicted))
}

// Chamfer sums the mean squared distance from each target point to its
// nearest predicted point and from each predicted point to its nearest
// target point. Several points may share a nearest neighbour.
func Chamfer(target, predicted [][][]float64) ([]float64, error) {
	if err := checkBatch(target, predicted); err != nil {
		return nil, err
	}
	distances := make([]float64, len(target))
	for b := range target {
		d, err := pairwise(target[b], predicted[b])
		if err != nil {
			return nil, errors.Wrapf(err, "example %d", b)
		}
		rows, cols := d.Dims()
		forward, backward := 0.0, 0.0
		for i := 0; i < rows; i++ {
			forward += floats.Min(d.RawRowView(i))
		}
		column := make([]float64, rows)
		for j := 0; j < cols; j++ {
			mat.Col(column, j, d)
			backward += floats.Min(column)
		}
		distances[b] = forward/float64(rows) + backward/float64(cols)
	}
	return distances, nil
}

// Chamfer1D is Chamfer over scalar sets
func Chamfer1D(target, predicted [][]float64) ([]float64, error) {
	return Chamfer(Lift(target), Lift(predicted))
}

// meanSquared is the mean over the coordinates of the squared difference
func meanSquared(a, b []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	return mse(a, b)
}
