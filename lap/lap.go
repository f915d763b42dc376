// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lap solves the linear assignment problem: the minimum cost
// perfect matching between the rows and the columns of a square cost matrix.
package lap

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNonSquare is returned when the cost matrix is not square
	ErrNonSquare = errors.New("lap: cost matrix is not square")
	// ErrEmpty is returned for a cost matrix without rows
	ErrEmpty = errors.New("lap: empty cost matrix")
	// ErrInvalidCost is returned for NaN or -Inf costs
	ErrInvalidCost = errors.New("lap: invalid cost")
)

// Assignment is an optimal matching
type Assignment struct {
	// Rows maps each row to its assigned column
	Rows []int
	// Cost is the sum of the matched costs
	Cost float64
}

// Columns inverts Rows
func (a Assignment) Columns() []int {
	columns := make([]int, len(a.Rows))
	for row, column := range a.Rows {
		columns[column] = row
	}
	return columns
}

// Solve finds a minimum cost perfect matching with the shortest augmenting
// path method of Jonker and Volgenant using dual potentials, O(n^3). Rows are
// inserted in order and ties resolve to the lowest column index so the result
// is deterministic for a given matrix.
func Solve(cost mat.Matrix) (Assignment, error) {
	rows, cols := cost.Dims()
	if rows != cols {
		return Assignment{}, errors.Wrapf(ErrNonSquare, "%dx%d", rows, cols)
	}
	n := rows
	if n == 0 {
		return Assignment{}, ErrEmpty
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if c := cost.At(i, j); math.IsNaN(c) || math.IsInf(c, -1) {
				return Assignment{}, errors.Wrapf(ErrInvalidCost, "%f at (%d, %d)", c, i, j)
			}
		}
	}

	// potentials and matching are 1 indexed, column 0 is the virtual root
	u, v := make([]float64, n+1), make([]float64, n+1)
	match, way := make([]int, n+1), make([]int, n+1)
	minv, used := make([]float64, n+1), make([]bool, n+1)
	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		for j := range minv {
			minv[j], used[j] = math.Inf(1), false
		}
		for {
			used[j0] = true
			i0, delta, j1 := match[j0], math.Inf(1), -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				current := cost.At(i0-1, j-1) - u[i0] - v[j]
				if current < minv[j] {
					minv[j], way[j] = current, j0
				}
				if minv[j] < delta {
					delta, j1 = minv[j], j
				}
			}
			if j1 < 0 {
				// every remaining edge is +Inf
				for j := 1; j <= n; j++ {
					if !used[j] {
						j1, way[j] = j, j0
						break
					}
				}
				delta = 0
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	assignment := Assignment{Rows: make([]int, n)}
	for j := 1; j <= n; j++ {
		assignment.Rows[match[j]-1] = j - 1
	}
	for i, j := range assignment.Rows {
		assignment.Cost += cost.At(i, j)
	}
	return assignment, nil
}
