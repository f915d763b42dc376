// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// Results appends experiment results to a csv table, one row per example
type Results struct {
	mu     sync.Mutex
	w      *csv.Writer
	header []string
	wrote  bool
}

// NewResults creates a result table writing to w. The header row is
// skipped when header is false, e.g. when appending to an existing table.
func NewResults(w io.Writer, header bool) *Results {
	return &Results{
		w:     csv.NewWriter(w),
		wrote: !header,
	}
}

// Write appends the rows of a result
func (r *Results) Write(result Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := result.Record.Names()
	if r.header == nil {
		r.header = append([]string{"seed", "step", "example", "estimator"}, names...)
		if !r.wrote {
			if err := r.w.Write(r.header); err != nil {
				return errors.Wrap(err, "results: writing header")
			}
			r.wrote = true
		}
	} else if len(r.header) != len(names)+4 {
		return errors.Errorf("results: %d metrics, table has %d", len(names), len(r.header)-4)
	}

	for example := 0; example < result.Record.Len(); example++ {
		row := []string{
			strconv.FormatInt(result.Seed, 10),
			strconv.Itoa(result.Steps),
			strconv.Itoa(example),
			result.Estimator,
		}
		for _, name := range r.header[4:] {
			values, ok := result.Record[name]
			if !ok {
				return errors.Errorf("results: missing metric %s", name)
			}
			row = append(row, strconv.FormatFloat(values[example], 'g', -1, 64))
		}
		if err := r.w.Write(row); err != nil {
			return errors.Wrap(err, "results: writing row")
		}
	}
	r.w.Flush()
	return r.w.Error()
}
