// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/pointlander/oscillator/config"
	"github.com/pointlander/oscillator/metrics"
)

// Result an experiment result
type Result struct {
	Seed      int64
	Estimator string
	Steps     int
	Record    metrics.Record
	Losses    [][]float64
}

// Statistics aggregation of results
type Statistics struct {
	Estimator string
	Count     int
	sums      map[string]float64
	counts    map[string]int
}

// Aggregate adds the results to the statistics, non finite values such as
// the decibels of an exact estimate are skipped
func (s *Statistics) Aggregate(result Result) {
	if s.sums == nil {
		s.sums, s.counts = make(map[string]float64), make(map[string]int)
	}
	s.Estimator = result.Estimator
	s.Count++
	for name, values := range result.Record {
		for _, value := range values {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				continue
			}
			s.sums[name] += value
			s.counts[name]++
		}
	}
}

// Mean the mean of a metric
func (s *Statistics) Mean(name string) float64 {
	return s.sums[name] / float64(s.counts[name])
}

// Names the aggregated metric names
func (s *Statistics) Names() []string {
	names := make([]string, 0, len(s.sums))
	for name := range s.sums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Print writes the statistics as a markdown table
func (s *Statistics) Print(w io.Writer) {
	fmt.Fprintf(w, "%s over %d seeds\n\n", s.Estimator, s.Count)
	fmt.Fprintln(w, "| Metric | Mean | Finite |")
	fmt.Fprintln(w, "| ------ | ---- | ------ |")
	for _, name := range s.Names() {
		fmt.Fprintf(w, "| %s | %g | %d |\n", name, s.Mean(name), s.counts[name])
	}
}

var colors = [...]color.RGBA{
	{R: 0x00, G: 0x3f, B: 0x5c, A: 255},
	{R: 0x44, G: 0x4e, B: 0x86, A: 255},
	{R: 0x95, G: 0x51, B: 0x96, A: 255},
	{R: 0xdd, G: 0x51, B: 0x82, A: 255},
	{R: 0xff, G: 0x6e, B: 0x54, A: 255},
	{R: 0xff, G: 0xa6, B: 0x00, A: 255},
}

// Run runs the experiments of a configuration, appends the results to the
// configured csv file and prints the aggregated statistics to w
func Run(ctx context.Context, c config.Config, w io.Writer) error {
	var out *Results
	if c.Output != "" {
		header := true
		if info, err := os.Stat(c.Output); err == nil && info.Size() > 0 {
			header = false
		}
		file, err := os.OpenFile(c.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "opening results")
		}
		defer file.Close()
		out = NewResults(file, header)
	}

	results, err := RunExperiments(ctx, c, out, w)
	if err != nil {
		return err
	}

	var statistics Statistics
	for _, result := range results {
		statistics.Aggregate(result)
	}
	statistics.Print(w)

	if c.Plot != "" {
		return PlotLosses(results, c.Plot)
	}
	return nil
}

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.Flags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
	path, err := flags.GetString("config")
	if err != nil {
		log.Fatal(err)
	}
	c, err := config.Load(path, flags)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := Run(ctx, c, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
