// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pointlander/oscillator/config"
	"github.com/pointlander/oscillator/dataset"
	"github.com/pointlander/oscillator/estimator"
	"github.com/pointlander/oscillator/metrics"
)

// Evaluate scores an estimate against the clean ground truth of a batch
func Evaluate(sinusoids int, batch dataset.Batch, estimate estimator.Estimate) (metrics.Record, error) {
	if sinusoids == 1 {
		target := metrics.SingleBatch{SNR: batch.SNR, Signal: batch.Clean}
		predicted := metrics.SingleBatch{Signal: estimate.Signal}
		for b := range batch.Freq {
			target.Freq = append(target.Freq, batch.Freq[b][0])
			target.Amp = append(target.Amp, batch.Amp[b][0])
		}
		for b := range estimate.Freq {
			predicted.Freq = append(predicted.Freq, estimate.Freq[b][0])
			predicted.Amp = append(predicted.Amp, estimate.Amp[b][0])
		}
		return metrics.Single(target, predicted)
	}
	return metrics.Multi(
		metrics.MultiBatch{Freq: batch.Freq, Amp: batch.Amp, Signal: batch.Clean},
		metrics.MultiBatch{Freq: estimate.Freq, Amp: estimate.Amp, Signal: estimate.Signal},
	)
}

// Experiment samples a batch with seed, estimates its parameters and
// evaluates the estimate
func Experiment(ctx context.Context, c config.Config, seed int64) (Result, error) {
	rnd := rand.New(rand.NewSource(seed))
	batch, err := c.Sampler().Sample(rnd, c.BatchSize)
	if err != nil {
		return Result{}, err
	}
	e, err := c.NewEstimatorSeed(seed)
	if err != nil {
		return Result{}, err
	}
	estimate, err := e.Estimate(ctx, batch.Signal, c.Sinusoids)
	if err != nil {
		return Result{}, errors.Wrap(err, e.Name())
	}
	record, err := Evaluate(c.Sinusoids, batch, estimate)
	if err != nil {
		return Result{}, errors.Wrap(err, "evaluate")
	}
	return Result{
		Seed:      seed,
		Estimator: e.Name(),
		Steps:     estimate.Steps,
		Record:    record,
		Losses:    estimate.Losses,
	}, nil
}

// RunExperiments runs one experiment per seed, at most c.Workers at a time,
// writes every result to out as soon as it is available and reports the
// finished seeds to progress
func RunExperiments(ctx context.Context, c config.Config, out *Results, progress io.Writer) ([]Result, error) {
	var mu sync.Mutex
	results := make([]Result, c.Seeds)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)
	for i := 0; i < c.Seeds; i++ {
		i, seed := i, c.Seed+int64(i)
		g.Go(func() error {
			result, err := Experiment(ctx, c, seed)
			if err != nil {
				return errors.Wrapf(err, "seed %d", seed)
			}
			results[i] = result
			mu.Lock()
			fmt.Fprintln(progress, "seed", seed, "done")
			mu.Unlock()
			if out == nil {
				return nil
			}
			return out.Write(result)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
