// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads experiment configurations. Values come from, in
// increasing precedence: defaults, a YAML file, OSC_* environment variables
// and command line flags.
package config

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pointlander/oscillator/dataset"
	"github.com/pointlander/oscillator/estimator"
	"github.com/pointlander/oscillator/osc"
)

// ErrInvalid is returned by Validate
var ErrInvalid = errors.New("config: invalid configuration")

// Config is an experiment configuration
type Config struct {
	Seeds        int     `mapstructure:"seeds"`
	Seed         int64   `mapstructure:"seed"`
	BatchSize    int     `mapstructure:"batch_size"`
	Sinusoids    int     `mapstructure:"sinusoids"`
	Samples      int     `mapstructure:"samples"`
	Steps        int     `mapstructure:"steps"`
	LearningRate float64 `mapstructure:"learning_rate"`
	Optimizer    string  `mapstructure:"optimizer"`
	Kernel       string  `mapstructure:"kernel"`
	Estimator    string  `mapstructure:"estimator"`
	InitMag      float64 `mapstructure:"init_magnitude"`
	Pad          int     `mapstructure:"pad"`
	SNR          float64 `mapstructure:"snr"`
	MinFreq      float64 `mapstructure:"min_freq"`
	MaxFreq      float64 `mapstructure:"max_freq"`
	MinAmp       float64 `mapstructure:"min_amp"`
	MaxAmp       float64 `mapstructure:"max_amp"`
	Output       string  `mapstructure:"output"`
	Plot         string  `mapstructure:"plot"`
	Workers      int     `mapstructure:"workers"`
}

var defaults = map[string]interface{}{
	"seeds":          8,
	"seed":           int64(1),
	"batch_size":     4,
	"sinusoids":      1,
	"samples":        64,
	"steps":          1000,
	"learning_rate":  .01,
	"optimizer":      "adam",
	"kernel":         "damped",
	"estimator":      "gd",
	"init_magnitude": .99,
	"pad":            4,
	"snr":            math.Inf(1),
	"min_freq":       .05,
	"max_freq":       math.Pi - .05,
	"min_amp":        .1,
	"max_amp":        1.0,
	"output":         "results.csv",
	"plot":           "",
	"workers":        4,
}

// Flags registers a flag for every configuration key
func Flags(flags *pflag.FlagSet) {
	flags.String("config", "", "path of a yaml configuration file")
	flags.Int("seeds", defaults["seeds"].(int), "the number of seeds to run")
	flags.Int64("seed", defaults["seed"].(int64), "the first seed")
	flags.Int("batch_size", defaults["batch_size"].(int), "examples per seed")
	flags.Int("sinusoids", defaults["sinusoids"].(int), "sinusoids per example")
	flags.Int("samples", defaults["samples"].(int), "samples per signal")
	flags.Int("steps", defaults["steps"].(int), "optimization steps")
	flags.Float64("learning_rate", defaults["learning_rate"].(float64), "the learning rate")
	flags.String("optimizer", defaults["optimizer"].(string), "static, momentum or adam")
	flags.String("kernel", defaults["kernel"].(string), "pow, cumprod or damped")
	flags.String("estimator", defaults["estimator"].(string), "gd, autodiff, fft or closed_form")
	flags.Float64("init_magnitude", defaults["init_magnitude"].(float64), "initial magnitude of the rotations")
	flags.Int("pad", defaults["pad"].(int), "zero padding factor of the fft estimator")
	flags.Float64("snr", defaults["snr"].(float64), "signal to noise ratio in decibels")
	flags.Float64("min_freq", defaults["min_freq"].(float64), "lowest sampled angular frequency")
	flags.Float64("max_freq", defaults["max_freq"].(float64), "highest sampled angular frequency")
	flags.Float64("min_amp", defaults["min_amp"].(float64), "lowest sampled amplitude")
	flags.Float64("max_amp", defaults["max_amp"].(float64), "highest sampled amplitude")
	flags.String("output", defaults["output"].(string), "the csv file results are appended to")
	flags.String("plot", defaults["plot"].(string), "write a loss plot to this png file")
	flags.Int("workers", defaults["workers"].(int), "seeds run concurrently")
}

// Load builds a configuration from the optional file at path, the
// environment and the flags that were set
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "config: reading %s", path)
		}
	}
	v.SetEnvPrefix("osc")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, errors.Wrap(err, "config: binding flags")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "config: decoding")
	}
	return c, c.Validate()
}

// Validate checks that the configuration describes a runnable experiment
func (c Config) Validate() error {
	switch {
	case c.Seeds <= 0:
		return errors.Wrapf(ErrInvalid, "seeds %d", c.Seeds)
	case c.BatchSize <= 0:
		return errors.Wrapf(ErrInvalid, "batch_size %d", c.BatchSize)
	case c.Workers <= 0:
		return errors.Wrapf(ErrInvalid, "workers %d", c.Workers)
	case c.LearningRate <= 0:
		return errors.Wrapf(ErrInvalid, "learning_rate %f", c.LearningRate)
	}
	if _, err := osc.ParseKernel(c.Kernel); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if _, err := estimator.ParseOptimizer(c.Optimizer); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if _, err := c.NewEstimator(); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if err := c.Sampler().Validate(); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	return nil
}

// Sampler is the dataset sampler described by the configuration
func (c Config) Sampler() dataset.Sampler {
	return dataset.Sampler{
		Sinusoids: c.Sinusoids,
		Samples:   c.Samples,
		MinFreq:   c.MinFreq,
		MaxFreq:   c.MaxFreq,
		MinAmp:    c.MinAmp,
		MaxAmp:    c.MaxAmp,
		SNR:       c.SNR,
	}
}

// NewEstimator creates the estimator described by the configuration
func (c Config) NewEstimator() (estimator.Estimator, error) {
	return c.NewEstimatorSeed(c.Seed)
}

// NewEstimatorSeed creates the estimator with its own seed
func (c Config) NewEstimatorSeed(seed int64) (estimator.Estimator, error) {
	kernel, err := osc.ParseKernel(c.Kernel)
	if err != nil {
		return nil, err
	}
	optimizer, err := estimator.ParseOptimizer(c.Optimizer)
	if err != nil {
		return nil, err
	}
	return estimator.New(c.Estimator, estimator.Options{
		Kernel:        kernel,
		Optimizer:     optimizer,
		Steps:         c.Steps,
		LearningRate:  c.LearningRate,
		InitMagnitude: c.InitMag,
		Seed:          seed,
		Pad:           c.Pad,
	})
}
