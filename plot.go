// Copyright 2023 The Oscillator Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotLosses plots the loss curve of the first example of every seed
func PlotLosses(results []Result, name string) error {
	p := plot.New()
	p.Title.Text = "loss vs steps"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "loss"
	p.Legend.Top = true

	index := 0
	for _, result := range results {
		if len(result.Losses) == 0 {
			continue
		}
		costs := result.Losses[0]
		points := make(plotter.XYs, 0, len(costs))
		for i, cost := range costs {
			points = append(points, plotter.XY{X: float64(i), Y: cost})
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return errors.Wrapf(err, "plot: seed %d", result.Seed)
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Color = colors[index%len(colors)]
		scatter.GlyphStyle.Radius = vg.Length(1)
		index++

		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("%s seed %d", result.Estimator, result.Seed), scatter)
	}
	if index == 0 {
		return errors.New("plot: no loss curves, the estimator is not iterative")
	}

	return p.Save(8*vg.Inch, 8*vg.Inch, name)
}
