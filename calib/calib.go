// Copyright 2025 QTensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package calib provides the public API for quantization range calibration.
//
// Observers accumulate value statistics over batches of data and produce
// the float range that quantization parameters are derived from:
//
//	obs := calib.NewMinMaxObserver()
//	for _, batch := range batches {
//	    obs.Observe(batch)
//	}
//	params, err := calib.Params(obs, 8, 1e-8)
package calib

import (
	"github.com/qtensor-ml/qtensor/internal/calib"
	"github.com/qtensor-ml/qtensor/internal/quant"
)

// ErrNoObservations is returned by Range before any data has been observed.
var ErrNoObservations = calib.ErrNoObservations

// Observer accumulates value statistics for range calibration.
type Observer = calib.Observer

// Params derives quantization parameters from an observer's range.
func Params(obs Observer, bits int, epsilon float64) (quant.Params, error) {
	return calib.Params(obs, bits, epsilon)
}

// MinMaxObserver tracks the running extrema of all observed values.
type MinMaxObserver = calib.MinMaxObserver

// NewMinMaxObserver creates a MinMaxObserver.
func NewMinMaxObserver() *MinMaxObserver {
	return calib.NewMinMaxObserver()
}

// MovingAverageObserver tracks an exponential moving average of per-batch
// extrema, damping outlier batches.
type MovingAverageObserver = calib.MovingAverageObserver

// NewMovingAverageObserver creates a MovingAverageObserver with the given
// averaging constant in (0, 1].
func NewMovingAverageObserver(averaging float64) *MovingAverageObserver {
	return calib.NewMovingAverageObserver(averaging)
}

// PercentileObserver clips the range to empirical quantiles of the observed
// distribution, discarding outliers.
type PercentileObserver = calib.PercentileObserver

// NewPercentileObserver creates a PercentileObserver with lower and upper
// quantiles in [0, 1].
func NewPercentileObserver(lower, upper float64) *PercentileObserver {
	return calib.NewPercentileObserver(lower, upper)
}
