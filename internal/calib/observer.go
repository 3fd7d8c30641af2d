// Package calib implements range calibration for post-training quantization.
//
// An Observer watches batches of representative data and produces the
// (min, max) range that quant.ComputeParams turns into scale and zero-point.
// Observers are the only stateful piece of the quantization pipeline; the
// state is a handful of floats owned by the caller, never shared globally.
package calib

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/qtensor-ml/qtensor/internal/quant"
)

// ErrNoObservations reports a Range request before any data was observed.
var ErrNoObservations = errors.New("no observations: calibrate with at least one batch")

// Observer accumulates value-range statistics over calibration batches.
type Observer interface {
	// Observe folds one batch of values into the running statistics.
	// Empty batches are ignored.
	Observe(values []float32)

	// Range returns the calibrated (min, max) interval.
	Range() (minVal, maxVal float64, err error)
}

// Params derives quantization parameters from an observer's calibrated range.
func Params(obs Observer, bits int, epsilon float64) (quant.Params, error) {
	minVal, maxVal, err := obs.Range()
	if err != nil {
		return quant.Params{}, err
	}
	return quant.ComputeParams(minVal, maxVal, bits, epsilon)
}

// MinMaxObserver tracks the running extrema over everything it has seen.
// This is the plain min-max calibration of the affine quantizer.
type MinMaxObserver struct {
	seen     bool
	min, max float64
}

// NewMinMaxObserver creates an empty min-max observer.
func NewMinMaxObserver() *MinMaxObserver {
	return &MinMaxObserver{}
}

// Observe folds a batch into the running extrema.
func (o *MinMaxObserver) Observe(values []float32) {
	for _, v := range values {
		f := float64(v)
		if !o.seen {
			o.min, o.max = f, f
			o.seen = true
			continue
		}
		if f < o.min {
			o.min = f
		}
		if f > o.max {
			o.max = f
		}
	}
}

// Range returns the observed extrema.
func (o *MinMaxObserver) Range() (float64, float64, error) {
	if !o.seen {
		return 0, 0, ErrNoObservations
	}
	return o.min, o.max, nil
}

// MovingAverageObserver tracks an exponential moving average of per-batch
// extrema. Smoother than raw min-max when activation ranges fluctuate
// between calibration batches; this is the observation rule used by
// quantization-aware training.
type MovingAverageObserver struct {
	averaging float64 // Weight of each new batch in the running average.
	seen      bool
	min, max  float64
}

// NewMovingAverageObserver creates an observer with the given averaging
// constant in (0, 1]; 0.01 is a common choice. Panics on out-of-range input.
func NewMovingAverageObserver(averaging float64) *MovingAverageObserver {
	if averaging <= 0 || averaging > 1 {
		panic(fmt.Sprintf("averaging constant %v out of (0, 1]", averaging))
	}
	return &MovingAverageObserver{averaging: averaging}
}

// Observe folds one batch's extrema into the moving averages.
func (o *MovingAverageObserver) Observe(values []float32) {
	if len(values) == 0 {
		return
	}

	batchMin := float64(values[0])
	batchMax := batchMin
	for _, v := range values[1:] {
		f := float64(v)
		if f < batchMin {
			batchMin = f
		}
		if f > batchMax {
			batchMax = f
		}
	}

	if !o.seen {
		o.min, o.max = batchMin, batchMax
		o.seen = true
		return
	}
	o.min += o.averaging * (batchMin - o.min)
	o.max += o.averaging * (batchMax - o.max)
}

// Range returns the averaged extrema.
func (o *MovingAverageObserver) Range() (float64, float64, error) {
	if !o.seen {
		return 0, 0, ErrNoObservations
	}
	return o.min, o.max, nil
}

// PercentileObserver clips the calibration range at empirical quantiles,
// trading a little clipping error at the tails for a finer scale over the
// bulk of the distribution. Samples are retained until Range is called.
type PercentileObserver struct {
	lower, upper float64 // Quantile positions, e.g. 0.01 and 0.99.
	samples      []float64
}

// NewPercentileObserver creates an observer clipping at the given quantiles,
// 0 <= lower < upper <= 1. Panics on out-of-range input.
func NewPercentileObserver(lower, upper float64) *PercentileObserver {
	if lower < 0 || upper > 1 || lower >= upper {
		panic(fmt.Sprintf("invalid quantile interval [%v, %v]", lower, upper))
	}
	return &PercentileObserver{lower: lower, upper: upper}
}

// Observe retains the batch for quantile estimation.
func (o *PercentileObserver) Observe(values []float32) {
	for _, v := range values {
		o.samples = append(o.samples, float64(v))
	}
}

// Range returns the empirical quantiles of everything observed.
func (o *PercentileObserver) Range() (float64, float64, error) {
	if len(o.samples) == 0 {
		return 0, 0, ErrNoObservations
	}

	sort.Float64s(o.samples)
	minVal := stat.Quantile(o.lower, stat.Empirical, o.samples, nil)
	maxVal := stat.Quantile(o.upper, stat.Empirical, o.samples, nil)
	return minVal, maxVal, nil
}
