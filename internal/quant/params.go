package quant

import (
	"fmt"
	"math"
)

// Params holds the affine mapping between real values and integer codes.
//
// Params is a pure value type: computed once per tensor (or per calibration
// run) and carried alongside the codes for as long as they need to be
// dequantized.
type Params struct {
	Scale     float64 // Real value represented by one code step; always > 0.
	ZeroPoint float64 // Code corresponding to real 0.0, in code units.
	Bits      int     // Code width in bits, 1..8.
}

// Qmin returns the smallest valid code (always 0 for unsigned encoding).
func (p Params) Qmin() uint8 {
	return 0
}

// Qmax returns the largest valid code: 2^Bits - 1.
func (p Params) Qmax() uint8 {
	return uint8(1<<p.Bits - 1)
}

// String returns a human-readable summary.
func (p Params) String() string {
	return fmt.Sprintf("Params{scale=%.6g, zeroPoint=%.6g, bits=%d}", p.Scale, p.ZeroPoint, p.Bits)
}

// ComputeParams derives quantization parameters from an observed value range.
//
// epsilon governs the degenerate case minVal == maxVal: zero epsilon makes
// the degenerate range an ErrInvalidRange; a positive epsilon floors the
// scale instead, mapping every value of a constant tensor near a single
// code. NaN or Inf never escape: non-finite extrema are rejected.
func ComputeParams(minVal, maxVal float64, bits int, epsilon float64) (Params, error) {
	if bits < 1 || bits > 8 {
		return Params{}, fmt.Errorf("%w: got %d", ErrInvalidBitWidth, bits)
	}
	if math.IsNaN(minVal) || math.IsInf(minVal, 0) || math.IsNaN(maxVal) || math.IsInf(maxVal, 0) {
		return Params{}, fmt.Errorf("%w: non-finite extrema [%v, %v]", ErrInvalidRange, minVal, maxVal)
	}
	if minVal > maxVal {
		return Params{}, fmt.Errorf("%w: min %v > max %v", ErrInvalidRange, minVal, maxVal)
	}

	qmin := 0.0
	qmax := float64(uint(1)<<bits - 1)

	scale := (maxVal - minVal) / (qmax - qmin)
	if scale < epsilon || scale == 0 {
		if epsilon <= 0 {
			return Params{}, fmt.Errorf("%w: degenerate range [%v, %v] and no epsilon floor", ErrInvalidRange, minVal, maxVal)
		}
		scale = epsilon
	}

	return Params{
		Scale:     scale,
		ZeroPoint: qmin - minVal/scale,
		Bits:      bits,
	}, nil
}
