// Package quant implements uniform affine quantization.
//
// A tensor's observed value range [min, max] maps linearly onto unsigned
// integer codes [qmin, qmax] with qmin = 0 and qmax = 2^bits - 1:
//
//	scale     = (max - min) / (qmax - qmin)
//	zeroPoint = qmin - min/scale
//	q         = clip(round(x/scale + zeroPoint), qmin, qmax)
//	x'        = scale * (q - zeroPoint)
//
// Scale is the real value one code step represents; zeroPoint is the code
// corresponding to real 0.0. The round trip is lossy: for in-range inputs
// the absolute reconstruction error is bounded by scale/2 under
// round-to-nearest, plus clipping error for out-of-range inputs.
//
// The rounding tie-break is part of the contract because boundary codes
// shift by ±1 depending on it. The default is round-half-away-from-zero
// (math.Round); RoundHalfEven selects banker's rounding instead.
//
// Quantize and Dequantize are pure functions of their inputs: no hidden
// state, no global mode switch. Every policy choice (bit-width, rounding,
// the degenerate-range epsilon, strict code validation) is carried by an
// explicit Config passed at construction.
package quant
