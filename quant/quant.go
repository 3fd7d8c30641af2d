// Copyright 2025 QTensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package quant provides the public API for uniform affine quantization.
//
// A quantizer maps float32 values onto unsigned integer codes at a
// configurable bit-width (1 to 8 bits):
//
//	q = clip(round(x/scale + zeroPoint), 0, 2^bits-1)
//	x' = scale * (q - zeroPoint)
//
// Example:
//
//	q, err := quant.New(quant.Config{Bits: 4})
//	codes, params, err := q.Quantize(values)
//	restored, err := q.Dequantize(codes, params)
package quant

import (
	"github.com/qtensor-ml/qtensor/internal/quant"
	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// Errors returned by quantization operations.
var (
	ErrInvalidBitWidth = quant.ErrInvalidBitWidth
	ErrEmptyInput      = quant.ErrEmptyInput
	ErrInvalidRange    = quant.ErrInvalidRange
	ErrInvalidCode     = quant.ErrInvalidCode
)

// Params holds the affine parameters of a quantized range.
type Params = quant.Params

// ComputeParams derives scale and zero point from a float range.
func ComputeParams(minVal, maxVal float64, bits int, epsilon float64) (Params, error) {
	return quant.ComputeParams(minVal, maxVal, bits, epsilon)
}

// Rounding selects the tie-breaking policy used during quantization.
type Rounding = quant.Rounding

// Rounding policies.
const (
	RoundHalfAway Rounding = quant.RoundHalfAway
	RoundHalfEven Rounding = quant.RoundHalfEven
)

// Config configures a Quantizer.
type Config = quant.Config

// Quantizer converts between float32 values and integer codes.
type Quantizer = quant.Quantizer

// New creates a Quantizer. A zero Bits field defaults to 8.
func New(cfg Config) (*Quantizer, error) {
	return quant.New(cfg)
}

// QuantizedTensor pairs a tensor of integer codes with its affine parameters.
type QuantizedTensor[B tensor.Backend] = quant.QuantizedTensor[B]

// QuantizeTensor quantizes a float32 tensor with min-max calibration.
func QuantizeTensor[B tensor.Backend](q *Quantizer, t *tensor.Tensor[float32, B]) (*QuantizedTensor[B], error) {
	return quant.QuantizeTensor(q, t)
}

// QuantizeTensorWithParams quantizes using externally calibrated parameters.
func QuantizeTensorWithParams[B tensor.Backend](q *Quantizer, t *tensor.Tensor[float32, B], p Params) (*QuantizedTensor[B], error) {
	return quant.QuantizeTensorWithParams(q, t, p)
}

// Pack packs codes into a little-endian bit stream at the given bit-width.
func Pack(codes []uint8, bits int) ([]byte, error) {
	return quant.Pack(codes, bits)
}

// Unpack reverses Pack, recovering count codes from a packed stream.
func Unpack(packed []byte, bits, count int) ([]uint8, error) {
	return quant.Unpack(packed, bits, count)
}

// Footprint returns the packed storage cost in bytes of count codes at the
// given bit-width: ceil(count * bits / 8).
func Footprint(count, bits int) int {
	return quant.Footprint(count, bits)
}

// CompressionRatio returns float32 storage size relative to packed storage.
func CompressionRatio(count, bits int) float64 {
	return quant.CompressionRatio(count, bits)
}
