package quant

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// QuantizedTensor pairs integer codes with the Params needed to reconstruct
// an approximation of the source tensor. It has the same shape as the
// source; one (scale, zeroPoint) pair covers every element (per-tensor
// quantization, not per-channel).
type QuantizedTensor[B tensor.Backend] struct {
	codes  *tensor.Tensor[uint8, B]
	params Params
}

// QuantizeTensor quantizes a float32 tensor with min-max calibration over
// all of its elements.
func QuantizeTensor[B tensor.Backend](q *Quantizer, t *tensor.Tensor[float32, B]) (*QuantizedTensor[B], error) {
	codes, p, err := q.Quantize(t.Data())
	if err != nil {
		return nil, fmt.Errorf("quantize tensor %v: %w", t.Shape(), err)
	}

	ct, err := tensor.FromSlice(codes, t.Shape(), t.Backend())
	if err != nil {
		return nil, err
	}

	return &QuantizedTensor[B]{codes: ct, params: p}, nil
}

// QuantizeTensorWithParams quantizes using externally calibrated parameters.
func QuantizeTensorWithParams[B tensor.Backend](q *Quantizer, t *tensor.Tensor[float32, B], p Params) (*QuantizedTensor[B], error) {
	codes, err := q.QuantizeWithParams(t.Data(), p)
	if err != nil {
		return nil, fmt.Errorf("quantize tensor %v: %w", t.Shape(), err)
	}

	ct, err := tensor.FromSlice(codes, t.Shape(), t.Backend())
	if err != nil {
		return nil, err
	}

	return &QuantizedTensor[B]{codes: ct, params: p}, nil
}

// Dequantize reconstructs a float32 tensor from the stored codes.
func (qt *QuantizedTensor[B]) Dequantize(q *Quantizer) (*tensor.Tensor[float32, B], error) {
	values, err := q.Dequantize(qt.codes.Data(), qt.params)
	if err != nil {
		return nil, err
	}
	return tensor.FromSlice(values, qt.codes.Shape(), qt.codes.Backend())
}

// Codes returns the code tensor (uint8 storage, one code per element).
func (qt *QuantizedTensor[B]) Codes() *tensor.Tensor[uint8, B] {
	return qt.codes
}

// Params returns the quantization parameters paired with the codes.
func (qt *QuantizedTensor[B]) Params() Params {
	return qt.params
}

// Shape returns the tensor shape (same as the source tensor).
func (qt *QuantizedTensor[B]) Shape() tensor.Shape {
	return qt.codes.Shape()
}

// NumElements returns the total number of codes.
func (qt *QuantizedTensor[B]) NumElements() int {
	return qt.codes.NumElements()
}

// ByteSize returns the in-memory storage cost (one byte per code).
func (qt *QuantizedTensor[B]) ByteSize() int {
	return qt.codes.ByteSize()
}

// PackedSize returns the packed storage cost at the tensor's bit-width:
// ceil(count * bits / 8).
func (qt *QuantizedTensor[B]) PackedSize() int {
	return Footprint(qt.NumElements(), qt.params.Bits)
}

// Packed returns the codes packed at the tensor's bit-width (see Pack).
func (qt *QuantizedTensor[B]) Packed() ([]byte, error) {
	return Pack(qt.codes.Data(), qt.params.Bits)
}

// String returns a human-readable summary.
func (qt *QuantizedTensor[B]) String() string {
	return fmt.Sprintf("QuantizedTensor%v %s", qt.Shape(), qt.params)
}
