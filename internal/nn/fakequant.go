package nn

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/quant"
	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// FakeQuant simulates quantization in the float domain: the forward pass
// quantizes its input to integer codes and immediately dequantizes back to
// float32. The output carries the discretization error a real low-precision
// deployment would see while staying a float tensor, so it can be inserted
// anywhere in a float pipeline to measure quantization sensitivity.
//
// With fixed Params the mapping is idempotent: values already on the
// quantization grid pass through unchanged.
type FakeQuant[B tensor.Backend] struct {
	quantizer *quant.Quantizer
	params    *quant.Params // nil means per-call min-max calibration
}

// NewFakeQuant creates a FakeQuant that calibrates parameters from each
// input's own min-max range.
func NewFakeQuant[B tensor.Backend](q *quant.Quantizer) *FakeQuant[B] {
	return &FakeQuant[B]{quantizer: q}
}

// NewFakeQuantWithParams creates a FakeQuant with fixed, externally
// calibrated parameters (e.g. from a calib.Observer).
func NewFakeQuantWithParams[B tensor.Backend](q *quant.Quantizer, p quant.Params) *FakeQuant[B] {
	return &FakeQuant[B]{quantizer: q, params: &p}
}

// Forward returns quantize-then-dequantize of the input.
func (f *FakeQuant[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	var (
		codes []uint8
		p     quant.Params
		err   error
	)

	if f.params != nil {
		p = *f.params
		codes, err = f.quantizer.QuantizeWithParams(input.Data(), p)
	} else {
		codes, p, err = f.quantizer.Quantize(input.Data())
	}
	if err != nil {
		panic(fmt.Sprintf("FakeQuant.Forward: quantize: %v", err))
	}

	values, err := f.quantizer.Dequantize(codes, p)
	if err != nil {
		panic(fmt.Sprintf("FakeQuant.Forward: dequantize: %v", err))
	}

	out, err := tensor.FromSlice(values, input.Shape(), input.Backend())
	if err != nil {
		panic(fmt.Sprintf("FakeQuant.Forward: %v", err))
	}
	return out
}

// Parameters returns nil; FakeQuant holds no learnable parameters.
func (f *FakeQuant[B]) Parameters() []*Parameter[B] {
	return nil
}
