package nn

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/quant"
	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// QuantLinear is a Linear layer whose weight matrix is stored as affine-
// quantized integer codes (weight-only post-training quantization).
//
// The forward pass dequantizes the weight on the fly and otherwise matches
// Linear exactly: activations stay in float32, only the weight storage
// changes. The bias, a vector dwarfed by the weight matrix, stays float32.
type QuantLinear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *quant.QuantizedTensor[B] // [out_features, in_features]
	bias        *Parameter[B]             // [out_features], may be nil
	quantizer   *quant.Quantizer
	backend     B
}

// QuantizeLinear converts a float Linear layer into a QuantLinear by
// quantizing its weight with min-max calibration over the weight tensor.
func QuantizeLinear[B tensor.Backend](l *Linear[B], q *quant.Quantizer) (*QuantLinear[B], error) {
	w, err := quant.QuantizeTensor(q, l.Weight().Tensor())
	if err != nil {
		return nil, fmt.Errorf("quantize linear weight: %w", err)
	}

	return &QuantLinear[B]{
		inFeatures:  l.InFeatures(),
		outFeatures: l.OutFeatures(),
		weight:      w,
		bias:        l.Bias(),
		quantizer:   q,
		backend:     l.backend,
	}, nil
}

// Forward computes y = x @ dequantize(W).T + b.
func (l *QuantLinear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("QuantLinear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("QuantLinear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	w, err := l.weight.Dequantize(l.quantizer)
	if err != nil {
		panic(fmt.Sprintf("QuantLinear.Forward: dequantize weight: %v", err))
	}

	output := input.MatMul(w.T())

	if l.bias != nil {
		output = output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
	}

	return output
}

// Parameters returns the float parameters of the layer (only the bias;
// the quantized weight is not a float tensor).
func (l *QuantLinear[B]) Parameters() []*Parameter[B] {
	if l.bias != nil {
		return []*Parameter[B]{l.bias}
	}
	return nil
}

// InFeatures returns the input feature count.
func (l *QuantLinear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output feature count.
func (l *QuantLinear[B]) OutFeatures() int {
	return l.outFeatures
}

// Weight returns the quantized weight tensor.
func (l *QuantLinear[B]) Weight() *quant.QuantizedTensor[B] {
	return l.weight
}

// WeightBytes returns the in-memory weight storage in bytes (one code per
// element). Compare with 4*NumElements for the float32 layer.
func (l *QuantLinear[B]) WeightBytes() int {
	return l.weight.ByteSize()
}

// PackedWeightBytes returns the packed weight storage at the quantizer's
// bit-width: ceil(count * bits / 8).
func (l *QuantLinear[B]) PackedWeightBytes() int {
	return l.weight.PackedSize()
}
