// Copyright 2025 QTensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/qtensor-ml/qtensor/internal/nn"
	"github.com/qtensor-ml/qtensor/internal/quant"
	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a named float parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 128, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearFromWeights creates a linear layer from existing weight and bias
// tensors. bias may be nil.
func NewLinearFromWeights[B tensor.Backend](weight, bias *tensor.Tensor[float32, B], backend B) (*Linear[B], error) {
	return nn.NewLinearFromWeights(weight, bias, backend)
}

// QuantLinear is a Linear layer whose weight is stored as affine-quantized
// integer codes.
type QuantLinear[B tensor.Backend] = nn.QuantLinear[B]

// QuantizeLinear converts a float Linear layer into a QuantLinear.
//
// Example:
//
//	q, _ := quant.New(quant.Config{Bits: 4})
//	qlayer, err := nn.QuantizeLinear(layer, q)
func QuantizeLinear[B tensor.Backend](l *Linear[B], q *quant.Quantizer) (*QuantLinear[B], error) {
	return nn.QuantizeLinear(l, q)
}

// FakeQuant simulates quantization in the float domain by quantizing and
// immediately dequantizing its input.
type FakeQuant[B tensor.Backend] = nn.FakeQuant[B]

// NewFakeQuant creates a FakeQuant that calibrates from each input's range.
func NewFakeQuant[B tensor.Backend](q *quant.Quantizer) *FakeQuant[B] {
	return nn.NewFakeQuant[B](q)
}

// NewFakeQuantWithParams creates a FakeQuant with fixed parameters.
func NewFakeQuantWithParams[B tensor.Backend](q *quant.Quantizer, p quant.Params) *FakeQuant[B] {
	return nn.NewFakeQuantWithParams[B](q, p)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Containers

// Sequential chains modules, feeding each output into the next module.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}
