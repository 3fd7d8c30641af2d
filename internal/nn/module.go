// Package nn implements forward-only neural network modules for
// quantization experiments.
//
// The building blocks:
//   - Module interface: base interface for all components
//   - Parameter: named weight/bias tensors
//   - Linear: fully connected layer
//   - QuantLinear: Linear with weight-only affine quantization
//   - FakeQuant: quantize-dequantize pass-through for QAT simulation
//   - ReLU, Sequential
//
// There is no gradient tracking: these modules measure what quantization
// does to inference.
package nn

import (
	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into larger models:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[*cpu.CPUBackend](),
//	    nn.NewLinear(128, 10, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all named parameters of this module, including
	// nested module parameters. Modules without parameters (activations)
	// return an empty slice.
	Parameters() []*Parameter[B]
}
