// Copyright 2025 QTensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network modules in QTensor.
//
// Modules are forward-only building blocks: Linear, ReLU and Sequential for
// float networks, plus QuantLinear and FakeQuant for weight quantization and
// quantization error simulation.
//
// Example:
//
//	backend := cpu.New()
//	model := nn.NewSequential[*cpu.Backend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[*cpu.Backend](),
//	    nn.NewLinear(128, 10, backend),
//	)
//	output := model.Forward(input)
package nn
