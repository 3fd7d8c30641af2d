// Copyright 2025 QTensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/qtensor-ml/qtensor/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go with chunked parallel kernels
//
// Backends are passed explicitly to tensor constructors; there is no global
// backend registry or implicit device selection.
//
// Example:
//
//	import (
//	    "github.com/qtensor-ml/qtensor/tensor"
//	    "github.com/qtensor-ml/qtensor/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend = tensor.Backend
