// Copyright 2025 QTensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/qtensor-ml/qtensor/internal/backend/cpu"
	"github.com/qtensor-ml/qtensor/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of all tensor operations
// with chunked worker-pool parallelism for large tensors.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/qtensor-ml/qtensor/backend/cpu"
//	    "github.com/qtensor-ml/qtensor/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend with parallel execution disabled.
// Useful for deterministic profiling and small workloads.
func NewSequential() *Backend {
	return internalcpu.NewSequential()
}
