// Copyright 2025 QTensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend for QTensor.
//
// All operations are implemented in pure Go. Element-wise kernels and
// matrix multiplication split their work across a bounded worker pool when
// tensors are large enough to benefit.
package cpu
