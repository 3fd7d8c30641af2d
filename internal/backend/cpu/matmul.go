package cpu

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/parallel"
	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
// Rows of the output are computed in parallel for large matrices.
func (c *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: inner dimensions do not match: %v @ %v", aShape, bShape))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]

	result, err := tensor.NewRaw(tensor.Shape{m, n}, a.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	// Row-parallel work split: each worker owns disjoint output rows.
	rowCfg := c.par
	rowCfg.MinChunkSize = max(1, rowCfg.MinChunkSize/max(1, k*n))

	switch a.DType() {
	case tensor.Float32:
		matmulLoop(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n, rowCfg)
	case tensor.Float64:
		matmulLoop(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n, rowCfg)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmulLoop uses the i-k-j loop order for cache-friendly row access.
func matmulLoop[T ~float32 | ~float64](dst, a, b []T, m, k, n int, cfg parallel.Config) {
	parallel.ForRange(m, func(start, end int) {
		for i := start; i < end; i++ {
			dstRow := dst[i*n : (i+1)*n]
			for kk := 0; kk < k; kk++ {
				aik := a[i*k+kk]
				if aik == 0 {
					continue
				}
				bRow := b[kk*n : (kk+1)*n]
				for j := range dstRow {
					dstRow[j] += aik * bRow[j]
				}
			}
		}
	}, cfg)
}
