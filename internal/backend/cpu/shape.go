package cpu

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// Reshape returns a tensor with the same data and a new shape.
// The element count must be unchanged; data is shared copy-on-write.
func (c *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			t.Shape(), t.NumElements(), newShape, newShape.NumElements()))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("reshape: failed to create result tensor: %v", err))
	}
	copy(result.Data(), t.Data()[:t.ByteSize()])
	return result
}

// Transpose permutes the tensor's dimensions.
// Empty axes reverse all dimensions (standard transpose for 2D).
func (c *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	dims := len(shape)

	if len(axes) == 0 {
		axes = make([]int, dims)
		for i := range axes {
			axes[i] = dims - 1 - i
		}
	}
	if len(axes) != dims {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", dims, len(axes)))
	}

	seen := make([]bool, dims)
	newShape := make(tensor.Shape, dims)
	for i, ax := range axes {
		if ax < 0 || ax >= dims || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes permutation %v for shape %v", axes, shape))
		}
		seen[ax] = true
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: failed to create result tensor: %v", err))
	}

	srcStrides := t.Strides()
	dstStrides := newShape.ComputeStrides()
	n := t.NumElements()
	elemSize := t.DType().Size()
	src, dst := t.Data(), result.Data()

	// Walk the output index space; map each coordinate back to the source.
	for i := 0; i < n; i++ {
		srcOff := 0
		rem := i
		for d := 0; d < dims; d++ {
			idx := rem / dstStrides[d]
			rem %= dstStrides[d]
			srcOff += idx * srcStrides[axes[d]]
		}
		copy(dst[i*elemSize:(i+1)*elemSize], src[srcOff*elemSize:(srcOff+1)*elemSize])
	}

	return result
}
