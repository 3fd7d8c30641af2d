package cpu

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/parallel"
	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// number mirrors the tensor.DType constraint for kernel helpers.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// binOp selects the element-wise binary operation.
type binOp int

const (
	addOp binOp = iota
	subOp
	mulOp
	divOp
)

// opFunc returns the typed operation for a binOp.
func opFunc[T number](op binOp) func(T, T) T {
	switch op {
	case addOp:
		return func(x, y T) T { return x + y }
	case subOp:
		return func(x, y T) T { return x - y }
	case mulOp:
		return func(x, y T) T { return x * y }
	case divOp:
		return func(x, y T) T { return x / y }
	default:
		panic(fmt.Sprintf("unknown binary op %d", op))
	}
}

// binaryVectorized applies op element-wise over same-shape contiguous tensors.
func binaryVectorized(dst, a, b *tensor.RawTensor, op binOp, cfg parallel.Config) {
	switch dst.DType() {
	case tensor.Float32:
		binaryLoop(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), opFunc[float32](op), cfg)
	case tensor.Float64:
		binaryLoop(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), opFunc[float64](op), cfg)
	case tensor.Int32:
		binaryLoop(dst.AsInt32(), a.AsInt32(), b.AsInt32(), opFunc[int32](op), cfg)
	case tensor.Int64:
		binaryLoop(dst.AsInt64(), a.AsInt64(), b.AsInt64(), opFunc[int64](op), cfg)
	case tensor.Uint8:
		binaryLoop(dst.AsUint8(), a.AsUint8(), b.AsUint8(), opFunc[uint8](op), cfg)
	default:
		panic("unsupported dtype")
	}
}

func binaryLoop[T number](dst, a, b []T, f func(T, T) T, cfg parallel.Config) {
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(a[i], b[i])
		}
	}, cfg)
}

// binaryBroadcast applies op element-wise with NumPy-style broadcasting.
// The slow path walks the output index space and maps each coordinate back
// into a and b with stride 0 on broadcast dimensions.
func binaryBroadcast(dst, a, b *tensor.RawTensor, op binOp, outShape tensor.Shape) {
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()
	n := outShape.NumElements()

	switch dst.DType() {
	case tensor.Float32:
		broadcastLoop(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), opFunc[float32](op), outStrides, aStrides, bStrides, n)
	case tensor.Float64:
		broadcastLoop(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), opFunc[float64](op), outStrides, aStrides, bStrides, n)
	case tensor.Int32:
		broadcastLoop(dst.AsInt32(), a.AsInt32(), b.AsInt32(), opFunc[int32](op), outStrides, aStrides, bStrides, n)
	case tensor.Int64:
		broadcastLoop(dst.AsInt64(), a.AsInt64(), b.AsInt64(), opFunc[int64](op), outStrides, aStrides, bStrides, n)
	case tensor.Uint8:
		broadcastLoop(dst.AsUint8(), a.AsUint8(), b.AsUint8(), opFunc[uint8](op), outStrides, aStrides, bStrides, n)
	default:
		panic("unsupported dtype")
	}
}

// broadcastStrides computes effective strides for reading a tensor of shape
// `in` as if it had shape `out`: broadcast dimensions get stride 0.
func broadcastStrides(in, out tensor.Shape) []int {
	inStrides := in.ComputeStrides()
	strides := make([]int, len(out))

	for i := 0; i < len(out); i++ {
		inIdx := len(in) - len(out) + i
		if inIdx < 0 || in[inIdx] == 1 {
			strides[i] = 0
		} else {
			strides[i] = inStrides[inIdx]
		}
	}
	return strides
}

func broadcastLoop[T number](dst, a, b []T, f func(T, T) T, outStrides, aStrides, bStrides []int, n int) {
	dims := len(outStrides)
	for i := 0; i < n; i++ {
		aOff, bOff := 0, 0
		rem := i
		for d := 0; d < dims; d++ {
			idx := rem / outStrides[d]
			rem %= outStrides[d]
			aOff += idx * aStrides[d]
			bOff += idx * bStrides[d]
		}
		dst[i] = f(a[aOff], b[bOff])
	}
}
