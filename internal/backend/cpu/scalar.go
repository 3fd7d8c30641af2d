package cpu

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// AddScalar adds a scalar to every element.
func (c *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return c.scalarOp("addscalar", x, scalar, addOp)
}

// MulScalar multiplies every element by a scalar.
func (c *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return c.scalarOp("mulscalar", x, scalar, mulOp)
}

func (c *CPUBackend) scalarOp(name string, x *tensor.RawTensor, scalar any, op binOp) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	s := scalarToFloat64(name, scalar)

	switch x.DType() {
	case tensor.Float32:
		scalarLoop(result.AsFloat32(), x.AsFloat32(), float32(s), opFunc[float32](op))
	case tensor.Float64:
		scalarLoop(result.AsFloat64(), x.AsFloat64(), s, opFunc[float64](op))
	case tensor.Int32:
		scalarLoop(result.AsInt32(), x.AsInt32(), int32(s), opFunc[int32](op))
	case tensor.Int64:
		scalarLoop(result.AsInt64(), x.AsInt64(), int64(s), opFunc[int64](op))
	case tensor.Uint8:
		scalarLoop(result.AsUint8(), x.AsUint8(), uint8(s), opFunc[uint8](op))
	default:
		panic("unsupported dtype")
	}

	return result
}

func scalarLoop[T number](dst, src []T, s T, f func(T, T) T) {
	for i := range src {
		dst[i] = f(src[i], s)
	}
}

// scalarToFloat64 normalizes the accepted scalar types.
func scalarToFloat64(name string, scalar any) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	case uint8:
		return float64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", name, scalar))
	}
}
