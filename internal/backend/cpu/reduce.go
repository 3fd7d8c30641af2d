package cpu

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// Sum returns the total sum of all elements as a 0-D tensor.
func (c *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return c.reduce("sum", x, func(acc, v float64) float64 { return acc + v }, 0)
}

// Min returns the minimum element as a 0-D tensor.
// Panics on empty tensors (shape validation prevents zero-size tensors).
func (c *CPUBackend) Min(x *tensor.RawTensor) *tensor.RawTensor {
	return c.reduceFromFirst("min", x, func(acc, v float64) float64 {
		if v < acc {
			return v
		}
		return acc
	})
}

// Max returns the maximum element as a 0-D tensor.
func (c *CPUBackend) Max(x *tensor.RawTensor) *tensor.RawTensor {
	return c.reduceFromFirst("max", x, func(acc, v float64) float64 {
		if v > acc {
			return v
		}
		return acc
	})
}

func (c *CPUBackend) reduce(name string, x *tensor.RawTensor, f func(acc, v float64) float64, init float64) *tensor.RawTensor {
	acc := init
	forEachFloat64(x, func(v float64) {
		acc = f(acc, v)
	})
	return c.scalarResult(name, x, acc)
}

func (c *CPUBackend) reduceFromFirst(name string, x *tensor.RawTensor, f func(acc, v float64) float64) *tensor.RawTensor {
	first := true
	var acc float64
	forEachFloat64(x, func(v float64) {
		if first {
			acc = v
			first = false
			return
		}
		acc = f(acc, v)
	})
	return c.scalarResult(name, x, acc)
}

// forEachFloat64 visits every element widened to float64.
func forEachFloat64(x *tensor.RawTensor, visit func(v float64)) {
	switch x.DType() {
	case tensor.Float32:
		for _, v := range x.AsFloat32() {
			visit(float64(v))
		}
	case tensor.Float64:
		for _, v := range x.AsFloat64() {
			visit(v)
		}
	case tensor.Int32:
		for _, v := range x.AsInt32() {
			visit(float64(v))
		}
	case tensor.Int64:
		for _, v := range x.AsInt64() {
			visit(float64(v))
		}
	case tensor.Uint8:
		for _, v := range x.AsUint8() {
			visit(float64(v))
		}
	default:
		panic("unsupported dtype")
	}
}

// scalarResult materializes a float64 accumulator as a 0-D tensor of x's dtype.
func (c *CPUBackend) scalarResult(name string, x *tensor.RawTensor, value float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{}, x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = float32(value)
	case tensor.Float64:
		result.AsFloat64()[0] = value
	case tensor.Int32:
		result.AsInt32()[0] = int32(value)
	case tensor.Int64:
		result.AsInt64()[0] = int64(value)
	case tensor.Uint8:
		result.AsUint8()[0] = uint8(value)
	default:
		panic("unsupported dtype")
	}

	return result
}
