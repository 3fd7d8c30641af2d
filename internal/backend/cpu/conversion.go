package cpu

import (
	"fmt"

	"github.com/qtensor-ml/qtensor/internal/tensor"
)

// Cast converts a tensor to a different data type.
// Values are widened to float64 and narrowed with Go conversion semantics;
// quantization code never relies on Cast for round-and-clip, which lives in
// the quant package with an explicit rounding policy.
func (c *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, c.device)
	if err != nil {
		panic(fmt.Sprintf("cast: failed to create result tensor: %v", err))
	}

	var store func(i int, v float64)
	switch dtype {
	case tensor.Float32:
		dst := result.AsFloat32()
		store = func(i int, v float64) { dst[i] = float32(v) }
	case tensor.Float64:
		dst := result.AsFloat64()
		store = func(i int, v float64) { dst[i] = v }
	case tensor.Int32:
		dst := result.AsInt32()
		store = func(i int, v float64) { dst[i] = int32(v) }
	case tensor.Int64:
		dst := result.AsInt64()
		store = func(i int, v float64) { dst[i] = int64(v) }
	case tensor.Uint8:
		dst := result.AsUint8()
		store = func(i int, v float64) { dst[i] = uint8(v) }
	default:
		panic(fmt.Sprintf("cast: unsupported dtype %s", dtype))
	}

	i := 0
	forEachFloat64(x, func(v float64) {
		store(i, v)
		i++
	})

	return result
}
