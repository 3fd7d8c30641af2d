package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtensor-ml/qtensor/internal/backend/cpu"
	"github.com/qtensor-ml/qtensor/internal/nn"
	"github.com/qtensor-ml/qtensor/internal/quant"
	"github.com/qtensor-ml/qtensor/internal/tensor"
)

func TestParameter(t *testing.T) {
	backend := cpu.New()

	data, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	param := nn.NewParameter("test_param", data)
	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, data, param.Tensor())
	assert.Equal(t, 3, param.NumElements())
}

func TestLinear_Creation(t *testing.T) {
	backend := cpu.New()

	layer := nn.NewLinear(10, 5, backend)

	assert.Equal(t, 10, layer.InFeatures())
	assert.Equal(t, 5, layer.OutFeatures())
	assert.Equal(t, []int{5, 10}, []int(layer.Weight().Tensor().Shape()))
	assert.Equal(t, []int{5}, []int(layer.Bias().Tensor().Shape()))

	// Xavier bound for fan_in=10, fan_out=5.
	bound := float32(math.Sqrt(6.0 / 15.0))
	for _, w := range layer.Weight().Tensor().Data() {
		assert.LessOrEqual(t, w, bound)
		assert.GreaterOrEqual(t, w, -bound)
	}
	for _, b := range layer.Bias().Tensor().Data() {
		assert.Zero(t, b)
	}
}

func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()

	// W = [[1, 2], [3, 4], [5, 6]], b = [0.5, -0.5, 1]
	weight, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, backend)
	require.NoError(t, err)
	bias, err := tensor.FromSlice([]float32{0.5, -0.5, 1}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	layer, err := nn.NewLinearFromWeights(weight, bias, backend)
	require.NoError(t, err)

	input, err := tensor.FromSlice([]float32{1, 1, 2, -1}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	output := layer.Forward(input)
	assert.Equal(t, []int{2, 3}, []int(output.Shape()))

	// Row 0: [1*1+2*1, 3*1+4*1, 5*1+6*1] + b = [3.5, 6.5, 12]
	// Row 1: [1*2-2*1, 3*2-4*1, 5*2-6*1] + b = [0.5, 1.5, 5]
	expected := []float32{3.5, 6.5, 12, 0.5, 1.5, 5}
	for i, exp := range expected {
		assert.InDelta(t, exp, output.Data()[i], 1e-5, "Linear output mismatch at index %d", i)
	}
}

func TestLinear_ForwardNoBias(t *testing.T) {
	backend := cpu.New()

	weight, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	layer, err := nn.NewLinearFromWeights(weight, nil, backend)
	require.NoError(t, err)
	assert.Nil(t, layer.Bias())
	assert.Len(t, layer.Parameters(), 1)

	input, err := tensor.FromSlice([]float32{1, 0}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	output := layer.Forward(input)
	assert.InDelta(t, 1.0, output.Data()[0], 1e-5)
	assert.InDelta(t, 3.0, output.Data()[1], 1e-5)
}

func TestLinear_FromWeightsValidation(t *testing.T) {
	backend := cpu.New()

	w1d, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	_, err = nn.NewLinearFromWeights(w1d, nil, backend)
	assert.Error(t, err, "1D weight should be rejected")

	w, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	badBias, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	_, err = nn.NewLinearFromWeights(w, badBias, backend)
	assert.Error(t, err, "mismatched bias should be rejected")
}

func TestReLU_Forward(t *testing.T) {
	backend := cpu.New()

	input, err := tensor.FromSlice([]float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5}, backend)
	require.NoError(t, err)

	relu := nn.NewReLU[*cpu.CPUBackend]()
	output := relu.Forward(input)

	expected := []float32{0, 0, 0, 0.5, 2}
	for i, exp := range expected {
		assert.InDelta(t, exp, output.Data()[i], 1e-6, "ReLU mismatch at index %d", i)
	}
	assert.Nil(t, relu.Parameters())
}

func TestSequential_Forward(t *testing.T) {
	backend := cpu.New()

	w1, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	l1, err := nn.NewLinearFromWeights(w1, nil, backend)
	require.NoError(t, err)

	w2, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)
	l2, err := nn.NewLinearFromWeights(w2, nil, backend)
	require.NoError(t, err)

	model := nn.NewSequential[*cpu.CPUBackend](l1, nn.NewReLU[*cpu.CPUBackend](), l2)
	assert.Len(t, model.Modules(), 3)
	assert.Len(t, model.Parameters(), 2)

	input, err := tensor.FromSlice([]float32{3, -4}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	// identity -> ReLU([3,-4]) = [3,0] -> sum = 3
	output := model.Forward(input)
	assert.InDelta(t, 3.0, output.Data()[0], 1e-5)
}

func TestQuantLinear_MatchesFloatLinear(t *testing.T) {
	backend := cpu.New()

	weight := tensor.Randn[float32](tensor.Shape{16, 8}, backend)
	bias := tensor.Randn[float32](tensor.Shape{16}, backend)
	layer, err := nn.NewLinearFromWeights(weight, bias, backend)
	require.NoError(t, err)

	q, err := quant.New(quant.Config{Bits: 8})
	require.NoError(t, err)

	qlayer, err := nn.QuantizeLinear(layer, q)
	require.NoError(t, err)
	assert.Equal(t, 8, qlayer.InFeatures())
	assert.Equal(t, 16, qlayer.OutFeatures())

	input := tensor.Randn[float32](tensor.Shape{4, 8}, backend)
	want := layer.Forward(input)
	got := qlayer.Forward(input)
	require.Equal(t, []int(want.Shape()), []int(got.Shape()))

	// Per-weight error is bounded by scale/2; accumulated over in_features=8
	// the output error stays small at 8 bits.
	scale := qlayer.Weight().Params().Scale
	tol := scale * 8 * 4 // generous slack over the worst case
	for i := range want.Data() {
		assert.InDelta(t, want.Data()[i], got.Data()[i], tol, "QuantLinear output diverged at index %d", i)
	}
}

func TestQuantLinear_Storage(t *testing.T) {
	backend := cpu.New()

	layer := nn.NewLinear(64, 32, backend)

	q, err := quant.New(quant.Config{Bits: 4})
	require.NoError(t, err)

	qlayer, err := nn.QuantizeLinear(layer, q)
	require.NoError(t, err)

	// 64*32 weights: one code byte each in memory, half a byte each packed.
	assert.Equal(t, 64*32, qlayer.WeightBytes())
	assert.Equal(t, 64*32/2, qlayer.PackedWeightBytes())
	assert.Equal(t, 4, qlayer.Weight().Params().Bits)

	// Only the bias remains a float parameter.
	params := qlayer.Parameters()
	require.Len(t, params, 1)
	assert.Equal(t, "bias", params[0].Name())
}

func TestFakeQuant_Idempotent(t *testing.T) {
	backend := cpu.New()

	q, err := quant.New(quant.Config{Bits: 8})
	require.NoError(t, err)

	input := tensor.Randn[float32](tensor.Shape{4, 16}, backend)

	fq := nn.NewFakeQuant[*cpu.CPUBackend](q)
	once := fq.Forward(input)

	// Re-quantizing with the parameters from the first pass must be a no-op:
	// the values already sit on the quantization grid.
	_, p, err := q.Quantize(input.Data())
	require.NoError(t, err)

	fixed := nn.NewFakeQuantWithParams[*cpu.CPUBackend](q, p)
	twice := fixed.Forward(once)

	for i := range once.Data() {
		assert.InDelta(t, once.Data()[i], twice.Data()[i], 1e-6, "FakeQuant not idempotent at index %d", i)
	}
}

func TestFakeQuant_ErrorBound(t *testing.T) {
	backend := cpu.New()

	q, err := quant.New(quant.Config{Bits: 4})
	require.NoError(t, err)

	input := tensor.Randn[float32](tensor.Shape{256}, backend)

	fq := nn.NewFakeQuant[*cpu.CPUBackend](q)
	output := fq.Forward(input)

	_, p, err := q.Quantize(input.Data())
	require.NoError(t, err)

	halfStep := p.Scale/2 + 1e-6
	for i := range input.Data() {
		diff := math.Abs(float64(input.Data()[i] - output.Data()[i]))
		assert.LessOrEqual(t, diff, halfStep, "FakeQuant error exceeds half a step at index %d", i)
	}
}
