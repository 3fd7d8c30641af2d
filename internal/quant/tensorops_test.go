package quant

import (
	"math"
	"testing"

	"github.com/qtensor-ml/qtensor/internal/tensor"
)

func TestQuantizeTensorRoundTrip(t *testing.T) {
	backend := tensor.NewMockBackend()
	q := newQuantizer(t, Config{Bits: 8})

	data := []float32{-1, -0.5, 0, 0.5, 1, 0.25}
	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	qt, err := QuantizeTensor(q, x)
	if err != nil {
		t.Fatalf("QuantizeTensor failed: %v", err)
	}

	if !qt.Shape().Equal(x.Shape()) {
		t.Errorf("shape = %v, want %v", qt.Shape(), x.Shape())
	}
	if qt.Codes().DType() != tensor.Uint8 {
		t.Errorf("code dtype = %v, want Uint8", qt.Codes().DType())
	}
	if qt.ByteSize() != 6 {
		t.Errorf("ByteSize = %d, want 6", qt.ByteSize())
	}

	recon, err := qt.Dequantize(q)
	if err != nil {
		t.Fatalf("Dequantize failed: %v", err)
	}

	p := qt.Params()
	for i, v := range recon.Data() {
		if math.Abs(float64(v-data[i])) > p.Scale {
			t.Errorf("element %d: reconstruction error %v exceeds scale %v", i, v-data[i], p.Scale)
		}
	}
}

func TestQuantizeTensorWithObserverParams(t *testing.T) {
	backend := tensor.NewMockBackend()
	q := newQuantizer(t, Config{Bits: 8})

	// Parameters calibrated on a wider range than the tensor itself.
	p, err := ComputeParams(-2, 2, 8, 0)
	if err != nil {
		t.Fatalf("ComputeParams failed: %v", err)
	}

	x, err := tensor.FromSlice([]float32{-1, 0, 1}, tensor.Shape{3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	qt, err := QuantizeTensorWithParams(q, x, p)
	if err != nil {
		t.Fatalf("QuantizeTensorWithParams failed: %v", err)
	}
	if qt.Params() != p {
		t.Error("stored params should match the externally calibrated ones")
	}
}

func TestQuantizedTensorPacked(t *testing.T) {
	backend := tensor.NewMockBackend()
	q := newQuantizer(t, Config{Bits: 4})

	data := make([]float32, 100)
	for i := range data {
		data[i] = float32(i) / 99
	}
	x, err := tensor.FromSlice(data, tensor.Shape{100}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	qt, err := QuantizeTensor(q, x)
	if err != nil {
		t.Fatalf("QuantizeTensor failed: %v", err)
	}

	if qt.PackedSize() != 50 {
		t.Errorf("PackedSize = %d, want 50", qt.PackedSize())
	}

	packed, err := qt.Packed()
	if err != nil {
		t.Fatalf("Packed failed: %v", err)
	}
	if len(packed) != 50 {
		t.Errorf("packed length = %d, want 50", len(packed))
	}

	unpacked, err := Unpack(packed, 4, 100)
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	for i, c := range qt.Codes().Data() {
		if unpacked[i] != c {
			t.Fatalf("code %d = %d after pack round trip, want %d", i, unpacked[i], c)
		}
	}
}
