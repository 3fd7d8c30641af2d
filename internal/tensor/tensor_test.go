package tensor

import (
	"math"
	"testing"
)

// Test helpers

func assertEqualFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		str   string
	}{
		{Float32, "float32"},
		{Float64, "float64"},
		{Int32, "int32"},
		{Int64, "int64"},
		{Uint8, "uint8"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("%s.String() = %q, want %q", tt.dtype, got, tt.str)
		}
	}
}

func TestInferDataType(t *testing.T) {
	if dt := inferDataType(float32(0)); dt != Float32 {
		t.Errorf("inferDataType(float32) = %v, want Float32", dt)
	}
	if dt := inferDataType(float64(0)); dt != Float64 {
		t.Errorf("inferDataType(float64) = %v, want Float64", dt)
	}
	if dt := inferDataType(uint8(0)); dt != Uint8 {
		t.Errorf("inferDataType(uint8) = %v, want Uint8", dt)
	}
}

// Shape Tests

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1}, // Scalar
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("zero dimension accepted")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
}

func TestShapeComputeStrides(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected []int
	}{
		{Shape{5}, []int{1}},
		{Shape{2, 3}, []int{3, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
	}

	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.expected) {
			t.Fatalf("%v.ComputeStrides() = %v, want %v", tt.shape, got, tt.expected)
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("%v.ComputeStrides() = %v, want %v", tt.shape, got, tt.expected)
				break
			}
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	result, needs, err := BroadcastShapes(Shape{3, 1}, Shape{3, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(Shape{3, 5}) || !needs {
		t.Errorf("BroadcastShapes(3x1, 3x5) = %v, %v", result, needs)
	}

	result, needs, err = BroadcastShapes(Shape{3, 5}, Shape{3, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(Shape{3, 5}) || needs {
		t.Errorf("BroadcastShapes(3x5, 3x5) = %v, %v", result, needs)
	}

	if _, _, err := BroadcastShapes(Shape{3, 4}, Shape{3, 5}); err == nil {
		t.Error("incompatible shapes accepted")
	}
}

// RawTensor Tests

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(Shape{2, 3}) {
		t.Errorf("shape = %v, want [2 3]", raw.Shape())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize = %d, want 24", raw.ByteSize())
	}

	if _, err := NewRaw(Shape{0}, Float32, CPU); err == nil {
		t.Error("invalid shape accepted")
	}
}

func TestRawTensorClone(t *testing.T) {
	raw, err := NewRaw(Shape{4}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.IsUnique() {
		t.Error("fresh tensor should be unique")
	}

	clone := raw.Clone()
	if raw.IsUnique() || clone.IsUnique() {
		t.Error("cloned tensors should share the buffer")
	}

	// Clone shares memory until written.
	raw.AsFloat32()[0] = 42
	if clone.AsFloat32()[0] != 42 {
		t.Error("clone should see shared buffer writes")
	}

	clone.Release()
	if !raw.IsUnique() {
		t.Error("release should restore uniqueness")
	}
}

// Tensor Tests

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()
	data := []float32{1, 2, 3, 4, 5, 6}

	x, err := FromSlice(data, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	assertEqualFloat32(t, 1, x.At(0, 0), "At(0,0)")
	assertEqualFloat32(t, 6, x.At(1, 2), "At(1,2)")

	if _, err := FromSlice(data, Shape{2, 2}, backend); err == nil {
		t.Error("mismatched shape accepted")
	}
}

func TestTensorSetAt(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{3, 3}, backend)

	x.Set(7.5, 1, 2)
	assertEqualFloat32(t, 7.5, x.At(1, 2), "Set/At round-trip")
	assertEqualFloat32(t, 0, x.At(2, 1), "untouched element")
}

func TestCreationFunctions(t *testing.T) {
	backend := NewMockBackend()

	ones := Ones[float32](Shape{2, 2}, backend)
	for _, v := range ones.Data() {
		assertEqualFloat32(t, 1, v, "Ones element")
	}

	full := Full[float32](Shape{3}, 2.5, backend)
	for _, v := range full.Data() {
		assertEqualFloat32(t, 2.5, v, "Full element")
	}

	ar := Arange[int32](0, 5, backend)
	for i, v := range ar.Data() {
		if v != int32(i) {
			t.Errorf("Arange[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestLinspace(t *testing.T) {
	backend := NewMockBackend()

	x := Linspace[float32](0, 1, 5, backend)
	expected := []float32{0, 0.25, 0.5, 0.75, 1}
	for i, v := range x.Data() {
		assertEqualFloat32(t, expected[i], v, "Linspace element")
	}

	// Endpoint is exact even when the step does not divide evenly.
	y := Linspace[float64](0, 1, 3, backend)
	if y.Data()[2] != 1.0 {
		t.Errorf("Linspace endpoint = %v, want 1.0", y.Data()[2])
	}
}

func TestRandn(t *testing.T) {
	backend := NewMockBackend()
	x := Randn[float64](Shape{1000}, backend)

	var sum float64
	for _, v := range x.Data() {
		sum += v
	}
	mean := sum / 1000

	// Loose sanity check on the sample mean of N(0, 1).
	if math.Abs(mean) > 0.2 {
		t.Errorf("Randn sample mean = %v, expected near 0", mean)
	}
}

func TestTensorItem(t *testing.T) {
	backend := NewMockBackend()

	scalar := Zeros[float32](Shape{}, backend)
	scalar.Data()[0] = 3.5
	assertEqualFloat32(t, 3.5, scalar.Item(), "Item")

	defer func() {
		if recover() == nil {
			t.Error("Item on non-scalar should panic")
		}
	}()
	Zeros[float32](Shape{2}, backend).Item()
}
