package qtfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qtensor-ml/qtensor/internal/quant"
)

func writeTestFile(t *testing.T) (string, []uint8, quant.Params, []float32) {
	t.Helper()

	q, err := quant.New(quant.Config{Bits: 4})
	if err != nil {
		t.Fatalf("New quantizer failed: %v", err)
	}

	values := make([]float32, 100)
	for i := range values {
		values[i] = float32(i)/50 - 1 // [-1, 0.98]
	}
	codes, params, err := q.Quantize(values)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}

	bias := []float32{0.5, -0.25, 1.5}

	w := NewWriter()
	w.SetMetadata("model_type", "test")
	if err := w.AddQuantized("layer.weight", []int{10, 10}, codes, params); err != nil {
		t.Fatalf("AddQuantized failed: %v", err)
	}
	if err := w.AddFloat32("layer.bias", []int{3}, bias); err != nil {
		t.Fatalf("AddFloat32 failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.qt")
	if err := w.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path, codes, params, bias
}

func TestWriteReadRoundTrip(t *testing.T) {
	path, codes, params, bias := writeTestFile(t)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if got := r.Header().FormatVersion; got != FormatVersion {
		t.Errorf("FormatVersion = %d, want %d", got, FormatVersion)
	}
	if got := r.Metadata()["model_type"]; got != "test" {
		t.Errorf("Metadata model_type = %q, want %q", got, "test")
	}

	names := r.TensorNames()
	if len(names) != 2 || names[0] != "layer.weight" || names[1] != "layer.bias" {
		t.Errorf("TensorNames = %v", names)
	}

	gotCodes, gotParams, err := r.ReadQuantized("layer.weight")
	if err != nil {
		t.Fatalf("ReadQuantized failed: %v", err)
	}
	if gotParams != params {
		t.Errorf("Params = %+v, want %+v", gotParams, params)
	}
	if len(gotCodes) != len(codes) {
		t.Fatalf("Code count = %d, want %d", len(gotCodes), len(codes))
	}
	for i := range codes {
		if gotCodes[i] != codes[i] {
			t.Fatalf("Code mismatch at %d: got %d, want %d", i, gotCodes[i], codes[i])
		}
	}

	gotBias, err := r.ReadFloat32("layer.bias")
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	for i := range bias {
		if gotBias[i] != bias[i] {
			t.Errorf("Bias mismatch at %d: got %g, want %g", i, gotBias[i], bias[i])
		}
	}
}

func TestPackedStorageSize(t *testing.T) {
	path, codes, params, _ := writeTestFile(t)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	meta, err := r.TensorInfo("layer.weight")
	if err != nil {
		t.Fatalf("TensorInfo failed: %v", err)
	}
	want := int64(quant.Footprint(len(codes), params.Bits))
	if meta.Size != want {
		t.Errorf("Packed size = %d, want %d (100 codes at 4 bits)", meta.Size, want)
	}
	if meta.Bits != 4 {
		t.Errorf("Bits = %d, want 4", meta.Bits)
	}
}

func TestTensorInfoErrors(t *testing.T) {
	path, _, _, _ := writeTestFile(t)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if _, err := r.TensorInfo("missing"); !errors.Is(err, ErrTensorNotFound) {
		t.Errorf("Expected ErrTensorNotFound, got: %v", err)
	}
	if _, _, err := r.ReadQuantized("layer.bias"); err == nil {
		t.Error("ReadQuantized on float32 tensor should fail")
	}
	if _, err := r.ReadFloat32("layer.weight"); err == nil {
		t.Error("ReadFloat32 on quantized tensor should fail")
	}
}

func TestCorruptedDataDetected(t *testing.T) {
	path, _, _, _ := writeTestFile(t)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	// Flip a bit in the last data byte.
	raw[len(raw)-1] ^= 0xff
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Expected ErrChecksumMismatch, got: %v", err)
	}

	// Skipping validation must let the corrupted file open.
	r, err := OpenWithOptions(path, ReaderOptions{SkipChecksumValidation: true})
	if err != nil {
		t.Fatalf("OpenWithOptions failed: %v", err)
	}
	r.Close()
}

func TestInvalidMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.qt")
	if err := os.WriteFile(path, []byte("NOPE\x00\x00\x00\x00\x00\x00\x00\x00"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("Expected ErrInvalidMagic, got: %v", err)
	}
}

func TestWriterRejectsBadInput(t *testing.T) {
	w := NewWriter()

	p := quant.Params{Scale: 0.1, ZeroPoint: 0, Bits: 4}
	if err := w.AddQuantized("w", []int{2, 2}, []uint8{1, 2, 3}, p); err == nil {
		t.Error("Shape/code count mismatch should fail")
	}
	if err := w.AddQuantized("../evil", []int{1}, []uint8{1}, p); err == nil {
		t.Error("Path traversal name should fail")
	}
	if err := w.AddFloat32("b", []int{2}, []float32{1, 2}); err != nil {
		t.Fatalf("AddFloat32 failed: %v", err)
	}
	if err := w.AddFloat32("b", []int{2}, []float32{1, 2}); !errors.Is(err, ErrDuplicateTensor) {
		t.Errorf("Expected ErrDuplicateTensor, got: %v", err)
	}
}

func TestReadFromStream(t *testing.T) {
	q, err := quant.New(quant.Config{Bits: 8})
	if err != nil {
		t.Fatalf("New quantizer failed: %v", err)
	}
	codes, params, err := q.Quantize([]float32{-1, -0.5, 0, 0.5, 1})
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}

	w := NewWriter()
	if err := w.AddQuantized("t", []int{5}, codes, params); err != nil {
		t.Fatalf("AddQuantized failed: %v", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	header, regions, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if len(header.Tensors) != 1 {
		t.Fatalf("Tensor count = %d, want 1", len(header.Tensors))
	}
	meta := header.Tensors[0]
	if meta.Name != "t" || meta.Bits != 8 {
		t.Errorf("Meta = %+v", meta)
	}

	unpacked, err := quant.Unpack(regions["t"], meta.Bits, meta.NumElements())
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	for i := range codes {
		if unpacked[i] != codes[i] {
			t.Fatalf("Code mismatch at %d", i)
		}
	}
}

func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantErr  bool
	}{
		{
			name: "valid adjacent",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 10},
				{Name: "b", Offset: 10, Size: 10},
			},
			dataSize: 20,
		},
		{
			name: "overlap",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 15},
				{Name: "b", Offset: 10, Size: 10},
			},
			dataSize: 20,
			wantErr:  true,
		},
		{
			name: "out of bounds",
			tensors: []TensorMeta{
				{Name: "a", Offset: 0, Size: 30},
			},
			dataSize: 20,
			wantErr:  true,
		},
		{
			name: "negative offset",
			tensors: []TensorMeta{
				{Name: "a", Offset: -5, Size: 10},
			},
			dataSize: 20,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateTensorName(t *testing.T) {
	valid := []string{"weight", "layer.0.weight", "bias_1"}
	for _, name := range valid {
		if err := ValidateTensorName(name); err != nil {
			t.Errorf("ValidateTensorName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"../etc/passwd", "a/b", "a\\b", "nul\x00byte"}
	for _, name := range invalid {
		if err := ValidateTensorName(name); err == nil {
			t.Errorf("ValidateTensorName(%q) = nil, want error", name)
		}
	}
}
