package qtfile

import "time"

// Format constants.
const (
	MagicBytes      = "QTSR"
	FormatVersion   = 1
	HeaderAlignment = 64 // Align tensor data to 64 bytes
	ChecksumSize    = 32 // SHA-256 checksum size
	// Fixed prelude: magic + version + flags + checksum + header size.
	preludeSize = 4 + 4 + 4 + ChecksumSize + 8
)

// Data type string constants for serialization.
const (
	DTypeFloat32 = "float32"
	DTypeQuant   = "quant" // bit-packed affine codes
)

// Flags for the .qt format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

// Header is the JSON header of a .qt file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	WriterVersion string            `json:"qtensor_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// TensorMeta describes one tensor in the data section.
//
// For DType "quant" the data is the bit-packed code stream and Bits,
// Scale and ZeroPoint carry the affine parameters. For DType "float32"
// the data is raw little-endian float32 values and the quantization
// fields are zero.
type TensorMeta struct {
	Name      string  `json:"name"`
	DType     string  `json:"dtype"`
	Shape     []int   `json:"shape"`
	Bits      int     `json:"bits,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	ZeroPoint float64 `json:"zero_point,omitempty"`
	Offset    int64   `json:"offset"`
	Size      int64   `json:"size"`
}

// NumElements returns the element count implied by the shape.
func (m *TensorMeta) NumElements() int {
	n := 1
	for _, dim := range m.Shape {
		n *= dim
	}
	return n
}
