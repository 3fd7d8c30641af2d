package qtfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/qtensor-ml/qtensor/internal/quant"
)

const writerVersion = "0.1.0"

// Writer assembles a .qt file in memory. Tensors are added one by one and
// the file is produced by WriteTo or WriteFile. Building in memory keeps
// the checksum in the fixed prelude without a second pass over the file.
type Writer struct {
	tensors  []TensorMeta
	data     bytes.Buffer
	names    map[string]struct{}
	metadata map[string]string
}

// NewWriter creates an empty .qt writer.
func NewWriter() *Writer {
	return &Writer{
		names: make(map[string]struct{}),
	}
}

// SetMetadata attaches a custom metadata key/value pair to the header.
func (w *Writer) SetMetadata(key, value string) {
	if w.metadata == nil {
		w.metadata = make(map[string]string)
	}
	w.metadata[key] = value
}

func (w *Writer) addName(name string) error {
	if err := ValidateTensorName(name); err != nil {
		return err
	}
	if _, dup := w.names[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateTensor, name)
	}
	w.names[name] = struct{}{}
	return nil
}

// AddQuantized adds a quantized tensor: the codes are bit-packed at the
// parameter bit-width and the affine parameters go into the header.
func (w *Writer) AddQuantized(name string, shape []int, codes []uint8, p quant.Params) error {
	if err := w.addName(name); err != nil {
		return err
	}

	count := 1
	for _, dim := range shape {
		count *= dim
	}
	if count != len(codes) {
		return fmt.Errorf("tensor %s: shape %v implies %d codes, got %d", name, shape, count, len(codes))
	}

	packed, err := quant.Pack(codes, p.Bits)
	if err != nil {
		return fmt.Errorf("tensor %s: %w", name, err)
	}

	w.tensors = append(w.tensors, TensorMeta{
		Name:      name,
		DType:     DTypeQuant,
		Shape:     append([]int(nil), shape...),
		Bits:      p.Bits,
		Scale:     p.Scale,
		ZeroPoint: p.ZeroPoint,
		Offset:    int64(w.data.Len()),
		Size:      int64(len(packed)),
	})
	w.data.Write(packed)
	return nil
}

// AddFloat32 adds a plain float32 tensor (little-endian raw values).
func (w *Writer) AddFloat32(name string, shape []int, values []float32) error {
	if err := w.addName(name); err != nil {
		return err
	}

	count := 1
	for _, dim := range shape {
		count *= dim
	}
	if count != len(values) {
		return fmt.Errorf("tensor %s: shape %v implies %d values, got %d", name, shape, count, len(values))
	}

	offset := int64(w.data.Len())
	var scratch [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
		w.data.Write(scratch[:])
	}

	w.tensors = append(w.tensors, TensorMeta{
		Name:   name,
		DType:  DTypeFloat32,
		Shape:  append([]int(nil), shape...),
		Offset: offset,
		Size:   int64(len(values) * 4),
	})
	return nil
}

// WriteTo writes the assembled file to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	header := Header{
		FormatVersion: FormatVersion,
		WriterVersion: writerVersion,
		CreatedAt:     time.Now().UTC(),
		Tensors:       w.tensors,
		Metadata:      w.metadata,
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return 0, fmt.Errorf("marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return 0, ErrHeaderTooLarge
	}

	var flags uint32
	if len(w.metadata) > 0 {
		flags |= FlagHasMetadata
	}

	checksum := ComputeChecksum(w.data.Bytes())

	var buf bytes.Buffer
	buf.WriteString(MagicBytes)
	if err := binary.Write(&buf, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return 0, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, flags); err != nil {
		return 0, err
	}
	buf.Write(checksum[:])
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return 0, err
	}
	buf.Write(headerJSON)

	// Pad so the data section starts 64-byte aligned.
	pos := int64(preludeSize + len(headerJSON))
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		buf.Write(make([]byte, padding))
	}
	buf.Write(w.data.Bytes())

	n, err := out.Write(buf.Bytes())
	return int64(n), err
}

// WriteFile writes the assembled file to path.
func (w *Writer) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := w.WriteTo(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
