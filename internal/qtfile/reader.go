package qtfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/goccy/go-json"

	"github.com/qtensor-ml/qtensor/internal/quant"
)

// Reader reads .qt files.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	checksum   [32]byte
	dataOffset int64
	dataSize   int64
	closed     bool
}

// ReaderOptions configures Open.
type ReaderOptions struct {
	SkipChecksumValidation bool // Skip checksum validation (faster but less safe)
}

// Open opens a .qt file with default options (checksum validated).
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens a .qt file with custom options.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	r := &Reader{file: file}
	if err := r.parseHeader(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("parse header: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	r.dataSize = info.Size() - r.dataOffset

	if err := ValidateHeader(&r.header, r.dataSize); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !opts.SkipChecksumValidation {
		if err := r.validateChecksum(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	return r, nil
}

func (r *Reader) parseHeader() error {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r.file, magic); err != nil {
		return fmt.Errorf("read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return ErrInvalidMagic
	}

	var version uint32
	if err := binary.Read(r.file, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	if err := binary.Read(r.file, binary.LittleEndian, &r.flags); err != nil {
		return fmt.Errorf("read flags: %w", err)
	}

	if _, err := io.ReadFull(r.file, r.checksum[:]); err != nil {
		return fmt.Errorf("read checksum: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(r.file, binary.LittleEndian, &headerSize); err != nil {
		return fmt.Errorf("read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("parse header JSON: %w", err)
	}

	pos := int64(preludeSize) + int64(headerSize)
	padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
	r.dataOffset = pos + padding
	return nil
}

func (r *Reader) validateChecksum() error {
	if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to data section: %w", err)
	}
	computed, err := ComputeChecksumReader(io.LimitReader(r.file, r.dataSize))
	if err != nil {
		return fmt.Errorf("compute checksum: %w", err)
	}
	return ValidateChecksum(computed, r.checksum)
}

// Header returns the parsed file header.
func (r *Reader) Header() Header {
	return r.header
}

// Metadata returns the custom metadata map, which may be nil.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames lists all tensors in file order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// TensorInfo returns the metadata entry for name.
func (r *Reader) TensorInfo(name string) (*TensorMeta, error) {
	for i := range r.header.Tensors {
		if r.header.Tensors[i].Name == name {
			meta := r.header.Tensors[i]
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
}

// readRegion reads the raw bytes of one tensor entry.
func (r *Reader) readRegion(meta *TensorMeta) ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}
	if _, err := r.file.Seek(r.dataOffset+meta.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to tensor data: %w", err)
	}
	data := make([]byte, meta.Size)
	if _, err := io.ReadFull(r.file, data); err != nil {
		return nil, fmt.Errorf("read tensor data: %w", err)
	}
	return data, nil
}

// ReadQuantized reads a quantized tensor: unpacked codes plus the affine
// parameters needed to dequantize them.
func (r *Reader) ReadQuantized(name string) ([]uint8, quant.Params, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, quant.Params{}, err
	}
	if meta.DType != DTypeQuant {
		return nil, quant.Params{}, fmt.Errorf("tensor %s: dtype %q is not quantized", name, meta.DType)
	}

	packed, err := r.readRegion(meta)
	if err != nil {
		return nil, quant.Params{}, err
	}

	codes, err := quant.Unpack(packed, meta.Bits, meta.NumElements())
	if err != nil {
		return nil, quant.Params{}, fmt.Errorf("tensor %s: %w", name, err)
	}

	p := quant.Params{Scale: meta.Scale, ZeroPoint: meta.ZeroPoint, Bits: meta.Bits}
	return codes, p, nil
}

// ReadFloat32 reads a plain float32 tensor.
func (r *Reader) ReadFloat32(name string) ([]float32, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	if meta.DType != DTypeFloat32 {
		return nil, fmt.Errorf("tensor %s: dtype %q is not float32", name, meta.DType)
	}

	data, err := r.readRegion(meta)
	if err != nil {
		return nil, err
	}

	values := make([]float32, len(data)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return values, nil
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadFrom parses a .qt stream from an io.Reader. Checksum validation runs
// over the buffered data section.
func ReadFrom(reader io.Reader) (Header, map[string][]byte, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(reader, magic); err != nil {
		return Header{}, nil, fmt.Errorf("read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return Header{}, nil, ErrInvalidMagic
	}

	var version uint32
	if err := binary.Read(reader, binary.LittleEndian, &version); err != nil {
		return Header{}, nil, fmt.Errorf("read version: %w", err)
	}
	if version != FormatVersion {
		return Header{}, nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	var flags uint32
	if err := binary.Read(reader, binary.LittleEndian, &flags); err != nil {
		return Header{}, nil, fmt.Errorf("read flags: %w", err)
	}

	var checksum [32]byte
	if _, err := io.ReadFull(reader, checksum[:]); err != nil {
		return Header{}, nil, fmt.Errorf("read checksum: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(reader, binary.LittleEndian, &headerSize); err != nil {
		return Header{}, nil, fmt.Errorf("read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return Header{}, nil, ErrHeaderTooLarge
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, headerBytes); err != nil {
		return Header{}, nil, fmt.Errorf("read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return Header{}, nil, fmt.Errorf("parse header JSON: %w", err)
	}

	pos := int64(preludeSize) + int64(headerSize)
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		if _, err := io.CopyN(io.Discard, reader, padding); err != nil {
			return Header{}, nil, fmt.Errorf("skip padding: %w", err)
		}
	}

	var data bytes.Buffer
	if _, err := io.Copy(&data, reader); err != nil {
		return Header{}, nil, fmt.Errorf("read data section: %w", err)
	}

	if err := ValidateHeader(&header, int64(data.Len())); err != nil {
		return Header{}, nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := ValidateChecksum(ComputeChecksum(data.Bytes()), checksum); err != nil {
		return Header{}, nil, err
	}

	regions := make(map[string][]byte, len(header.Tensors))
	raw := data.Bytes()
	for _, meta := range header.Tensors {
		regions[meta.Name] = raw[meta.Offset : meta.Offset+meta.Size]
	}
	return header, regions, nil
}
