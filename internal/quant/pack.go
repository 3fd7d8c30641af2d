package quant

import "fmt"

// Sub-byte codes are packed little-endian: code i occupies the bit range
// [i*bits, (i+1)*bits) counted from the least significant bit of byte 0,
// so for 4-bit codes the first code is the low nibble of the first byte.
// Codes may straddle byte boundaries (3-bit codes do every third element).
// Padding bits in the final byte are zero.

// Pack packs fixed-width codes into a contiguous byte stream.
// The result is exactly Footprint(len(codes), bits) bytes long.
// Codes above 2^bits - 1 do not fit their field and fail with ErrInvalidCode.
func Pack(codes []uint8, bits int) ([]byte, error) {
	if bits < 1 || bits > 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBitWidth, bits)
	}

	limit := uint16(1)<<bits - 1
	packed := make([]byte, Footprint(len(codes), bits))

	for i, c := range codes {
		if uint16(c) > limit {
			return nil, fmt.Errorf("%w: code %d at index %d does not fit in %d bits", ErrInvalidCode, c, i, bits)
		}

		bitPos := i * bits
		byteIdx := bitPos / 8
		bitOff := bitPos % 8

		packed[byteIdx] |= byte(uint16(c) << bitOff)
		if bitOff+bits > 8 {
			packed[byteIdx+1] |= byte(uint16(c) >> (8 - bitOff))
		}
	}

	return packed, nil
}

// Unpack expands a packed byte stream back into one code per byte.
// count is the number of codes; the stream must be at least
// Footprint(count, bits) bytes long.
func Unpack(packed []byte, bits, count int) ([]uint8, error) {
	if bits < 1 || bits > 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBitWidth, bits)
	}
	if need := Footprint(count, bits); len(packed) < need {
		return nil, fmt.Errorf("packed stream too short: %d bytes, need %d for %d codes at %d bits",
			len(packed), need, count, bits)
	}

	mask := uint16(1)<<bits - 1
	codes := make([]uint8, count)

	for i := range codes {
		bitPos := i * bits
		byteIdx := bitPos / 8
		bitOff := bitPos % 8

		v := uint16(packed[byteIdx]) >> bitOff
		if bitOff+bits > 8 {
			v |= uint16(packed[byteIdx+1]) << (8 - bitOff)
		}
		codes[i] = uint8(v & mask)
	}

	return codes, nil
}
