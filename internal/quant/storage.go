package quant

// Footprint returns the packed storage cost in bytes of count codes at the
// given bit-width: ceil(count * bits / 8).
//
// For example, one million 4-bit codes occupy 500_000 bytes and one million
// 3-bit codes occupy 375_000 bytes.
func Footprint(count, bits int) int {
	if count <= 0 || bits <= 0 {
		return 0
	}
	return (count*bits + 7) / 8
}

// CompressionRatio returns the size of float32 storage relative to packed
// storage at the given bit-width: 32/bits adjusted for final-byte padding.
func CompressionRatio(count, bits int) float64 {
	packed := Footprint(count, bits)
	if packed == 0 {
		return 0
	}
	return float64(count*4) / float64(packed)
}
