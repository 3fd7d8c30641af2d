// Package qtfile implements the native .qt container format for quantized
// tensors.
//
//	Format Structure:
//	  [4 bytes:  Magic "QTSR"]
//	  [4 bytes:  Version (uint32 LE)]
//	  [4 bytes:  Flags (uint32 LE)]
//	  [32 bytes: SHA-256 checksum of the data section]
//	  [8 bytes:  Header Size (uint64 LE)]
//	  [Header:   JSON metadata]
//	  [Tensor data: raw bytes, 64-byte aligned]
//
// Quantized tensors are stored as bit-packed codes together with their
// affine parameters (scale, zero point, bit-width) in the JSON header.
// Plain float32 tensors (biases, unquantized parameters) can be stored
// alongside them.
//
// Example usage:
//
//	w := qtfile.NewWriter()
//	w.AddQuantized("layer.0.weight", shape, codes, params)
//	w.AddFloat32("layer.0.bias", biasShape, bias)
//	if err := w.WriteFile("model.qt"); err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := qtfile.Open("model.qt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	codes, params, err := r.ReadQuantized("layer.0.weight")
package qtfile
