// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytes

import (
	"encoding/binary"
)

// Little-endian accessors at arbitrary offsets. An access past the end of
// b is a programming error and panics.

// ReadLE8 returns the byte at offset.
func ReadLE8(b []byte, offset int) uint8 {
	return b[offset]
}

// ReadLE16 returns the little-endian uint16 at offset.
func ReadLE16(b []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(b[offset : offset+2])
}

// ReadLE32 returns the little-endian uint32 at offset.
func ReadLE32(b []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(b[offset : offset+4])
}

// ReadLE64 returns the little-endian uint64 at offset.
func ReadLE64(b []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(b[offset : offset+8])
}

// WriteLE8 stores v at offset.
func WriteLE8(b []byte, offset int, v uint8) {
	b[offset] = v
}

// WriteLE16 stores v at offset in little-endian order.
func WriteLE16(b []byte, offset int, v uint16) {
	binary.LittleEndian.PutUint16(b[offset:offset+2], v)
}

// WriteLE32 stores v at offset in little-endian order.
func WriteLE32(b []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(b[offset:offset+4], v)
}

// WriteLE64 stores v at offset in little-endian order.
func WriteLE64(b []byte, offset int, v uint64) {
	binary.LittleEndian.PutUint64(b[offset:offset+8], v)
}

// AlignUp rounds v up to the next multiple of align, which must be a
// power of two.
func AlignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
