// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLittleEndian(t *testing.T) {
	b := make([]byte, 16)

	WriteLE8(b, 0, 0x11)
	WriteLE16(b, 1, 0x2233)
	WriteLE32(b, 3, 0x44556677)
	WriteLE64(b, 7, 0x8899AABBCCDDEEFF)

	require.Equal(t, []byte{
		0x11,
		0x33, 0x22,
		0x77, 0x66, 0x55, 0x44,
		0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA, 0x99, 0x88,
		0x00,
	}, b)

	require.Equal(t, uint8(0x11), ReadLE8(b, 0))
	require.Equal(t, uint16(0x2233), ReadLE16(b, 1))
	require.Equal(t, uint32(0x44556677), ReadLE32(b, 3))
	require.Equal(t, uint64(0x8899AABBCCDDEEFF), ReadLE64(b, 7))
}

func TestLittleEndianOutOfRange(t *testing.T) {
	b := make([]byte, 3)
	require.Panics(t, func() { ReadLE32(b, 0) })
	require.Panics(t, func() { WriteLE16(b, 2, 1) })
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, uint64(0), AlignUp(0, 4096))
	require.Equal(t, uint64(4096), AlignUp(1, 4096))
	require.Equal(t, uint64(4096), AlignUp(4096, 4096))
	require.Equal(t, uint64(8192), AlignUp(4097, 4096))
}
