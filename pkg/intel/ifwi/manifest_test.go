// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"testing"

	"github.com/stretchr/testify/require"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
)

func TestManifestDate(t *testing.T) {
	date, err := manifestDate(2026, 10, 19)
	require.NoError(t, err)
	require.Equal(t, uint32(0x20261019), date)
}

func TestAddDirIBBP(t *testing.T) {
	img := newTestImage(t, nil)
	ibbl := pkgbytes.BufferFrom("ibbl.bin", pattern(100, 7))

	result, err := img.AddDir(IBBType, ibbl)
	require.NoError(t, err)
	require.Equal(t, RepackRequired, result)

	dir, err := img.SubPartDir(IBBType)
	require.NoError(t, err)
	require.True(t, dir.ChecksumValid())
	require.Equal(t, "IBBP", dir.HeaderName())
	require.Len(t, dir.Entries, 3)

	require.Equal(t, "IBBP.man", dir.Entries[0].EntryName())
	require.Equal(t, uint32(ManifestHeaderSize+SignedPkgInfoExtSize), dir.Entries[0].Length)
	require.Equal(t, "IBBL", dir.Entries[1].EntryName())
	require.Equal(t, uint32(100), dir.Entries[1].Length)
	require.Equal(t, "IBB", dir.Entries[2].EntryName())
	require.Equal(t, uint32(bootblockPlaceholderSize), dir.Entries[2].Length)

	man, err := img.ExtractDirEntry(IBBType, "IBBP.man")
	require.NoError(t, err)
	b := man.Bytes()
	require.Len(t, b, 696)
	require.Equal(t, uint32(4), pkgbytes.ReadLE32(b, 0))
	require.Equal(t, uint32(161), pkgbytes.ReadLE32(b, 4))
	require.Equal(t, uint32(0x10000), pkgbytes.ReadLE32(b, 8))
	require.Equal(t, uint32(0), pkgbytes.ReadLE32(b, 12))
	require.Equal(t, uint32(0x8086), pkgbytes.ReadLE32(b, 16))
	require.Equal(t, uint32(0x20261019), pkgbytes.ReadLE32(b, 20))
	require.Equal(t, uint32(174), pkgbytes.ReadLE32(b, 24))
	require.Equal(t, uint32(ManifestIDMagic), pkgbytes.ReadLE32(b, 28))

	require.Equal(t, uint32(SignedPkgInfoExtType), pkgbytes.ReadLE32(b, ManifestHeaderSize))
	require.Equal(t, uint32(SignedPkgInfoExtSize), pkgbytes.ReadLE32(b, ManifestHeaderSize+4))
	require.Equal(t, []byte("IBBP"), b[ManifestHeaderSize+8:ManifestHeaderSize+12])

	loader, err := img.ExtractDirEntry(IBBType, "IBBL")
	require.NoError(t, err)
	require.Equal(t, pattern(100, 7), loader.Bytes())

	placeholder, err := img.ExtractDirEntry(IBBType, "IBB")
	require.NoError(t, err)
	for _, v := range placeholder.Bytes() {
		require.Equal(t, byte(0xFF), v)
	}
}
