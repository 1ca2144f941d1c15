// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
)

func TestAddErrors(t *testing.T) {
	img := newTestImage(t, map[SubPartitionType][]byte{
		IBBType: pattern(10, 0),
	})
	input := pkgbytes.BufferFrom("input", pattern(10, 1))

	_, err := img.Add(SBPDTType, input)
	var errAuto ErrAutoGenerated
	require.True(t, errors.As(err, &errAuto))
	require.Equal(t, "add", errAuto.Operation)

	_, err = img.Add(IBBType, input)
	var errPresent ErrAlreadyPresent
	require.True(t, errors.As(err, &errPresent))

	_, err = img.AddDir(IBBType, input)
	require.True(t, errors.As(err, &errPresent))

	_, err = img.AddDir(SMIPType, input)
	var errNoDir ErrNoDirSupport
	require.True(t, errors.As(err, &errNoDir))
	require.Equal(t, SMIPType, errNoDir.Type)

	_, err = img.Add(MaxSubPartitions, input)
	var errType ErrInvalidSubPartitionType
	require.True(t, errors.As(err, &errType))
}

func TestAddCopiesInput(t *testing.T) {
	img := newTestImage(t, nil)
	data := pattern(10, 0)
	_, err := img.Add(UEPType, pkgbytes.BufferFrom("input", data))
	require.NoError(t, err)
	data[0] = 0xAA
	require.Equal(t, pattern(10, 0), img.SubPartition(UEPType).Bytes())
	require.Equal(t, "UEP", img.SubPartition(UEPType).Name())
}

func TestDelete(t *testing.T) {
	img := newTestImage(t, map[SubPartitionType][]byte{
		ISHType: pattern(10, 0),
	})

	result, err := img.Delete(SBPDTType)
	var errAuto ErrAutoGenerated
	require.True(t, errors.As(err, &errAuto))
	require.Equal(t, NoActionRequired, result)

	result, err = img.Delete(IBBType)
	require.NoError(t, err)
	require.Equal(t, NoActionRequired, result)

	result, err = img.Delete(ISHType)
	require.NoError(t, err)
	require.Equal(t, RepackRequired, result)
	require.False(t, img.HasSubPartition(ISHType))
}

func TestExtract(t *testing.T) {
	img := newTestImage(t, map[SubPartitionType][]byte{
		PMCType: pattern(10, 0),
	})

	b, err := img.Extract(SBPDTType)
	require.NoError(t, err)
	require.Nil(t, b)

	_, err = img.Extract(IBBType)
	var errNotPresent ErrNotPresent
	require.True(t, errors.As(err, &errNotPresent))

	b, err = img.Extract(PMCType)
	require.NoError(t, err)
	require.Equal(t, pattern(10, 0), b.Bytes())

	_, err = img.ExtractDirEntry(ISHType, "any")
	require.True(t, errors.As(err, &errNotPresent))

	// PMCP has a directory, but this payload is not one.
	_, err = img.ExtractDirEntry(PMCType, "any")
	var errInvalidDir ErrInvalidSubPartDir
	require.True(t, errors.As(err, &errInvalidDir))
}

func TestExtractDirEntryNoDir(t *testing.T) {
	img := newTestImage(t, map[SubPartitionType][]byte{
		ISHType: pattern(10, 0),
	})
	_, err := img.ExtractDirEntry(ISHType, "any")
	var errNoDir ErrNoDirSupport
	require.True(t, errors.As(err, &errNoDir))
}

func TestExtractDirEntryNotFound(t *testing.T) {
	img := newTestImage(t, nil)
	_, err := img.AddDir(IBBType, pkgbytes.BufferFrom("ibbl", pattern(10, 0)))
	require.NoError(t, err)

	_, err = img.ExtractDirEntry(IBBType, "IBBX")
	var errNotFound ErrDirEntryNotFound
	require.True(t, errors.As(err, &errNotFound))
	require.Equal(t, "IBBX", errNotFound.Entry)
}

func TestReplace(t *testing.T) {
	img := newTestImage(t, map[SubPartitionType][]byte{
		UCodeType: pattern(10, 0),
	})

	_, err := img.Replace(IBBType, pkgbytes.BufferFrom("input", pattern(5, 1)))
	var errNotPresent ErrNotPresent
	require.True(t, errors.As(err, &errNotPresent))

	_, err = img.Replace(SBPDTType, pkgbytes.BufferFrom("input", pattern(5, 1)))
	var errAuto ErrAutoGenerated
	require.True(t, errors.As(err, &errAuto))
	require.Equal(t, "replace", errAuto.Operation)

	result, err := img.Replace(UCodeType, pkgbytes.BufferFrom("input", pattern(5, 1)))
	require.NoError(t, err)
	require.Equal(t, RepackRequired, result)
	require.Equal(t, pattern(5, 1), img.SubPartition(UCodeType).Bytes())
}

func TestReplaceDirEntry(t *testing.T) {
	for _, newSize := range []int{40, 100, 300} {
		img := newTestImage(t, nil)
		_, err := img.AddDir(IBBType, pkgbytes.BufferFrom("ibbl", pattern(100, 0)))
		require.NoError(t, err)
		before, err := img.SubPartDir(IBBType)
		require.NoError(t, err)
		oldLen := img.SubPartition(IBBType).Len()

		result, err := img.ReplaceDirEntry(IBBType, "IBBL", pkgbytes.BufferFrom("new", pattern(newSize, 5)))
		require.NoError(t, err)
		require.Equal(t, RepackRequired, result)
		require.Equal(t, oldLen+newSize-100, img.SubPartition(IBBType).Len())

		after, err := img.SubPartDir(IBBType)
		require.NoError(t, err)
		require.True(t, after.ChecksumValid())
		require.Equal(t, before.Entries[0], after.Entries[0])
		require.Equal(t, before.Entries[1].Offset, after.Entries[1].Offset)
		require.Equal(t, uint32(newSize), after.Entries[1].Length)
		require.Equal(t, int(before.Entries[2].Offset)+newSize-100, int(after.Entries[2].Offset))
		require.Equal(t, before.Entries[2].Length, after.Entries[2].Length)

		ibbl, err := img.ExtractDirEntry(IBBType, "IBBL")
		require.NoError(t, err)
		require.Equal(t, pattern(newSize, 5), ibbl.Bytes())

		ibb, err := img.ExtractDirEntry(IBBType, "IBB")
		require.NoError(t, err)
		require.Equal(t, pkgbytes.NewBufferFilled("", bootblockPlaceholderSize, 0xFF).Bytes(), ibb.Bytes())
	}
}

func TestReplaceDirEntryErrors(t *testing.T) {
	img := newTestImage(t, map[SubPartitionType][]byte{
		ISHType: pattern(10, 0),
	})
	_, err := img.ReplaceDirEntry(ISHType, "IBBL", pkgbytes.BufferFrom("new", pattern(1, 0)))
	var errNoDir ErrNoDirSupport
	require.True(t, errors.As(err, &errNoDir))

	_, err = img.ReplaceDirEntry(IBBType, "IBBL", pkgbytes.BufferFrom("new", pattern(1, 0)))
	var errNotPresent ErrNotPresent
	require.True(t, errors.As(err, &errNotPresent))
}

func TestCreate(t *testing.T) {
	ifwi, err := newTestImage(t, map[SubPartitionType][]byte{
		OBBType: pattern(0x100, 2),
	}).Repack()
	require.NoError(t, err)

	file := append(pkgbytes.NewBufferFilled("prefix", BlockSize, 0x11).Bytes(), ifwi.Bytes()...)
	file = append(file, 1, 2, 3)

	img, err := Parse(pkgbytes.BufferFrom("file", file))
	require.NoError(t, err)
	result, err := img.Create()
	require.NoError(t, err)
	require.Equal(t, RepackRequired, result)
	require.Equal(t, 0, img.StartOffset)

	out, err := img.Repack()
	require.NoError(t, err)
	require.Equal(t, ifwi.Bytes(), out.Bytes())
}

func TestResultString(t *testing.T) {
	require.Equal(t, "repack required", RepackRequired.String())
	require.Equal(t, "no action required", NoActionRequired.String())
}
