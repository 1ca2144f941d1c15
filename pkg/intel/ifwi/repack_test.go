// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
)

func fullTestPayloads() map[SubPartitionType][]byte {
	return map[SubPartitionType][]byte{
		UFSGPPType:      pattern(100, 1),
		UFSPhyType:      pattern(50, 2),
		UEPType:         pattern(33, 3),
		IBBType:         pattern(0x1801, 4),
		CSEBUPType:      pattern(0x1000, 5),
		DebugTokensType: pattern(1, 6),
		ISHType:         pattern(0x234, 7),
		OBBType:         pattern(0x3000, 8),
	}
}

func TestRepackEmpty(t *testing.T) {
	out, img := repackAndParse(t, newTestImage(t, nil))
	require.Equal(t, 2*BlockSize, out.Len())
	require.Len(t, img.BPDT.Entries, 8)
	require.Empty(t, img.SBPDT.Entries)

	s := entryOf(t, img, SBPDTType)
	require.Equal(t, uint32(BlockSize), s.Offset)
	require.Equal(t, uint32(BlockSize), s.Size)
}

func TestRepackRoundTrip(t *testing.T) {
	payloads := fullTestPayloads()
	_, img := repackAndParse(t, newTestImage(t, payloads))

	for typ, data := range payloads {
		got := img.SubPartition(typ)
		require.NotNil(t, got, typ.String())
		require.Equal(t, data, got.Bytes()[:len(data)], typ.String())
		for _, v := range got.Bytes()[len(data):] {
			require.Equal(t, byte(0xFF), v, typ.String())
		}
		if typ.Has(LiesWithinBPDT4K) {
			require.Equal(t, len(data), got.Len(), typ.String())
		}
	}
	require.Len(t, img.SubPartitionTypes(), len(payloads))

	// A second round trip does not change the image.
	out1, err := img.Repack()
	require.NoError(t, err)
	_, img2 := repackAndParse(t, img)
	out2, err := img2.Repack()
	require.NoError(t, err)
	require.Equal(t, out1.Bytes(), out2.Bytes())
}

func TestRepackAlignmentLaw(t *testing.T) {
	_, img := repackAndParse(t, newTestImage(t, fullTestPayloads()))
	for _, table := range []*BPDT{img.BPDT, img.SBPDT} {
		for _, e := range table.Entries {
			if e.Type.Has(LiesWithinBPDT4K) || e.Size == 0 {
				continue
			}
			require.Zero(t, e.Offset%BlockSize, e.Type.String())
			require.Zero(t, (e.Offset+e.Size)%BlockSize, e.Type.String())
		}
	}
}

func TestRepackMandatoryPresenceLaw(t *testing.T) {
	for _, payloads := range []map[SubPartitionType][]byte{nil, fullTestPayloads()} {
		_, img := repackAndParse(t, newTestImage(t, payloads))
		for _, typ := range AllSubPartitionTypes() {
			if !typ.Has(MandatoryBPDTEntry) {
				continue
			}
			table := img.BPDT
			if typ.Has(NonCritical) {
				table = img.SBPDT
			}
			count := 0
			for _, e := range table.Entries {
				if e.Type == typ {
					count++
					if _, ok := payloads[typ]; !ok && typ != SBPDTType {
						require.Zero(t, e.Offset, typ.String())
						require.Zero(t, e.Size, typ.String())
					}
				}
			}
			require.Equal(t, 1, count, typ.String())
		}
	}
}

func TestRepackHeaderOrder(t *testing.T) {
	_, img := repackAndParse(t, newTestImage(t, fullTestPayloads()))
	var got []SubPartitionType
	for _, e := range img.BPDT.Entries {
		got = append(got, e.Type)
	}
	require.Equal(t, []SubPartitionType{
		CSEIDLMType, IFPOverrideType, SBPDTType, CSERBEType, UFSPhyType, UFSGPPType,
		UEPType, IBBType, CSEBUPType, DebugTokensType,
	}, got)

	got = nil
	for _, e := range img.SBPDT.Entries {
		got = append(got, e.Type)
	}
	require.Equal(t, []SubPartitionType{ISHType, OBBType}, got)
}

func TestRepackPackOrder(t *testing.T) {
	_, img := repackAndParse(t, newTestImage(t, fullTestPayloads()))
	var last uint32
	for _, typ := range PackOrder {
		e := img.BPDT.Find(typ)
		if e == nil {
			e = img.SBPDT.Find(typ)
		}
		if e == nil || e.Size == 0 {
			continue
		}
		require.Greater(t, e.Offset, last, typ.String())
		last = e.Offset
	}

	// The S-BPDT entry spans everything after it.
	s := entryOf(t, img, SBPDTType)
	obb := entryOf(t, img, OBBType)
	require.Equal(t, obb.Offset+obb.Size, s.Offset+s.Size)
	require.Equal(t, int(s.Offset+s.Size), img.EndOffset)
}

func TestRepackBlockLocalPlacement(t *testing.T) {
	img := newTestImage(t, map[SubPartitionType][]byte{
		UFSGPPType: pattern(100, 1),
		UFSPhyType: pattern(50, 2),
	})
	out, parsed := repackAndParse(t, img)

	gpp := entryOf(t, parsed, UFSGPPType)
	require.Equal(t, uint32(512), gpp.Offset)
	require.Equal(t, uint32(100), gpp.Size)
	phy := entryOf(t, parsed, UFSPhyType)
	require.Equal(t, uint32(612), phy.Offset)
	require.Equal(t, uint32(50), phy.Size)

	// The rest of the first block is padded.
	for _, v := range out.Bytes()[662:BlockSize] {
		require.Equal(t, byte(0xFF), v)
	}
	require.Equal(t, uint32(BlockSize), entryOf(t, parsed, SBPDTType).Offset)

	// Payloads of the model are not padded by repack.
	require.Equal(t, 50, img.SubPartition(UFSPhyType).Len())
}

func TestRepackSBPDTShrink(t *testing.T) {
	_, img := repackAndParse(t, newTestImage(t, map[SubPartitionType][]byte{
		ISHType: pattern(0x10, 1),
		IBBType: pattern(0x10, 2),
	}))
	require.Len(t, img.SBPDT.Entries, 1)
	require.Equal(t, uint32(2*BlockSize), entryOf(t, img, SBPDTType).Size)

	result, err := img.Delete(ISHType)
	require.NoError(t, err)
	require.Equal(t, RepackRequired, result)

	out, parsed := repackAndParse(t, img)
	require.Empty(t, parsed.SBPDT.Entries)
	s := entryOf(t, parsed, SBPDTType)
	require.Equal(t, uint32(BlockSize), s.Size)
	require.Equal(t, uint16(0), pkgbytes.ReadLE16(out.Bytes(), int(s.Offset)+4))
	require.Equal(t, int(s.Offset)+BlockSize, out.Len())
}

func TestRepackDoesNotModifyPayloads(t *testing.T) {
	img := newTestImage(t, fullTestPayloads())
	out1, err := img.Repack()
	require.NoError(t, err)
	out2, err := img.Repack()
	require.NoError(t, err)
	require.Equal(t, out1.Bytes(), out2.Bytes())
	require.Equal(t, pattern(0x1801, 4), img.SubPartition(IBBType).Bytes())
}

func TestExtractAddReproducesPayload(t *testing.T) {
	_, img := repackAndParse(t, newTestImage(t, fullTestPayloads()))
	want := img.SubPartition(CSEBUPType).Clone()

	extracted, err := img.Extract(CSEBUPType)
	require.NoError(t, err)
	_, err = img.Delete(CSEBUPType)
	require.NoError(t, err)
	_, err = img.Add(CSEBUPType, extracted)
	require.NoError(t, err)
	require.Equal(t, want.Bytes(), img.SubPartition(CSEBUPType).Bytes())

	_, reparsed := repackAndParse(t, img)
	require.Equal(t, want.Bytes(), reparsed.SubPartition(CSEBUPType).Bytes())
}

func TestRepackUnusedBytesAreFF(t *testing.T) {
	out, err := newTestImage(t, map[SubPartitionType][]byte{
		IBBType: pattern(0x10, 1),
	}).Repack()
	require.NoError(t, err)
	require.True(t, bytes.Equal(bytes.Repeat([]byte{0xFF}, BlockSize-0x10), out.Bytes()[BlockSize+0x10:2*BlockSize]))
	// 8 mandatory entries and IBBP
	encoded := BPDTHeaderSize + 9*BPDTEntrySize
	require.True(t, bytes.Equal(bytes.Repeat([]byte{0xFF}, BPDTMinSize-encoded), out.Bytes()[encoded:BPDTMinSize]))
}
