// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/xaionaro-go/bytesextra"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
)

const (
	// ManifestHeaderSize is the encoded size of ManifestHeader.
	ManifestHeaderSize = 644
	// ManifestIDMagic is "$MN2" in little-endian.
	ManifestIDMagic = 0x324E4D24
	// SignedPkgInfoExtType is the extension type of SignedPkgInfoExt.
	SignedPkgInfoExtType = 0x15
	// SignedPkgInfoExtSize is the encoded size of SignedPkgInfoExt.
	SignedPkgInfoExtSize = 52

	dwordSize = 4

	// bootblockPlaceholderSize is the size of the IBB entry created by
	// a directory add of IBBP.
	bootblockPlaceholderSize = 4096
)

// ManifestHeader is the unsigned manifest header placed in front of a
// sub-partition's metadata. The key and signature fields are left zeroed.
type ManifestHeader struct {
	HeaderType    uint32
	HeaderLength  uint32 // in dwords
	HeaderVersion uint32
	Flags         uint32
	Vendor        uint32
	Date          uint32 // 0xYYYYMMDD
	Size          uint32 // in dwords, including the extensions
	ID            uint32
	Reserved0     uint32
	Version       uint64
	SVN           uint32
	Reserved1     uint64
	Reserved2     [64]byte
	ModulusSize   uint32
	ExponentSize  uint32
	PublicKey     [256]byte
	Exponent      uint32
	Signature     [256]byte
}

// SignedPkgInfoExt is the signed package info extension without module
// descriptors.
type SignedPkgInfoExt struct {
	ExtType   uint32
	ExtLength uint32
	Name      [4]byte
	VCN       uint32
	Bitmap    [16]byte
	SVN       uint32
	Reserved  [16]byte
}

// manifestDate encodes the date the way it is read back as hex digits,
// e.g. 2026-10-19 becomes 0x20261019.
func manifestDate(year int, month int, day int) (uint32, error) {
	v, err := strconv.ParseUint(fmt.Sprintf("%04d%02d%02d", year, month, day), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("unable to encode date %04d-%02d-%02d: %w", year, month, day, err)
	}
	return uint32(v), nil
}

// newManifest returns the manifest header and the signed package info
// extension for the sub-partition of the given type.
func (img *Image) newManifest(t SubPartitionType) (*pkgbytes.Buffer, error) {
	const size = ManifestHeaderSize + SignedPkgInfoExtSize

	now := img.now()
	date, err := manifestDate(now.Year(), int(now.Month()), now.Day())
	if err != nil {
		return nil, err
	}

	hdr := ManifestHeader{
		HeaderType:    0x4,
		HeaderLength:  ManifestHeaderSize / dwordSize,
		HeaderVersion: 0x10000,
		Vendor:        0x8086,
		Date:          date,
		Size:          size / dwordSize,
		ID:            ManifestIDMagic,
	}
	ext := SignedPkgInfoExt{
		ExtType: SignedPkgInfoExtType,
		// no module descriptors follow
		ExtLength: SignedPkgInfoExtSize,
	}
	copy(ext.Name[:], t.Name())

	result := pkgbytes.NewBuffer(t.Name()+".man", size)
	w := bytesextra.NewReadWriteSeeker(result.Bytes())
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("unable to write the manifest header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &ext); err != nil {
		return nil, fmt.Errorf("unable to write the signed package info extension: %w", err)
	}
	return result, nil
}

// buildIBBPDir creates the IBBP sub-partition: the manifest, the
// user-supplied IBBL and an IBB placeholder filled with 0xFF.
func buildIBBPDir(img *Image, t SubPartitionType, input *pkgbytes.Buffer) (*pkgbytes.Buffer, error) {
	manifest, err := img.newManifest(t)
	if err != nil {
		return nil, err
	}

	ibbl := input.Clone()
	ibbl.SetName("IBBL")

	ibb := pkgbytes.NewBufferFilled("IBB", bootblockPlaceholderSize, 0xFF)

	return BuildSubPartition(t.Name(), []*pkgbytes.Buffer{manifest, ibbl, ibb})
}
