// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ifwi parses, modifies and repacks Intel Integrated Firmware
// Images (IFWI).
//
// An IFWI starts with a BPDT which locates the critical sub-partitions.
// One of them is the S-BPDT which in turn locates the non-critical
// sub-partitions. Some sub-partitions start with a directory ("$CPD")
// of named entries. All multi-byte values are little-endian.
package ifwi

import (
	"fmt"
	"time"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi/check"
	"github.com/linuxboot/ifwitool/pkg/log"
)

// Image is a parsed IFWI. Payloads are owned by the Image, the tables are
// regenerated by Repack.
type Image struct {
	input *pkgbytes.Buffer

	// BPDT is the primary table.
	BPDT *BPDT
	// SBPDT is the secondary table. It is never nil, an image whose
	// S_BPDT entry is empty gets an S-BPDT without entries.
	SBPDT *BPDT

	// StartOffset and EndOffset locate the IFWI within the input. Bytes
	// outside of [StartOffset, EndOffset) are carried over by Repack.
	StartOffset int
	EndOffset   int

	subParts [MaxSubPartitions]*pkgbytes.Buffer

	// Now is used to date generated manifests. time.Now is used if nil.
	Now func() time.Time
}

func (img *Image) now() time.Time {
	if img.Now != nil {
		return img.Now()
	}
	return time.Now()
}

// newSBPDT returns an S-BPDT without entries.
func newSBPDT() *BPDT {
	return &BPDT{
		Name: "S-BPDT",
		Header: BPDTHeader{
			Signature: BPDTSignature,
			Version:   BPDTVersion,
		},
	}
}

// NewImage returns an image without sub-partitions. Repack turns it into
// an IFWI which contains only the mandatory table entries.
func NewImage() *Image {
	return &Image{
		input: pkgbytes.NewBuffer("IFWI", 0),
		BPDT: &BPDT{
			Name: "BPDT",
			Header: BPDTHeader{
				Signature: BPDTSignature,
				Version:   BPDTVersion,
			},
		},
		SBPDT: newSBPDT(),
	}
}

// Parse finds the BPDT at a 4K boundary of input and reads both tables and
// all sub-partitions they refer to.
func Parse(input *pkgbytes.Buffer) (*Image, error) {
	log.Debugf("parsing IFWI image %s...", input.Name())
	data := input.Bytes()

	start := -1
	for offset := 0; offset+4 <= len(data); offset += BlockSize {
		if pkgbytes.ReadLE32(data, offset) == BPDTSignature {
			start = offset
			break
		}
	}
	if start < 0 {
		return nil, ErrNoBPDT{}
	}
	log.Infof("BPDT starts at offset 0x%x", start)

	img := &Image{
		input:       input,
		StartOffset: start,
	}
	ifwi := data[start:]

	var err error
	img.BPDT, err = ParseBPDT(ifwi, 0, "BPDT")
	if err != nil {
		return nil, err
	}

	var seen [MaxSubPartitions]bool
	maxEnd, err := img.readSubPartitions(ifwi, img.BPDT, &seen)
	if err != nil {
		return nil, err
	}

	img.SBPDT = newSBPDT()
	if s := img.BPDT.Find(SBPDTType); s != nil && s.Size != 0 {
		img.SBPDT, err = ParseBPDT(ifwi, int(s.Offset), "S-BPDT")
		if err != nil {
			return nil, err
		}
		sMaxEnd, err := img.readSubPartitions(ifwi, img.SBPDT, &seen)
		if err != nil {
			return nil, err
		}
		if sMaxEnd > maxEnd {
			maxEnd = sMaxEnd
		}
	}
	if maxEnd < uint64(img.BPDT.EncodedSize()) {
		maxEnd = uint64(img.BPDT.EncodedSize())
	}

	img.EndOffset = start + int(pkgbytes.AlignUp(maxEnd, BlockSize))
	if img.EndOffset > len(data) {
		img.EndOffset = len(data)
	}
	log.Debugf("IFWI is located at [0x%x:0x%x]", img.StartOffset, img.EndOffset)
	return img, nil
}

// readSubPartitions copies the payloads listed in table and returns the
// highest offset+size of its non-empty entries.
func (img *Image) readSubPartitions(ifwi []byte, table *BPDT, seen *[MaxSubPartitions]bool) (uint64, error) {
	var maxEnd uint64
	for _, e := range table.Entries {
		if !e.Type.IsValid() {
			return 0, ErrInvalidSubPartitionType{Type: e.Type}
		}
		if seen[e.Type] {
			return 0, ErrDuplicateSubPartition{Type: e.Type}
		}
		if e.Size == 0 {
			log.Debugf("dummy sub-partition %s, skipping", e.Type)
			continue
		}
		seen[e.Type] = true

		if err := check.Region(len(ifwi), uint64(e.Offset), uint64(e.Size)); err != nil {
			return 0, ErrInvalidBPDT{Name: table.Name, Err: fmt.Errorf("sub-partition %s: %w", e.Type, err)}
		}
		if e.Range().End() > maxEnd {
			maxEnd = e.Range().End()
		}

		// The S-BPDT entry covers the S-BPDT and all non-critical
		// sub-partitions, which are read separately.
		if e.Type == SBPDTType {
			continue
		}

		payload := img.input.Splice(img.StartOffset+int(e.Offset), int(e.Size)).Clone()
		payload.SetName(e.Type.Name())
		img.subParts[e.Type] = payload
	}
	return maxEnd, nil
}

// Input returns the buffer the image was parsed from.
func (img *Image) Input() *pkgbytes.Buffer {
	return img.input
}

// Region returns the location of the IFWI within the input.
func (img *Image) Region() pkgbytes.Range {
	return pkgbytes.Range{
		Offset: uint64(img.StartOffset),
		Length: uint64(img.EndOffset - img.StartOffset),
	}
}

// SubPartition returns the payload of the given type, or nil if the image
// does not contain it. The returned buffer is owned by the Image.
func (img *Image) SubPartition(t SubPartitionType) *pkgbytes.Buffer {
	if !t.IsValid() {
		return nil
	}
	return img.subParts[t]
}

// HasSubPartition returns true if the image contains a non-empty payload
// of the given type.
func (img *Image) HasSubPartition(t SubPartitionType) bool {
	return img.SubPartition(t).Len() != 0
}

// SubPartitionTypes returns the types with a payload in numeric order.
func (img *Image) SubPartitionTypes() []SubPartitionType {
	var result []SubPartitionType
	for _, t := range AllSubPartitionTypes() {
		if img.HasSubPartition(t) {
			result = append(result, t)
		}
	}
	return result
}

// SubPartDir parses the directory of the given sub-partition.
func (img *Image) SubPartDir(t SubPartitionType) (*SubPartDir, error) {
	if !t.Has(ContainsDir) {
		return nil, ErrNoDirSupport{Type: t}
	}
	if !img.HasSubPartition(t) {
		return nil, ErrNotPresent{Type: t}
	}
	return ParseSubPartDir(img.subParts[t].Bytes(), t.Name())
}
