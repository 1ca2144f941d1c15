// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/bytesextra"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi/check"
)

// BPDT is the Boot Partition Descriptor Table. It is located at the start
// of the IFWI and lists the critical sub-partitions. The S-BPDT (secondary
// BPDT) has the same layout, is located after the critical
// sub-partitions and lists the non-critical ones.
const (
	// BPDTSignature identifies the start of both tables.
	BPDTSignature = 0x000055AA
	// BPDTVersion is the only supported table version.
	BPDTVersion = 1
	// BPDTHeaderSize is the encoded size of BPDTHeader.
	BPDTHeaderSize = 24
	// BPDTEntrySize is the encoded size of BPDTEntry.
	BPDTEntrySize = 12
	// BPDTMinSize is the minimum space allocated to the BPDT in an IFWI.
	BPDTMinSize = 512
	// BlockSize is the alignment of sub-partitions outside of the
	// first block.
	BlockSize = 4096
)

// BPDTHeader is the fixed part of a BPDT.
type BPDTHeader struct {
	Signature       uint32
	DescriptorCount uint16
	Version         uint16
	// XORRedundantBlock is unused and should be 0.
	XORRedundantBlock uint32
	IFWIVersion       uint32
	FITToolVersion    uint64
}

// BPDTEntry locates one sub-partition. Offset is relative to the start of
// the IFWI, not to the table.
type BPDTEntry struct {
	Type   SubPartitionType
	Flags  uint16
	Offset uint32
	Size   uint32
}

// Range returns the region of the IFWI covered by the entry.
func (e BPDTEntry) Range() pkgbytes.Range {
	return pkgbytes.Range{Offset: uint64(e.Offset), Length: uint64(e.Size)}
}

// BPDT is a parsed BPDT or S-BPDT.
type BPDT struct {
	Name    string `json:"-"`
	Header  BPDTHeader
	Entries []BPDTEntry
	// AllocSize is the space reserved for the table in the image. Bytes
	// past the encoded table are padded with 0xFF.
	AllocSize int `json:"-"`
}

// Validate checks the signature and version of the header.
func (h BPDTHeader) Validate() error {
	var result *multierror.Error
	if h.Signature != BPDTSignature {
		result = multierror.Append(result, fmt.Errorf("signature 0x%08X, expected 0x%08X", h.Signature, BPDTSignature))
	}
	if h.Version != BPDTVersion {
		result = multierror.Append(result, fmt.Errorf("version %d, expected %d", h.Version, BPDTVersion))
	}
	return result.ErrorOrNil()
}

// ParseBPDT parses the table located at offset of b.
func ParseBPDT(b []byte, offset int, name string) (*BPDT, error) {
	if err := check.Region(len(b), uint64(offset), BPDTHeaderSize); err != nil {
		return nil, ErrInvalidBPDT{Name: name, Err: fmt.Errorf("header is out of bounds: %w", err)}
	}

	table := &BPDT{Name: name}
	if err := binary.Read(bytes.NewReader(b[offset:offset+BPDTHeaderSize]), binary.LittleEndian, &table.Header); err != nil {
		return nil, ErrInvalidBPDT{Name: name, Err: err}
	}
	if err := table.Header.Validate(); err != nil {
		return nil, ErrInvalidBPDT{Name: name, Err: err}
	}

	entriesStart := offset + BPDTHeaderSize
	entriesSize := int(table.Header.DescriptorCount) * BPDTEntrySize
	if err := check.Region(len(b), uint64(entriesStart), uint64(entriesSize)); err != nil {
		return nil, ErrInvalidBPDT{Name: name, Err: fmt.Errorf("%d entries are out of bounds: %w", table.Header.DescriptorCount, err)}
	}
	table.Entries = make([]BPDTEntry, table.Header.DescriptorCount)
	if err := binary.Read(bytes.NewReader(b[entriesStart:entriesStart+entriesSize]), binary.LittleEndian, table.Entries); err != nil {
		return nil, ErrInvalidBPDT{Name: name, Err: err}
	}
	table.AllocSize = table.EncodedSize()
	return table, nil
}

// EncodedSize returns the size of the header and the entries.
func (t *BPDT) EncodedSize() int {
	return BPDTHeaderSize + len(t.Entries)*BPDTEntrySize
}

// Size returns the number of bytes the table occupies in the image.
func (t *BPDT) Size() int {
	if t.AllocSize > t.EncodedSize() {
		return t.AllocSize
	}
	return t.EncodedSize()
}

// WriteTo writes the header and the entries in little-endian. The
// descriptor count is taken from the number of entries.
func (t *BPDT) WriteTo(w io.Writer) (int64, error) {
	header := t.Header
	header.DescriptorCount = uint16(len(t.Entries))
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return 0, fmt.Errorf("unable to write %s header: %w", t.Name, err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.Entries); err != nil {
		return BPDTHeaderSize, fmt.Errorf("unable to write %s entries: %w", t.Name, err)
	}
	return int64(t.EncodedSize()), nil
}

// Bytes returns the table as stored in the image: Size() bytes, with the
// space after the entries filled with 0xFF.
func (t *BPDT) Bytes() ([]byte, error) {
	b := make([]byte, t.Size())
	for idx := t.EncodedSize(); idx < len(b); idx++ {
		b[idx] = 0xFF
	}
	if _, err := t.WriteTo(bytesextra.NewReadWriteSeeker(b)); err != nil {
		return nil, err
	}
	return b, nil
}

// Find returns the entry of the given type, or nil.
func (t *BPDT) Find(typ SubPartitionType) *BPDTEntry {
	if t == nil {
		return nil
	}
	for idx := range t.Entries {
		if t.Entries[idx].Type == typ {
			return &t.Entries[idx]
		}
	}
	return nil
}

// MaxEnd returns the highest offset+size of the non-empty entries.
func (t *BPDT) MaxEnd() uint64 {
	var result uint64
	for _, e := range t.Entries {
		if e.Size != 0 && e.Range().End() > result {
			result = e.Range().End()
		}
	}
	return result
}
