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
	"github.com/linuxboot/ifwitool/pkg/log"
)

const (
	// SubPartDirMarker is "$CPD" in little-endian.
	SubPartDirMarker = 0x44504324
	// SubPartDirHeaderVersion is the only supported header version.
	SubPartDirHeaderVersion = 1
	// SubPartDirEntryVersion is the only supported entry version.
	SubPartDirEntryVersion = 1
	// SubPartDirHeaderSize is the encoded size of SubPartDirHeader.
	SubPartDirHeaderSize = 16
	// SubPartDirEntrySize is the encoded size of SubPartDirEntry.
	SubPartDirEntrySize = 24
	// SubPartDirEntryNameSize is the size of the name field of an entry.
	SubPartDirEntryNameSize = 12
)

// SubPartDirHeader is the header of a sub-partition directory.
type SubPartDirHeader struct {
	Marker        uint32
	NumEntries    uint32
	HeaderVersion uint8
	EntryVersion  uint8
	HeaderLength  uint8
	// Checksum is the 2s complement of the 8-bit sum of the header and the
	// entries, calculated with this field set to zero.
	Checksum uint8
	Name     [4]byte
}

// SubPartDirEntry locates a named range within the sub-partition. Offset
// is relative to the start of the directory.
type SubPartDirEntry struct {
	// Name is not guaranteed to be NUL-terminated.
	Name     [SubPartDirEntryNameSize]byte
	Offset   uint32
	Length   uint32
	Reserved uint32
}

// EntryName returns the name up to the first NUL byte.
func (e SubPartDirEntry) EntryName() string {
	if idx := bytes.IndexByte(e.Name[:], 0); idx >= 0 {
		return string(e.Name[:idx])
	}
	return string(e.Name[:])
}

// Range returns the region of the sub-partition covered by the entry.
func (e SubPartDirEntry) Range() pkgbytes.Range {
	return pkgbytes.Range{Offset: uint64(e.Offset), Length: uint64(e.Length)}
}

// SubPartDir is a parsed sub-partition directory.
type SubPartDir struct {
	Header  SubPartDirHeader
	Entries []SubPartDirEntry
}

// HeaderName returns the short name stored in the header.
func (d *SubPartDir) HeaderName() string {
	if idx := bytes.IndexByte(d.Header.Name[:], 0); idx >= 0 {
		return string(d.Header.Name[:idx])
	}
	return string(d.Header.Name[:])
}

// Validate checks the fixed fields of the header.
func (h SubPartDirHeader) Validate() error {
	var result *multierror.Error
	if h.Marker != SubPartDirMarker {
		result = multierror.Append(result, fmt.Errorf("marker 0x%08X, expected 0x%08X", h.Marker, SubPartDirMarker))
	}
	if h.HeaderVersion != SubPartDirHeaderVersion {
		result = multierror.Append(result, fmt.Errorf("header version %d, expected %d", h.HeaderVersion, SubPartDirHeaderVersion))
	}
	if h.EntryVersion != SubPartDirEntryVersion {
		result = multierror.Append(result, fmt.Errorf("entry version %d, expected %d", h.EntryVersion, SubPartDirEntryVersion))
	}
	if h.HeaderLength != SubPartDirHeaderSize {
		result = multierror.Append(result, fmt.Errorf("header length %d, expected %d", h.HeaderLength, SubPartDirHeaderSize))
	}
	return result.ErrorOrNil()
}

// ParseSubPartDir parses the directory at the start of b. A bad checksum
// is only reported with a warning, see ChecksumValid.
func ParseSubPartDir(b []byte, name string) (*SubPartDir, error) {
	if err := check.Region(len(b), 0, SubPartDirHeaderSize); err != nil {
		return nil, ErrInvalidSubPartDir{Name: name, Err: fmt.Errorf("header is out of bounds: %w", err)}
	}

	dir := &SubPartDir{}
	if err := binary.Read(bytes.NewReader(b[:SubPartDirHeaderSize]), binary.LittleEndian, &dir.Header); err != nil {
		return nil, ErrInvalidSubPartDir{Name: name, Err: err}
	}
	if err := dir.Header.Validate(); err != nil {
		return nil, ErrInvalidSubPartDir{Name: name, Err: err}
	}

	entriesSize := uint64(dir.Header.NumEntries) * SubPartDirEntrySize
	if err := check.Region(len(b), SubPartDirHeaderSize, entriesSize); err != nil {
		return nil, ErrInvalidSubPartDir{Name: name, Err: fmt.Errorf("%d entries are out of bounds: %w", dir.Header.NumEntries, err)}
	}
	dir.Entries = make([]SubPartDirEntry, dir.Header.NumEntries)
	r := bytes.NewReader(b[SubPartDirHeaderSize : SubPartDirHeaderSize+entriesSize])
	if err := binary.Read(r, binary.LittleEndian, dir.Entries); err != nil {
		return nil, ErrInvalidSubPartDir{Name: name, Err: err}
	}

	if !dir.ChecksumValid() {
		log.Warnf("invalid checksum for %s (expected=0x%x, actual=0x%x)",
			name, dir.CalculateChecksum(), dir.Header.Checksum)
	}
	log.Debugf("%s: sub-partition directory with %d entries", name, len(dir.Entries))
	return dir, nil
}

// Size returns the encoded size of the header and the entries.
func (d *SubPartDir) Size() int {
	return SubPartDirHeaderSize + len(d.Entries)*SubPartDirEntrySize
}

// WriteTo writes the directory in little-endian. The entry count is taken
// from the number of entries.
func (d *SubPartDir) WriteTo(w io.Writer) (int64, error) {
	header := d.Header
	header.NumEntries = uint32(len(d.Entries))
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return 0, fmt.Errorf("unable to write the directory header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, d.Entries); err != nil {
		return SubPartDirHeaderSize, fmt.Errorf("unable to write the directory entries: %w", err)
	}
	return int64(d.Size()), nil
}

// Bytes returns the encoded directory.
func (d *SubPartDir) Bytes() ([]byte, error) {
	b := make([]byte, d.Size())
	if _, err := d.WriteTo(bytesextra.NewReadWriteSeeker(b)); err != nil {
		return nil, err
	}
	return b, nil
}

// CalculateChecksum returns the checksum the header should have.
func (d *SubPartDir) CalculateChecksum() uint8 {
	zeroed := *d
	zeroed.Header.Checksum = 0
	b, err := zeroed.Bytes()
	if err != nil {
		panic(err)
	}
	var sum uint8
	for _, v := range b {
		sum += v
	}
	return -sum
}

// ChecksumValid returns true if the stored checksum is correct.
func (d *SubPartDir) ChecksumValid() bool {
	return d.CalculateChecksum() == d.Header.Checksum
}

// UpdateChecksum stores the correct checksum into the header.
func (d *SubPartDir) UpdateChecksum() {
	d.Header.NumEntries = uint32(len(d.Entries))
	d.Header.Checksum = d.CalculateChecksum()
}

// Find returns the index of the entry with exactly the given name, or -1.
func (d *SubPartDir) Find(name string) int {
	for idx := range d.Entries {
		if d.Entries[idx].EntryName() == name {
			return idx
		}
	}
	return -1
}

// BuildSubPartition creates a sub-partition out of the entries: the
// directory is followed by the entries back to back, in the given order.
// The entries are named after their buffers.
func BuildSubPartition(name string, entries []*pkgbytes.Buffer) (*pkgbytes.Buffer, error) {
	dir := &SubPartDir{
		Header: SubPartDirHeader{
			Marker:        SubPartDirMarker,
			NumEntries:    uint32(len(entries)),
			HeaderVersion: SubPartDirHeaderVersion,
			EntryVersion:  SubPartDirEntryVersion,
			HeaderLength:  SubPartDirHeaderSize,
		},
		Entries: make([]SubPartDirEntry, len(entries)),
	}
	copy(dir.Header.Name[:], name)

	offset := dir.Size()
	for idx, entry := range entries {
		if len(entry.Name()) > SubPartDirEntryNameSize {
			return nil, fmt.Errorf("entry name '%s' is longer than %d bytes", entry.Name(), SubPartDirEntryNameSize)
		}
		copy(dir.Entries[idx].Name[:], entry.Name())
		dir.Entries[idx].Offset = uint32(offset)
		dir.Entries[idx].Length = uint32(entry.Len())
		offset += entry.Len()
	}
	dir.UpdateChecksum()

	result := pkgbytes.NewBuffer(name, offset)
	data := result.Bytes()
	for idx, entry := range entries {
		copy(data[dir.Entries[idx].Offset:], entry.Bytes())
	}
	if _, err := dir.WriteTo(bytesextra.NewReadWriteSeeker(data)); err != nil {
		return nil, err
	}
	return result, nil
}
