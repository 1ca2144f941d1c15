// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"fmt"
	"math"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi/check"
	"github.com/linuxboot/ifwitool/pkg/log"
)

// repacker holds the state of one Repack. Padded payloads are local to
// it, the payloads of the Image are never modified.
type repacker struct {
	img    *Image
	bpdt   *BPDT
	sbpdt  *BPDT
	padded [MaxSubPartitions]*pkgbytes.Buffer
}

// Repack regenerates both tables, lays out all sub-partitions and returns
// the resulting image: the bytes before the IFWI, the IFWI and the bytes
// after it. The regenerated tables replace BPDT and SBPDT of the Image.
func (img *Image) Repack() (*pkgbytes.Buffer, error) {
	r := &repacker{img: img}
	for t := range img.subParts {
		r.padded[t] = img.subParts[t]
	}

	if err := r.reset(); err != nil {
		return nil, err
	}
	r.assignMembership()
	if err := r.assignOffsets(); err != nil {
		return nil, err
	}
	if err := r.checkLayout(); err != nil {
		return nil, err
	}
	result, err := r.serialize()
	if err != nil {
		return nil, err
	}

	img.BPDT = r.bpdt
	img.SBPDT = r.sbpdt
	log.Debugf("repack done, image size 0x%x", result.Len())
	return result, nil
}

// size returns the size a sub-partition starts with: the payload size, or
// the S-BPDT size for the S-BPDT itself.
func (r *repacker) size(t SubPartitionType) int {
	if t == SBPDTType {
		return r.sbpdt.Size()
	}
	return r.img.subParts[t].Len()
}

// reset creates empty tables of the size required for their entries.
func (r *repacker) reset() error {
	var bpdtCount, sbpdtCount, dummyCount int
	for _, t := range AllSubPartitionTypes() {
		if uint64(r.img.subParts[t].Len()) > math.MaxUint32 {
			return fmt.Errorf("sub-partition %s is too large: 0x%x bytes", t, r.img.subParts[t].Len())
		}
		if t == SBPDTType || r.img.subParts[t].Len() == 0 {
			if t.Has(MandatoryBPDTEntry) {
				if t.Has(NonCritical) {
					sbpdtCount++
				} else {
					bpdtCount++
				}
				if t != SBPDTType {
					dummyCount++
				}
			}
			continue
		}
		if t.Has(NonCritical) {
			sbpdtCount++
		} else {
			bpdtCount++
		}
	}
	log.Debugf("count: BPDT = %d, dummy BPDT = %d, S-BPDT = %d", bpdtCount, dummyCount, sbpdtCount)

	r.bpdt = &BPDT{
		Name:    "BPDT",
		Header:  r.img.BPDT.Header,
		Entries: make([]BPDTEntry, 0, bpdtCount),
	}
	r.bpdt.AllocSize = BPDTHeaderSize + bpdtCount*BPDTEntrySize
	if r.bpdt.AllocSize < BPDTMinSize {
		r.bpdt.AllocSize = BPDTMinSize
	}

	sbpdtHeader := newSBPDT().Header
	if r.img.SBPDT != nil {
		sbpdtHeader = r.img.SBPDT.Header
	}
	r.sbpdt = &BPDT{
		Name:    "S-BPDT",
		Header:  sbpdtHeader,
		Entries: make([]BPDTEntry, 0, sbpdtCount),
	}
	r.sbpdt.AllocSize = int(pkgbytes.AlignUp(uint64(BPDTHeaderSize+sbpdtCount*BPDTEntrySize), BlockSize))
	return nil
}

// assignMembership adds the entries to the tables in HeaderOrder.
func (r *repacker) assignMembership() {
	for _, t := range HeaderOrder {
		size := r.size(t)
		if size == 0 && !t.Has(MandatoryBPDTEntry) {
			continue
		}
		table := r.bpdt
		if t.Has(NonCritical) {
			table = r.sbpdt
		}
		table.Entries = append(table.Entries, BPDTEntry{
			Type: t,
			Size: uint32(size),
		})
	}
}

func (r *repacker) find(t SubPartitionType) *BPDTEntry {
	if e := r.bpdt.Find(t); e != nil {
		return e
	}
	return r.sbpdt.Find(t)
}

// assignOffsets places the sub-partitions in PackOrder. Sub-partitions
// which lie within the 4K of the BPDT are packed right after the BPDT
// without gaps. All others start and end on a 4K boundary and their size
// is rounded up. The S-BPDT entry then covers the S-BPDT and all
// sub-partitions placed after it.
func (r *repacker) assignOffsets() error {
	offset := uint64(r.bpdt.Size())

	last := MaxSubPartitions
	for _, t := range PackOrder {
		e := r.find(t)
		if e == nil || e.Size == 0 || !t.Has(LiesWithinBPDT4K) {
			continue
		}
		e.Offset = uint32(offset)
		offset += uint64(e.Size)
		last = t
		log.Debugf("%s: offset 0x%x, size 0x%x", t, e.Offset, e.Size)
	}

	// Fill the rest of the first block, the size stays unchanged.
	end := pkgbytes.AlignUp(offset, BlockSize)
	if last != MaxSubPartitions {
		buf := r.padded[last]
		r.padded[last] = buf.Pad(buf.Len()+int(end-offset), 0xFF)
	}
	offset = end

	for _, t := range PackOrder {
		e := r.find(t)
		if e == nil || e.Size == 0 || t.Has(LiesWithinBPDT4K) {
			continue
		}
		subEnd := pkgbytes.AlignUp(offset+uint64(e.Size), BlockSize)
		if subEnd > math.MaxUint32 {
			return fmt.Errorf("sub-partition %s ends at 0x%x, beyond 4GiB", t, subEnd)
		}
		e.Offset = uint32(offset)
		e.Size = uint32(subEnd - offset)
		if t != SBPDTType {
			r.padded[t] = r.padded[t].Pad(int(e.Size), 0xFF)
		}
		offset = subEnd
		log.Debugf("%s: offset 0x%x, size 0x%x", t, e.Offset, e.Size)
	}

	s := r.bpdt.Find(SBPDTType)
	if s == nil {
		return fmt.Errorf("BPDT has no %s entry", SBPDTType)
	}
	s.Size = uint32(offset - uint64(s.Offset))
	return nil
}

// checkLayout verifies that no two regions of the IFWI overlap.
func (r *repacker) checkLayout() error {
	var ranges pkgbytes.Ranges
	var names []string

	ranges = append(ranges, pkgbytes.Range{Length: uint64(r.bpdt.Size())})
	names = append(names, r.bpdt.Name)
	s := r.bpdt.Find(SBPDTType)
	ranges = append(ranges, pkgbytes.Range{Offset: uint64(s.Offset), Length: uint64(r.sbpdt.Size())})
	names = append(names, r.sbpdt.Name)
	for _, t := range PackOrder {
		e := r.find(t)
		if e == nil || e.Size == 0 || t == SBPDTType {
			continue
		}
		ranges = append(ranges, pkgbytes.Range{Offset: uint64(e.Offset), Length: uint64(r.padded[t].Len())})
		names = append(names, t.Name())
	}

	if i, j, ok := ranges.FindOverlap(); ok {
		return fmt.Errorf("%s %s overlaps with %s %s", names[i], ranges[i], names[j], ranges[j])
	}
	return nil
}

// serialize assembles the output image. Unused bytes are 0xFF.
func (r *repacker) serialize() (*pkgbytes.Buffer, error) {
	img := r.img
	s := r.bpdt.Find(SBPDTType)

	ifwiSize := int(pkgbytes.AlignUp(uint64(s.Offset)+uint64(s.Size), BlockSize))
	prefix := img.input.Bytes()[:img.StartOffset]
	var suffix []byte
	if img.EndOffset < img.input.Len() {
		suffix = img.input.Bytes()[img.EndOffset:]
	}
	log.Debugf("prefix 0x%x bytes, IFWI 0x%x bytes, suffix 0x%x bytes", len(prefix), ifwiSize, len(suffix))

	result := pkgbytes.NewBufferFilled(img.input.Name(), len(prefix)+ifwiSize+len(suffix), 0xFF)
	copy(result.Bytes(), prefix)
	ifwi := result.Splice(len(prefix), ifwiSize)
	copy(result.Bytes()[len(prefix)+ifwiSize:], suffix)

	for _, t := range PackOrder {
		if t == SBPDTType {
			continue
		}
		e := r.find(t)
		if e == nil || e.Size == 0 {
			continue
		}
		buf := r.padded[t]
		if err := check.Region(ifwi.Len(), uint64(e.Offset), uint64(buf.Len())); err != nil {
			return nil, fmt.Errorf("sub-partition %s does not fit into the IFWI: %w", t, err)
		}
		copy(ifwi.Bytes()[e.Offset:], buf.Bytes())
	}

	sbpdt, err := r.sbpdt.Bytes()
	if err != nil {
		return nil, err
	}
	if err := check.Region(ifwi.Len(), uint64(s.Offset), uint64(len(sbpdt))); err != nil {
		return nil, fmt.Errorf("S-BPDT does not fit into the IFWI: %w", err)
	}
	copy(ifwi.Bytes()[s.Offset:], sbpdt)

	bpdt, err := r.bpdt.Bytes()
	if err != nil {
		return nil, err
	}
	copy(ifwi.Bytes(), bpdt)
	return result, nil
}
