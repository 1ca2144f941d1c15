// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"fmt"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi/check"
	"github.com/linuxboot/ifwitool/pkg/log"
)

// Result tells the caller what to do after an operation.
type Result int

const (
	// NoActionRequired means the image is unchanged.
	NoActionRequired Result = iota
	// RepackRequired means the image has to be repacked and written out.
	RepackRequired
)

func (r Result) String() string {
	switch r {
	case NoActionRequired:
		return "no action required"
	case RepackRequired:
		return "repack required"
	}
	return fmt.Sprintf("unknown result %d", int(r))
}

func checkUserSupplied(t SubPartitionType, operation string) error {
	if !t.IsValid() {
		return ErrInvalidSubPartitionType{Type: t}
	}
	if t.Has(AutoGenerated) {
		return ErrAutoGenerated{Type: t, Operation: operation}
	}
	return nil
}

func (img *Image) checkAdd(t SubPartitionType) error {
	if err := checkUserSupplied(t, "add"); err != nil {
		return err
	}
	if img.HasSubPartition(t) {
		return ErrAlreadyPresent{Type: t}
	}
	return nil
}

// Add stores a copy of input as the payload of the given type.
func (img *Image) Add(t SubPartitionType, input *pkgbytes.Buffer) (Result, error) {
	if err := img.checkAdd(t); err != nil {
		return NoActionRequired, err
	}
	payload := input.Clone()
	payload.SetName(t.Name())
	img.subParts[t] = payload
	log.Debugf("sub-partition %s added from %s", t, input.Name())
	return RepackRequired, nil
}

// AddDir builds the payload of the given type, including its directory,
// around input.
func (img *Image) AddDir(t SubPartitionType, input *pkgbytes.Buffer) (Result, error) {
	if err := img.checkAdd(t); err != nil {
		return NoActionRequired, err
	}
	if !t.SupportsDirAdd() {
		return NoActionRequired, ErrNoDirSupport{Type: t}
	}
	payload, err := dirBuilders[t](img, t, input)
	if err != nil {
		return NoActionRequired, fmt.Errorf("unable to build sub-partition %s: %w", t, err)
	}
	img.subParts[t] = payload
	log.Debugf("sub-partition %s created from %s", t, input.Name())
	return RepackRequired, nil
}

// Delete drops the payload of the given type. Deleting an absent payload
// requires no action.
func (img *Image) Delete(t SubPartitionType) (Result, error) {
	if err := checkUserSupplied(t, "delete"); err != nil {
		return NoActionRequired, err
	}
	if !img.HasSubPartition(t) {
		log.Debugf("image does not contain sub-partition %s", t)
		return NoActionRequired, nil
	}
	img.subParts[t] = nil
	log.Debugf("sub-partition %s deleted", t)
	return RepackRequired, nil
}

// Extract returns the payload of the given type. The S-BPDT cannot be
// extracted: a nil buffer and a nil error are returned for it.
func (img *Image) Extract(t SubPartitionType) (*pkgbytes.Buffer, error) {
	if !t.IsValid() {
		return nil, ErrInvalidSubPartitionType{Type: t}
	}
	if t == SBPDTType {
		log.Infof("raw extract of %s is not supported", t)
		return nil, nil
	}
	if !img.HasSubPartition(t) {
		return nil, ErrNotPresent{Type: t}
	}
	log.Debugf("extracting sub-partition %s", t)
	return img.subParts[t].Clone(), nil
}

// findDirEntry parses the directory of the given type and locates the entry.
func (img *Image) findDirEntry(t SubPartitionType, entry string) (*SubPartDir, int, error) {
	dir, err := img.SubPartDir(t)
	if err != nil {
		return nil, -1, err
	}
	idx := dir.Find(entry)
	if idx < 0 {
		return nil, -1, ErrDirEntryNotFound{Type: t, Entry: entry}
	}
	e := dir.Entries[idx]
	if err := check.Region(img.subParts[t].Len(), uint64(e.Offset), uint64(e.Length)); err != nil {
		return nil, -1, ErrInvalidSubPartDir{Name: t.Name(), Err: fmt.Errorf("entry '%s': %w", entry, err)}
	}
	return dir, idx, nil
}

// ExtractDirEntry returns the named entry of the directory of the given
// type. The result is a view of the payload.
func (img *Image) ExtractDirEntry(t SubPartitionType, entry string) (*pkgbytes.Buffer, error) {
	if !t.IsValid() {
		return nil, ErrInvalidSubPartitionType{Type: t}
	}
	if t == SBPDTType {
		log.Infof("extract of %s is not supported", t)
		return nil, nil
	}
	if !img.HasSubPartition(t) {
		return nil, ErrNotPresent{Type: t}
	}
	dir, idx, err := img.findDirEntry(t, entry)
	if err != nil {
		return nil, err
	}
	e := dir.Entries[idx]
	log.Debugf("splicing %s at 0x%x size 0x%x", t, e.Offset, e.Length)
	result := img.subParts[t].Splice(int(e.Offset), int(e.Length))
	result.SetName(entry)
	return result, nil
}

func (img *Image) checkReplace(t SubPartitionType) error {
	if err := checkUserSupplied(t, "replace"); err != nil {
		return err
	}
	if !img.HasSubPartition(t) {
		return ErrNotPresent{Type: t}
	}
	return nil
}

// Replace replaces the payload of the given type with a copy of input.
func (img *Image) Replace(t SubPartitionType, input *pkgbytes.Buffer) (Result, error) {
	if err := img.checkReplace(t); err != nil {
		return NoActionRequired, err
	}
	img.subParts[t] = nil
	return img.Add(t, input)
}

// ReplaceDirEntry replaces the content of the named directory entry with
// input. The entries located after it are moved by the change in size and
// the directory checksum is updated.
func (img *Image) ReplaceDirEntry(t SubPartitionType, entry string, input *pkgbytes.Buffer) (Result, error) {
	if err := img.checkReplace(t); err != nil {
		return NoActionRequired, err
	}
	dir, idx, err := img.findDirEntry(t, entry)
	if err != nil {
		return NoActionRequired, err
	}

	old := img.subParts[t]
	e := dir.Entries[idx]
	oldEnd := int(e.Offset) + int(e.Length)
	delta := input.Len() - int(e.Length)

	payload := pkgbytes.NewBuffer(old.Name(), old.Len()+delta)
	data := payload.Bytes()
	n := copy(data, old.Bytes()[:e.Offset])
	n += copy(data[n:], input.Bytes())
	copy(data[n:], old.Bytes()[oldEnd:])

	for i := range dir.Entries {
		if i != idx && int(dir.Entries[i].Offset) >= oldEnd {
			dir.Entries[i].Offset = uint32(int(dir.Entries[i].Offset) + delta)
		}
	}
	dir.Entries[idx].Length = uint32(input.Len())
	dir.UpdateChecksum()

	dirBytes, err := dir.Bytes()
	if err != nil {
		return NoActionRequired, err
	}
	if err := check.Region(payload.Len(), 0, uint64(len(dirBytes))); err != nil {
		return NoActionRequired, ErrInvalidSubPartDir{Name: t.Name(), Err: err}
	}
	copy(data, dirBytes)

	img.subParts[t] = payload
	log.Debugf("sub-partition %s entry '%s' replaced from %s", t, entry, input.Name())
	return RepackRequired, nil
}

// Create drops everything outside of the IFWI, so the repacked image
// contains only the IFWI.
func (img *Image) Create() (Result, error) {
	img.input = img.input.Splice(img.StartOffset, img.EndOffset-img.StartOffset)
	img.EndOffset -= img.StartOffset
	img.StartOffset = 0
	return RepackRequired, nil
}
