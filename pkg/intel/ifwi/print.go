// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary is a read-only description of an Image, suitable for JSON.
type Summary struct {
	FileSize      int
	StartOffset   int
	EndOffset     int
	BPDT          TableSummary
	SBPDT         TableSummary
	SubPartitions []SubPartitionSummary
}

// TableSummary describes a BPDT or S-BPDT.
type TableSummary struct {
	Header  BPDTHeader
	Entries []BPDTEntry
}

// SubPartitionSummary describes one sub-partition with a payload.
type SubPartitionSummary struct {
	Type         SubPartitionType
	ReadableName string
	Attributes   string
	Size         int
	Directory    *DirSummary `json:",omitempty"`
}

// DirSummary describes a sub-partition directory.
type DirSummary struct {
	Name          string
	Checksum      uint8
	ChecksumValid bool
	Entries       []DirEntrySummary
}

// DirEntrySummary describes one directory entry.
type DirEntrySummary struct {
	Name   string
	Offset uint32
	Length uint32
}

func newTableSummary(t *BPDT) TableSummary {
	result := TableSummary{
		Header:  t.Header,
		Entries: append([]BPDTEntry{}, t.Entries...),
	}
	result.Header.DescriptorCount = uint16(len(t.Entries))
	return result
}

func newDirSummary(dir *SubPartDir) *DirSummary {
	result := &DirSummary{
		Name:          dir.HeaderName(),
		Checksum:      dir.Header.Checksum,
		ChecksumValid: dir.ChecksumValid(),
	}
	for _, e := range dir.Entries {
		result.Entries = append(result.Entries, DirEntrySummary{
			Name:   e.EntryName(),
			Offset: e.Offset,
			Length: e.Length,
		})
	}
	return result
}

// Summary describes the image. With withDirs the directories of the
// sub-partitions which contain one are parsed as well.
func (img *Image) Summary(withDirs bool) (*Summary, error) {
	result := &Summary{
		FileSize:    img.input.Len(),
		StartOffset: img.StartOffset,
		EndOffset:   img.EndOffset,
		BPDT:        newTableSummary(img.BPDT),
		SBPDT:       newTableSummary(img.SBPDT),
	}
	for _, t := range img.SubPartitionTypes() {
		sp := SubPartitionSummary{
			Type:         t,
			ReadableName: t.ReadableName(),
			Attributes:   t.Attributes().String(),
			Size:         img.subParts[t].Len(),
		}
		if withDirs && t.Has(ContainsDir) {
			dir, err := img.SubPartDir(t)
			if err != nil {
				return nil, err
			}
			sp.Directory = newDirSummary(dir)
		}
		result.SubPartitions = append(result.SubPartitions, sp)
	}
	return result, nil
}

// MarshalJSON implements json.Marshaler. Directories are not included.
func (img *Image) MarshalJSON() ([]byte, error) {
	s, err := img.Summary(false)
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// Print writes both tables to w and, with withDirs, the directory of
// every sub-partition which contains one. It does not modify the image.
func (img *Image) Print(w io.Writer, withDirs bool) error {
	s, err := img.Summary(withDirs)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "IFWI at [0x%x:0x%x] (%s) of a %s file\n",
		s.StartOffset, s.EndOffset,
		humanize.IBytes(uint64(s.EndOffset-s.StartOffset)),
		humanize.IBytes(uint64(s.FileSize)))

	printTable(w, img.BPDT.Name, s.BPDT)
	printTable(w, img.SBPDT.Name, s.SBPDT)

	if !withDirs {
		return nil
	}
	for _, sp := range s.SubPartitions {
		if sp.Directory != nil {
			printDir(w, sp.Type, sp.Directory)
		}
	}
	return nil
}

func printTable(w io.Writer, name string, s TableSummary) {
	h := table.NewWriter()
	h.SetOutputMirror(w)
	h.SetTitle("%s Header", name)
	h.AppendHeader(table.Row{"Signature", "Descriptor Count", "Version", "XOR Redundant Block", "IFWI Version", "FIT Tool Version"})
	h.AppendRow(table.Row{
		fmt.Sprintf("0x%08x", s.Header.Signature),
		s.Header.DescriptorCount,
		s.Header.Version,
		fmt.Sprintf("0x%x", s.Header.XORRedundantBlock),
		fmt.Sprintf("0x%x", s.Header.IFWIVersion),
		fmt.Sprintf("0x%x", s.Header.FITToolVersion),
	})
	h.Render()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s Entries", name)
	t.AppendHeader(table.Row{"#", "Type", "Name", "Readable Name", "Flags", "Offset", "Size", ""})
	for idx, e := range s.Entries {
		t.AppendRow(table.Row{
			idx,
			uint16(e.Type),
			e.Type.Name(),
			e.Type.ReadableName(),
			fmt.Sprintf("0x%x", e.Flags),
			fmt.Sprintf("0x%x", e.Offset),
			fmt.Sprintf("0x%x", e.Size),
			humanize.IBytes(uint64(e.Size)),
		})
	}
	t.Render()
}

func printDir(w io.Writer, typ SubPartitionType, dir *DirSummary) {
	h := table.NewWriter()
	h.SetOutputMirror(w)
	h.SetTitle("%s Directory Header", typ)
	h.AppendHeader(table.Row{"Name", "Entries", "Checksum", "Checksum Valid"})
	h.AppendRow(table.Row{
		dir.Name,
		len(dir.Entries),
		fmt.Sprintf("0x%02x", dir.Checksum),
		dir.ChecksumValid,
	})
	h.Render()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s Directory", typ)
	t.AppendHeader(table.Row{"#", "Entry Name", "Offset", "Length", ""})
	for idx, e := range dir.Entries {
		t.AppendRow(table.Row{
			idx,
			e.Name,
			fmt.Sprintf("0x%x", e.Offset),
			fmt.Sprintf("0x%x", e.Length),
			humanize.IBytes(uint64(e.Length)),
		})
	}
	t.Render()
}
