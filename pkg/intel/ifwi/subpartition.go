// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"fmt"
	"strings"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
)

// SubPartitionType is the type of a sub-partition as stored in a BPDT
// entry.
type SubPartitionType uint16

// Known sub-partition types.
const (
	SMIPType SubPartitionType = iota
	CSERBEType
	CSEBUPType
	UCodeType
	IBBType
	SBPDTType
	OBBType
	CSEMainType
	ISHType
	CSEIDLMType
	IFPOverrideType
	DebugTokensType
	UFSPhyType
	UFSGPPType
	PMCType
	IUnitType
	NVMConfigType
	UEPType
	UFSRateBType

	// MaxSubPartitions is the amount of known sub-partition types.
	MaxSubPartitions
)

// Attributes describe how a sub-partition is laid out.
type Attributes uint32

const (
	// LiesWithinBPDT4K means the sub-partition lies within the same 4K
	// block as the BPDT.
	LiesWithinBPDT4K Attributes = 1 << iota
	// NonCritical means the sub-partition is listed in the S-BPDT.
	NonCritical
	// ContainsDir means the sub-partition starts with a directory.
	ContainsDir
	// AutoGenerated means the sub-partition is generated by the tool.
	AutoGenerated
	// MandatoryBPDTEntry means the table keeps an entry (of size 0 and
	// offset 0) even if the sub-partition is absent.
	MandatoryBPDTEntry
)

// dirBuilder creates the content of a sub-partition with a directory from
// the user-supplied file.
type dirBuilder func(img *Image, t SubPartitionType, input *pkgbytes.Buffer) (*pkgbytes.Buffer, error)

type subPartitionInfo struct {
	name         string
	readableName string
	attributes   Attributes
}

// dirBuilders is filled by init: the builders refer to subPartitions.
var dirBuilders [MaxSubPartitions]dirBuilder

func init() {
	dirBuilders[IBBType] = buildIBBPDir
}

var subPartitions = [MaxSubPartitions]subPartitionInfo{
	SMIPType:        {"SMIP", "SMIP", ContainsDir},
	CSERBEType:      {"RBEP", "CSE_RBE", ContainsDir | MandatoryBPDTEntry},
	CSEBUPType:      {"FTPR", "CSE_BUP", ContainsDir | MandatoryBPDTEntry},
	UCodeType:       {"UCOD", "Microcode", ContainsDir},
	IBBType:         {"IBBP", "Bootblock", ContainsDir},
	SBPDTType:       {"S_BPDT", "S-BPDT", AutoGenerated | MandatoryBPDTEntry},
	OBBType:         {"OBBP", "OEM boot block", ContainsDir | NonCritical},
	CSEMainType:     {"NFTP", "CSE_MAIN", ContainsDir | NonCritical},
	ISHType:         {"ISHP", "ISH", NonCritical},
	CSEIDLMType:     {"DLMP", "CSE_IDLM", ContainsDir | MandatoryBPDTEntry},
	IFPOverrideType: {"IFP_OVERRIDE", "IFP_OVERRIDE", LiesWithinBPDT4K | MandatoryBPDTEntry},
	DebugTokensType: {"DEBUG_TOKENS", "Debug Tokens", 0},
	UFSPhyType:      {"UFS_PHY", "UFS Phy", LiesWithinBPDT4K | MandatoryBPDTEntry},
	UFSGPPType:      {"UFS_GPP", "UFS GPP", LiesWithinBPDT4K | MandatoryBPDTEntry},
	PMCType:         {"PMCP", "PMC firmware", ContainsDir},
	IUnitType:       {"IUNP", "IUNIT", NonCritical},
	NVMConfigType:   {"NVM_CONFIG", "NVM Config", 0},
	UEPType:         {"UEP", "UEP", LiesWithinBPDT4K | MandatoryBPDTEntry},
	UFSRateBType:    {"UFS_RATE_B", "UFS Rate B Config", 0},
}

// HeaderOrder is the order in which sub-partitions get their entries in
// the BPDT and S-BPDT. The first six are mandatory, the rest is the
// recommended order.
var HeaderOrder = [MaxSubPartitions]SubPartitionType{
	CSEIDLMType,
	IFPOverrideType,
	SBPDTType,
	CSERBEType,
	UFSPhyType,
	UFSGPPType,

	UEPType,
	NVMConfigType,
	UFSRateBType,
	IBBType,
	SMIPType,
	PMCType,
	CSEBUPType,
	UCodeType,
	DebugTokensType,
	IUnitType,
	CSEMainType,
	ISHType,
	OBBType,
}

// PackOrder is the order in which sub-partitions are placed in the image,
// so offsets increase along it. The first six are mandatory, the rest is
// the recommended order.
var PackOrder = [MaxSubPartitions]SubPartitionType{
	UFSGPPType,
	UFSPhyType,
	IFPOverrideType,
	UEPType,
	NVMConfigType,
	UFSRateBType,

	IBBType,
	SMIPType,
	CSERBEType,
	PMCType,
	CSEBUPType,
	UCodeType,
	CSEIDLMType,
	DebugTokensType,
	SBPDTType,
	IUnitType,
	CSEMainType,
	ISHType,
	OBBType,
}

// IsValid returns false for types this tool does not know.
func (t SubPartitionType) IsValid() bool {
	return t < MaxSubPartitions
}

// Name returns the short name used on the command line, e.g. "IBBP".
func (t SubPartitionType) Name() string {
	if !t.IsValid() {
		return fmt.Sprintf("UNKNOWN_0x%X", uint16(t))
	}
	return subPartitions[t].name
}

// ReadableName returns the descriptive name, e.g. "Bootblock".
func (t SubPartitionType) ReadableName() string {
	if !t.IsValid() {
		return "Unknown"
	}
	return subPartitions[t].readableName
}

// Attributes returns the static attributes of the type.
func (t SubPartitionType) Attributes() Attributes {
	if !t.IsValid() {
		return 0
	}
	return subPartitions[t].attributes
}

// Has returns true if the type has all attributes of attr.
func (t SubPartitionType) Has(attr Attributes) bool {
	return t.Attributes()&attr == attr
}

// SupportsDirAdd returns true if a directory can be built for the type
// out of a single user-supplied file.
func (t SubPartitionType) SupportsDirAdd() bool {
	return t.Has(ContainsDir) && dirBuilders[t] != nil
}

func (t SubPartitionType) String() string {
	return fmt.Sprintf("%s(%d)", t.Name(), uint16(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t SubPartitionType) MarshalText() ([]byte, error) {
	return []byte(t.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SubPartitionType) UnmarshalText(b []byte) error {
	parsed, err := SubPartitionTypeFromName(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SubPartitionTypeFromName returns the type with the given short name.
// The comparison is exact.
func SubPartitionTypeFromName(name string) (SubPartitionType, error) {
	for idx, info := range subPartitions {
		if info.name == name {
			return SubPartitionType(idx), nil
		}
	}
	return 0, ErrUnknownSubPartition{Name: name}
}

// AllSubPartitionTypes returns every known type in numeric order.
func AllSubPartitionTypes() []SubPartitionType {
	result := make([]SubPartitionType, 0, MaxSubPartitions)
	for t := SubPartitionType(0); t < MaxSubPartitions; t++ {
		result = append(result, t)
	}
	return result
}

// NamesHelp lists the accepted sub-partition names, one "NAME(Readable
// name)" per line.
func NamesHelp() string {
	var s strings.Builder
	for _, t := range AllSubPartitionTypes() {
		fmt.Fprintf(&s, "%s(%s)\n", t.Name(), t.ReadableName())
	}
	return s.String()
}

func (a Attributes) String() string {
	names := []string{}
	m := []struct {
		val  Attributes
		name string
	}{
		{LiesWithinBPDT4K, "WITHIN_BPDT_4K"},
		{NonCritical, "NON_CRITICAL"},
		{ContainsDir, "CONTAINS_DIR"},
		{AutoGenerated, "AUTO_GENERATED"},
		{MandatoryBPDTEntry, "MANDATORY"},
	}
	for _, v := range m {
		if v.val&a != 0 {
			names = append(names, v.name)
			a &^= v.val
		}
	}
	// Write a hex value for unknown flags.
	if a != 0 || len(names) == 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(a)))
	}
	return strings.Join(names, "|")
}
