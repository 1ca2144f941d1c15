// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ifwi

import (
	"fmt"
)

// ErrNoBPDT means no BPDT signature was found at any 4K boundary of the
// input.
type ErrNoBPDT struct{}

func (ErrNoBPDT) Error() string {
	return "image does not contain a BPDT"
}

// ErrInvalidBPDT means a BPDT or S-BPDT header or entry array is malformed.
type ErrInvalidBPDT struct {
	Name string
	Err  error
}

func (err ErrInvalidBPDT) Error() string {
	return fmt.Sprintf("invalid %s: %v", err.Name, err.Err)
}

func (err ErrInvalidBPDT) Unwrap() error {
	return err.Err
}

// ErrInvalidSubPartDir means a sub-partition directory header is malformed.
type ErrInvalidSubPartDir struct {
	Name string
	Err  error
}

func (err ErrInvalidSubPartDir) Error() string {
	return fmt.Sprintf("invalid sub-partition directory for %s: %v", err.Name, err.Err)
}

func (err ErrInvalidSubPartDir) Unwrap() error {
	return err.Err
}

// ErrInvalidSubPartitionType means a table entry refers to an unknown type.
type ErrInvalidSubPartitionType struct {
	Type SubPartitionType
}

func (err ErrInvalidSubPartitionType) Error() string {
	return fmt.Sprintf("invalid sub-partition type %d", uint16(err.Type))
}

// ErrDuplicateSubPartition means the tables list the same type twice.
type ErrDuplicateSubPartition struct {
	Type SubPartitionType
}

func (err ErrDuplicateSubPartition) Error() string {
	return fmt.Sprintf("multiple sub-partitions of type %s", err.Type)
}

// ErrUnknownSubPartition means there is no sub-partition with this name.
type ErrUnknownSubPartition struct {
	Name string
}

func (err ErrUnknownSubPartition) Error() string {
	return fmt.Sprintf("invalid sub-partition name '%s'", err.Name)
}

// ErrAutoGenerated means the operation is not allowed on a sub-partition
// which is generated by the tool.
type ErrAutoGenerated struct {
	Type      SubPartitionType
	Operation string
}

func (err ErrAutoGenerated) Error() string {
	return fmt.Sprintf("cannot %s auto-generated sub-partition %s", err.Operation, err.Type)
}

// ErrAlreadyPresent means the image already has the sub-partition.
type ErrAlreadyPresent struct {
	Type SubPartitionType
}

func (err ErrAlreadyPresent) Error() string {
	return fmt.Sprintf("image already contains sub-partition %s", err.Type)
}

// ErrNotPresent means the image does not have the sub-partition.
type ErrNotPresent struct {
	Type SubPartitionType
}

func (err ErrNotPresent) Error() string {
	return fmt.Sprintf("image does not contain sub-partition %s", err.Type)
}

// ErrNoDirSupport means a directory operation was requested on a
// sub-partition which does not support it.
type ErrNoDirSupport struct {
	Type SubPartitionType
}

func (err ErrNoDirSupport) Error() string {
	return fmt.Sprintf("sub-partition %s does not support dir ops", err.Type)
}

// ErrDirEntryNotFound means the sub-partition directory has no entry with
// the requested name.
type ErrDirEntryNotFound struct {
	Type  SubPartitionType
	Entry string
}

func (err ErrDirEntryNotFound) Error() string {
	return fmt.Sprintf("entry '%s' not found in sub-partition %s", err.Entry, err.Type)
}
