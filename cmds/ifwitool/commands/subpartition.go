// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/linuxboot/ifwitool/pkg/intel/ifwi"
)

// SubPartition holds the options of the commands which act on a single
// sub-partition, optionally on one entry of its directory.
type SubPartition struct {
	Name  string `short:"n" long:"name" description:"name of the sub-partition" required:"true"`
	Dir   bool   `short:"d" long:"dir_ops" description:"perform a directory operation"`
	Entry string `short:"e" long:"subpart_dentry" description:"name of the sub-partition directory entry"`
}

// Type resolves the sub-partition name and checks the directory options.
func (s *SubPartition) Type() (ifwi.SubPartitionType, error) {
	t, err := ifwi.SubPartitionTypeFromName(s.Name)
	if err != nil {
		return t, err
	}
	if s.Dir && s.Entry == "" {
		return t, ErrArgs{Err: fmt.Errorf("-e option is required for directory operations")}
	}
	return t, nil
}
