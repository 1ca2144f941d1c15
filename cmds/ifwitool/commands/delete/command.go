// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delete

import (
	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi"
)

var _ commands.Command = (*Command)(nil)

// Command removes a sub-partition.
type Command struct {
	commands.Common

	Name string `short:"n" long:"name" description:"name of the sub-partition" required:"true"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "delete a sub-partition"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Removes sub-partition NAME. The image is left untouched if it does not contain it."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
func (cmd *Command) Execute(args []string) error {
	if err := cmd.Setup(args); err != nil {
		return err
	}
	t, err := ifwi.SubPartitionTypeFromName(cmd.Name)
	if err != nil {
		return err
	}
	img, err := cmd.Open()
	if err != nil {
		return err
	}
	result, err := img.Delete(t)
	if err != nil {
		return err
	}
	if result == ifwi.NoActionRequired {
		cmd.Printf("Image does not contain sub-partition %s.\n", t)
		return nil
	}
	cmd.Printf("Sub-partition %s deleted.\n", t)
	return cmd.Finish(img, result)
}
