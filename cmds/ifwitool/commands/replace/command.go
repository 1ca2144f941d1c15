// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package replace

import (
	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands"
	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi"
)

var _ commands.Command = (*Command)(nil)

// Command replaces a sub-partition, or one entry of its directory.
type Command struct {
	commands.Common
	commands.SubPartition

	File string `short:"f" long:"file" description:"file to replace with" required:"true"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "replace a sub-partition"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Replaces sub-partition NAME with FILE. With -d -e ENTRY only that directory\n" +
		"entry is replaced and the directory is updated accordingly."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
func (cmd *Command) Execute(args []string) error {
	if err := cmd.Setup(args); err != nil {
		return err
	}
	t, err := cmd.Type()
	if err != nil {
		return err
	}
	img, err := cmd.Open()
	if err != nil {
		return err
	}
	input, err := pkgbytes.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	var result ifwi.Result
	if cmd.Dir {
		result, err = img.ReplaceDirEntry(t, cmd.Entry, input)
	} else {
		result, err = img.Replace(t, input)
	}
	if err != nil {
		return err
	}
	cmd.Printf("Sub-partition %s replaced from file %s.\n", t, cmd.File)
	return cmd.Finish(img, result)
}
