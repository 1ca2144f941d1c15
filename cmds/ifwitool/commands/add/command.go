// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package add

import (
	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands"
	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
)

var _ commands.Command = (*Command)(nil)

// Command adds a sub-partition, or builds its directory around the file
// with -d.
type Command struct {
	commands.Common
	commands.SubPartition

	File string `short:"f" long:"file" description:"file to add" required:"true"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "add a sub-partition"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Adds FILE as sub-partition NAME. With -d the sub-partition directory is built\n" +
		"from FILE and the generated entries (only IBBP supports this)."
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

	add := img.Add
	if cmd.Dir {
		add = img.AddDir
	}
	result, err := add(t, input)
	if err != nil {
		return err
	}
	cmd.Printf("Sub-partition %s added from file %s.\n", t, cmd.File)
	return cmd.Finish(img, result)
}
