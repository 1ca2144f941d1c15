// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package create

import (
	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands"
)

var _ commands.Command = (*Command)(nil)

// Command writes the IFWI region of the image, without whatever precedes
// or follows it, to a new file.
type Command struct {
	commands.Common

	File string `short:"f" long:"file" description:"file to write the IFWI to" required:"true"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "create a new IFWI file"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Writes the IFWI contained in the image to FILE, dropping any data before and after it."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
func (cmd *Command) Execute(args []string) error {
	if err := cmd.Setup(args); err != nil {
		return err
	}
	img, err := cmd.Open()
	if err != nil {
		return err
	}
	if _, err := img.Create(); err != nil {
		return err
	}
	return cmd.Write(img, cmd.File)
}
