// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"fmt"

	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands"
	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
)

var _ commands.Command = (*Command)(nil)

// Command stores a sub-partition, or one entry of its directory, in a file.
type Command struct {
	commands.Common
	commands.SubPartition

	File string `short:"f" long:"file" description:"file to extract to" required:"true"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "extract a sub-partition"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Stores sub-partition NAME in FILE. With -d -e ENTRY only that directory entry is stored."
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

	var b *pkgbytes.Buffer
	what := t.String()
	if cmd.Dir {
		b, err = img.ExtractDirEntry(t, cmd.Entry)
		what = fmt.Sprintf("%s entry '%s'", t, cmd.Entry)
	} else {
		b, err = img.Extract(t)
	}
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}
	if err := b.WriteFile(cmd.File); err != nil {
		return fmt.Errorf("unable to write '%s': %w", cmd.File, err)
	}
	cmd.Printf("Sub-partition %s stored in %s.\n", what, cmd.File)
	return nil
}
