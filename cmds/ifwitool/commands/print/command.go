// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package print

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	commands.Common

	Dir    bool    `short:"d" long:"dir_ops" description:"print the sub-partition directories as well"`
	Format *string `long:"format" description:"output format [text, json]"`
}

type Format int

const (
	FormatUndefined = Format(iota)
	FormatText
	FormatJSON
)

func ParseFormat(s string) Format {
	switch strings.Trim(strings.ToLower(s), " ") {
	case "text":
		return FormatText
	case "json":
		return FormatJSON
	}
	return FormatUndefined
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "print the BPDT and S-BPDT"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return ""
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
func (cmd *Command) Execute(args []string) error {
	if err := cmd.Setup(args); err != nil {
		return err
	}

	format := FormatText
	if cmd.Format != nil {
		format = ParseFormat(*cmd.Format)
		if format == FormatUndefined {
			return commands.ErrArgs{Err: fmt.Errorf("unknown format '%s'", *cmd.Format)}
		}
	}

	img, err := cmd.Open()
	if err != nil {
		return err
	}

	switch format {
	case FormatText:
		return img.Print(cmd.Stdout, cmd.Dir)
	case FormatJSON:
		s, err := img.Summary(cmd.Dir)
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to serialize the summary: %w", err)
		}
		cmd.Printf("%s\n", b)
	}
	return nil
}
