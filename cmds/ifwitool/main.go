// Copyright 2017-2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ifwitool manipulates Intel Integrated Firmware Images (IFWI): the BPDT
// and S-BPDT tables and the sub-partitions they describe.
//
// Synopsis:
//     ifwitool IMAGE add -f FILE -n NAME [-d -e ENTRY] [-v]
//     ifwitool IMAGE create -f FILE [-v]
//     ifwitool IMAGE delete -n NAME [-v]
//     ifwitool IMAGE extract -f FILE -n NAME [-d -e ENTRY] [-v]
//     ifwitool IMAGE print [-d] [--format text|json]
//     ifwitool IMAGE replace -f FILE -n NAME [-d -e ENTRY] [-v]
//
// An example:
//     ifwitool ifwi.bin add -f ibbl.bin -n IBBP -d -e IBBL
//     ifwitool ifwi.bin replace -f ibbl.bin -n IBBP -d -e IBBL
//     ifwitool ifwi.bin extract -f obb.bin -n OBBP
//     ifwitool ifwi.bin print --format=json | jq '.SubPartitions[].Type'
//
// Description:
//     add:     Add sub-partition NAME from FILE
//     create:  Write the IFWI contained in IMAGE to FILE
//     delete:  Delete sub-partition NAME
//     extract: Store sub-partition NAME in FILE
//     print:   Print the BPDT and S-BPDT
//     replace: Replace sub-partition NAME with FILE
//
// add, delete and replace rewrite IMAGE in place.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands"
	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands/add"
	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands/create"
	_delete "github.com/linuxboot/ifwitool/cmds/ifwitool/commands/delete"
	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands/extract"
	_print "github.com/linuxboot/ifwitool/cmds/ifwitool/commands/print"
	"github.com/linuxboot/ifwitool/cmds/ifwitool/commands/replace"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi"
	"github.com/linuxboot/ifwitool/pkg/log"
)

func knownCommands(common commands.Common) map[string]commands.Command {
	return map[string]commands.Command{
		"add":     &add.Command{Common: common},
		"create":  &create.Command{Common: common},
		"delete":  &_delete.Command{Common: common},
		"extract": &extract.Command{Common: common},
		"print":   &_print.Command{Common: common},
		"replace": &replace.Command{Common: common},
	}
}

func newParser(imagePath string, stdout io.Writer) *flags.Parser {
	parser := flags.NewNamedParser("ifwitool", flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "IMAGE COMMAND [OPTIONS]"
	parser.ShortDescription = "Utility for IFWI manipulation"

	common := commands.Common{ImagePath: imagePath, Stdout: stdout}
	for commandName, command := range knownCommands(common) {
		_, err := parser.AddCommand(commandName, command.ShortDescription(), command.LongDescription(), command)
		if err != nil {
			panic(err)
		}
	}
	return parser
}

func isHelp(arg string) bool {
	return arg == "-h" || arg == "--help"
}

// run executes one ifwitool invocation and returns the exit code.
func run(args []string, stdout io.Writer) int {
	if len(args) < 2 || isHelp(args[0]) {
		newParser("", stdout).WriteHelp(stdout)
		fmt.Fprintf(stdout, "\nNAME should be one of:\n%s", ifwi.NamesHelp())
		return 1
	}

	parser := newParser(args[0], stdout)
	if _, err := parser.ParseArgs(args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
		} else {
			log.Errorf("%v", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}
