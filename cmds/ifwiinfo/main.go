// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ifwiinfo prints where the IFWI lies in an image and which sub-partitions
// it contains.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi"
	"github.com/linuxboot/ifwitool/pkg/log"
)

func printSummary(w io.Writer, s *ifwi.Summary) {
	fmt.Fprintf(w, "IFWI:  [0x%x:0x%x] %s\n", s.StartOffset, s.EndOffset,
		humanize.IBytes(uint64(s.EndOffset-s.StartOffset)))
	fmt.Fprintf(w, "File:  %s\n", humanize.IBytes(uint64(s.FileSize)))
	fmt.Fprintf(w, "BPDT:  %d entries\n", len(s.BPDT.Entries))
	fmt.Fprintf(w, "S-BPDT: %d entries\n", len(s.SBPDT.Entries))
	for _, sp := range s.SubPartitions {
		fmt.Fprintf(w, "  %-10s %-28s %10s  %s\n",
			sp.Type.Name(), sp.ReadableName, humanize.IBytes(uint64(sp.Size)), sp.Attributes)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("ifwiinfo", flag.ContinueOnError)
	jsonOut := fs.BoolP("json", "j", false, "output as JSON")
	verbose := fs.CountP("verbose", "v", "increase verbosity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log.SetVerbosity(*verbose)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ifwiinfo [-j] <image-file>")
	}

	input, err := pkgbytes.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	img, err := ifwi.Parse(input)
	if err != nil {
		return err
	}
	s, err := img.Summary(false)
	if err != nil {
		return err
	}

	if *jsonOut {
		j, err := json.MarshalIndent(s, "", "    ")
		if err != nil {
			return fmt.Errorf("cannot marshal JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(j))
		return nil
	}
	printSummary(stdout, s)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
