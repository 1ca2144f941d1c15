// Copyright 2017-2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"io"

	"github.com/jessevdk/go-flags"

	pkgbytes "github.com/linuxboot/ifwitool/pkg/bytes"
	"github.com/linuxboot/ifwitool/pkg/intel/ifwi"
	"github.com/linuxboot/ifwitool/pkg/log"
)

// Command is an interface of implementations of verbs
// (like "add", "delete" etc of "ifwitool IMAGE add"/"ifwitool IMAGE delete")
type Command interface {
	flags.Commander

	// ShortDescription explains what this command does in one line
	ShortDescription() string

	// LongDescription explains what this verb does (without limitation in amount of lines)
	LongDescription() string
}

// Common is embedded by every command. ImagePath and Stdout are filled
// in by main before the arguments are parsed.
type Common struct {
	ImagePath string    `no-flag:"true"`
	Stdout    io.Writer `no-flag:"true"`

	Verbose []bool `short:"v" long:"verbose" description:"increase verbosity, may be repeated"`
}

// Setup applies the verbosity flags and rejects extra arguments.
func (c *Common) Setup(args []string) error {
	log.SetVerbosity(1 + len(c.Verbose))
	if len(args) != 0 {
		return ErrArgs{Err: fmt.Errorf("there are extra arguments: %v", args)}
	}
	return nil
}

// Printf writes a status message for the user.
func (c *Common) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout, format, args...)
}

// Open reads and parses the image file.
func (c *Common) Open() (*ifwi.Image, error) {
	input, err := pkgbytes.ReadFile(c.ImagePath)
	if err != nil {
		return nil, err
	}
	img, err := ifwi.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("unable to parse '%s': %w", c.ImagePath, err)
	}
	return img, nil
}

// Write repacks img and writes the result to path.
func (c *Common) Write(img *ifwi.Image, path string) error {
	out, err := img.Repack()
	if err != nil {
		return fmt.Errorf("unable to repack the image: %w", err)
	}
	if err := out.WriteFile(path); err != nil {
		return fmt.Errorf("unable to write '%s': %w", path, err)
	}
	c.Printf("Image written successfully to %s.\n", path)
	return nil
}

// Finish writes img back to the image file if the operation asked for it.
func (c *Common) Finish(img *ifwi.Image, result ifwi.Result) error {
	if result != ifwi.RepackRequired {
		return nil
	}
	return c.Write(img, c.ImagePath)
}
