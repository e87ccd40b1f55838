// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hex

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/embeddedgo/espmerge/espmerge/internal/hexfile"
	"github.com/embeddedgo/espmerge/espmerge/internal/util"
)

const Descr = "convert a binary image to the Intel HEX format"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] BIN [%s]\nOptions:\n",
			cmd, strings.ToUpper(cmd),
		)
		fs.PrintDefaults()
	}
	base := fs.Uint("base", 0, "flash `address` of the first byte of the image")
	fs.Parse(args)
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	if uint(uint32(*base)) != *base {
		util.Fatal("%s: the base address %#x doesn't fit in 32 bits", cmd, *base)
	}
	bin := fs.Arg(0)
	out := util.OutFile(bin, ".bin", fs.Arg(1), ".hex")
	err := hexfile.Convert(bin, out, uint32(*base))
	util.FatalErr(cmd, err)
}
