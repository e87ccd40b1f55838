// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/embeddedgo/espmerge/espmerge/internal/board"
	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
	"github.com/embeddedgo/espmerge/espmerge/internal/util"
)

const Descr = "print the flash parameters passed to the merge tool"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS]\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	boardFile := fs.String("board", "", "HCL board `file` with the flash configuration")
	fs.Parse(args)
	if fs.NArg() != 0 {
		fs.Usage()
		os.Exit(1)
	}
	util.FatalErr(cmd, printParams(os.Stdout, *boardFile))
}

func printParams(w io.Writer, boardFile string) error {
	vars := board.EnvVars(os.Getenv("BUILD_DIR"), os.Getenv("PROGNAME"))
	cfg := board.New(vars)
	if boardFile != "" {
		var err error
		if cfg, err = board.Load(vars.Subst(boardFile), vars); err != nil {
			return err
		}
	}
	p, err := flash.Resolve(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(
		w, "--flash_mode %s --flash_freq %s --flash_size %s\n",
		p.Mode, p.Freq, p.Size,
	)
	return err
}
