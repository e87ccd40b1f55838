// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/embeddedgo/espmerge/espmerge/internal/board"
	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
	"github.com/embeddedgo/espmerge/espmerge/internal/image"
	"github.com/embeddedgo/espmerge/espmerge/internal/util"
)

const Descr = "merge bootloader, partitions and application into one flashable image"

func Main(cmd string, args []string) {
	err := run(cmd, args, os.Stdout, os.Stderr)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return
	}
	var me *image.MergeExecutionError
	if errors.As(err, &me) && me.ExitCode > 0 {
		util.Warn("%s", err)
		os.Exit(me.ExitCode)
	}
	util.FatalErr(cmd, err)
}

func run(cmd string, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  %s [OPTIONS]\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	boardFile := fs.String("board", "", "HCL board `file` with the flash configuration")
	buildDir := fs.String("build-dir", "$BUILD_DIR", "build output `directory`")
	prog := fs.String("prog", "$PROGNAME", "program `name`")
	framework := fs.String(
		"framework", "",
		"Arduino framework package `directory`, looked up in the PlatformIO\n"+
			"packages if not set",
	)
	tool := fs.String("tool", "", "merge tool `command` (default \"esptool.py\")")
	native := fs.Bool("native", false, "merge without running the external tool")
	hex := fs.Bool("hex", false, "write also an Intel HEX copy of the merged image")
	verbose := fs.Bool("v", false, "print debug messages")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	vars := board.EnvVars(os.Getenv("BUILD_DIR"), os.Getenv("PROGNAME"))
	vars.BuildDir = vars.Subst(*buildDir)
	vars.ProgName = vars.Subst(*prog)
	if vars.BuildDir == "" {
		return errors.New("build directory not set (use -build-dir or BUILD_DIR)")
	}
	if vars.ProgName == "" {
		return errors.New("program name not set (use -prog or PROGNAME)")
	}
	cfg := board.New(vars)
	if *boardFile != "" {
		var err error
		if cfg, err = board.Load(vars.Subst(*boardFile), vars); err != nil {
			return err
		}
	}
	if *framework != "" {
		cfg.FrameworkDir = vars.Subst(*framework)
	}
	if *tool != "" {
		cfg.Tool = strings.Fields(vars.Subst(*tool))
	}
	params, err := flash.Resolve(cfg)
	if err != nil {
		return err
	}
	log.Debug(
		"flash parameters",
		"flash_mode", params.Mode, "flash_freq", params.Freq, "flash_size", params.Size,
	)

	var merger image.Merger = &image.ToolMerger{Tool: cfg.Tool}
	if *native {
		merger = &image.NativeMerger{Pad: 0xff, Log: log}
	}
	pkgDirs := util.PackageDirs(os.Getenv)
	a := &image.Assembler{
		PackageDir: func(name string) (string, error) {
			return util.PackageDir(pkgDirs, name)
		},
		Merger: merger,
		Out:    stdout,
		Log:    log,
		Hex:    *hex,
	}
	return a.Assemble(cfg, params)
}
