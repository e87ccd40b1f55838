// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package image assembles the bootloader, the partition table, the boot_app0
// stub and the application into one flashable ESP32 image.
package image

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/juju/errors"

	"github.com/embeddedgo/espmerge/espmerge/internal/board"
	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
	"github.com/embeddedgo/espmerge/espmerge/internal/hexfile"
	"github.com/embeddedgo/espmerge/espmerge/internal/util"
)

// MergeExecutionError reports a merge that failed to run or exited with a
// non-zero status.
type MergeExecutionError struct {
	Output   string
	ExitCode int // -1 if the merger didn't exit with a status
	Err      error
}

func (e *MergeExecutionError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("merge %s: exit status %d", e.Output, e.ExitCode)
	}
	return fmt.Sprintf("merge %s: %v", e.Output, e.Err)
}

func (e *MergeExecutionError) Unwrap() error { return e.Err }

// Assembler builds the merged image of a single build.
type Assembler struct {
	// PackageDir returns the directory of the named framework package.
	PackageDir func(name string) (string, error)

	Merger Merger
	Out    io.Writer    // progress banner, os.Stdout if nil
	Log    *slog.Logger // slog.Default() if nil

	// Hex enables writing an Intel HEX copy of the merged image next to it.
	Hex bool
}

// Assemble resolves the artifacts of the build described by cfg and merges
// them using the flash parameters p. It blocks until the merger returns.
func (a *Assembler) Assemble(cfg *board.Config, p flash.Params) error {
	log := a.Log
	if log == nil {
		log = slog.Default()
	}
	if cfg.Chip != "" && cfg.Chip != Chip {
		log.Warn("unsupported chip, merging for "+Chip, "mcu", cfg.Chip)
	}
	arts, err := ResolveArtifacts(cfg, p, a.PackageDir)
	if err != nil {
		return err
	}
	log.Debug(
		"artifacts resolved",
		"bootloader", arts.Bootloader, "partitions", arts.Partitions,
		"boot_app0", arts.Stub, "app", arts.App,
	)
	c := NewMergeCommand(arts, p)
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	util.Banner(
		out,
		"Merging firmware into single flashable .bin",
		"Output: "+c.Output,
	)
	m := a.Merger
	if m == nil {
		m = &ToolMerger{Tool: cfg.Tool}
	}
	if tm, ok := m.(*ToolMerger); ok {
		log.Debug("running merge tool", "cmd", strings.Join(tm.Argv(c), " "))
	}
	if err = m.Merge(c); err != nil {
		return &MergeExecutionError{
			Output:   c.Output,
			ExitCode: util.ExitCode(err),
			Err:      err,
		}
	}
	log.Info("merged image ready", "output", c.Output)
	if !a.Hex {
		return nil
	}
	hexName := util.OutFile(c.Output, ".bin", "", ".hex")
	if err = hexfile.Convert(c.Output, hexName, 0); err != nil {
		return errors.Annotate(err, "intel hex")
	}
	log.Info("intel hex written", "output", hexName)
	return nil
}
