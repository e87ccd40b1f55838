// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import (
	"strconv"

	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
)

// Chip is the only target supported by the layout below.
const Chip = "esp32"

// Flash layout of the ESP32 Arduino partition scheme.
const (
	BootloaderAddr = 0x1000
	PartitionsAddr = 0x8000
	StubAddr       = 0xe000
	AppAddr        = 0x10000
)

// Region is a binary file placed at the Addr offset of the flash.
type Region struct {
	Addr uint32
	Path string
}

// MergeCommand describes one merge_bin invocation.
type MergeCommand struct {
	Chip    string
	Output  string
	Flash   flash.Params
	Regions []Region // in ascending Addr order
}

// NewMergeCommand returns the command merging a into a.Output.
func NewMergeCommand(a *Artifacts, p flash.Params) *MergeCommand {
	return &MergeCommand{
		Chip:   Chip,
		Output: a.Output,
		Flash:  p,
		Regions: []Region{
			{BootloaderAddr, a.Bootloader},
			{PartitionsAddr, a.Partitions},
			{StubAddr, a.Stub},
			{AppAddr, a.App},
		},
	}
}

// Args returns the merge tool arguments (without the tool itself).
func (c *MergeCommand) Args() []string {
	args := make([]string, 0, 11+2*len(c.Regions))
	args = append(
		args,
		"--chip", c.Chip,
		"merge_bin",
		"--output", c.Output,
		"--flash_mode", c.Flash.Mode,
		"--flash_freq", c.Flash.Freq,
		"--flash_size", c.Flash.Size,
	)
	for _, r := range c.Regions {
		args = append(args, "0x"+strconv.FormatUint(uint64(r.Addr), 16), r.Path)
	}
	return args
}
