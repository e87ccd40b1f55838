// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
)

func TestNewMergeCommand_Layout(t *testing.T) {
	a := &Artifacts{
		Bootloader: "/b/bootloader.bin",
		Partitions: "/b/partitions.bin",
		Stub:       "/fw/boot_app0.bin",
		App:        "/b/app.bin",
		Output:     "/b/app_merged.bin",
	}
	for _, p := range []flash.Params{
		{Size: "4MB", Mode: "dio", Freq: "40m"},
		{Size: "16MB", Mode: "qio", Freq: "80m"},
		{Size: "", Mode: "", Freq: ""},
	} {
		c := NewMergeCommand(a, p)
		require.Equal(t, []Region{
			{0x1000, a.Bootloader},
			{0x8000, a.Partitions},
			{0xe000, a.Stub},
			{0x10000, a.App},
		}, c.Regions)
		for i := 1; i < len(c.Regions); i++ {
			require.Less(t, c.Regions[i-1].Addr, c.Regions[i].Addr)
		}
	}
}

func TestMergeCommand_Args(t *testing.T) {
	a := &Artifacts{
		Bootloader: "/out/bootloader_dio_40m.bin",
		Partitions: "/out/partitions.bin",
		Stub:       "/fw/tools/partitions/boot_app0.bin",
		App:        "/out/firmware.bin",
		Output:     "/out/firmware_merged.bin",
	}
	c := NewMergeCommand(a, flash.Params{Size: "4MB", Mode: "dio", Freq: "40m"})

	require.Equal(t, []string{
		"--chip", "esp32",
		"merge_bin",
		"--output", "/out/firmware_merged.bin",
		"--flash_mode", "dio",
		"--flash_freq", "40m",
		"--flash_size", "4MB",
		"0x1000", "/out/bootloader_dio_40m.bin",
		"0x8000", "/out/partitions.bin",
		"0xe000", "/fw/tools/partitions/boot_app0.bin",
		"0x10000", "/out/firmware.bin",
	}, c.Args())
}

func TestToolMerger_Argv(t *testing.T) {
	c := &MergeCommand{Chip: Chip, Output: "o.bin", Flash: flash.Params{Size: "4MB", Mode: "dio", Freq: "40m"}}

	argv := (&ToolMerger{}).Argv(c)
	require.Equal(t, "esptool.py", argv[0])
	require.Equal(t, "--chip", argv[1])

	m := &ToolMerger{Tool: []string{"python3", "-m", "esptool"}}
	argv = m.Argv(c)
	require.Equal(t, []string{"python3", "-m", "esptool", "--chip", "esp32"}, argv[:5])
	require.Equal(t, []string{"python3", "-m", "esptool"}, m.Tool)
}
