// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embeddedgo/espmerge/espmerge/internal/board"
	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestAssemble_EndToEnd(t *testing.T) {
	// --- Arrange ---
	cfg := &board.Config{
		FlashSize: "4MB",
		FlashMode: "dio",
		FlashFreq: "40000000L",
		Chip:      "esp32",
		BuildDir:  "/out",
		ProgName:  "firmware",
	}
	p, err := flash.Resolve(cfg)
	require.NoError(t, err)

	var argv []string
	out := &bytes.Buffer{}
	a := &Assembler{
		PackageDir: func(name string) (string, error) { return "/pkgs/" + name, nil },
		Merger: &ToolMerger{
			Tool: []string{"esptool.py"},
			Exec: func(args []string) error {
				argv = args
				return nil
			},
		},
		Out: out,
		Log: quiet,
	}

	// --- Act ---
	err = a.Assemble(cfg, p)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{
		"esptool.py",
		"--chip", "esp32",
		"merge_bin",
		"--output", "/out/firmware_merged.bin",
		"--flash_mode", "dio",
		"--flash_freq", "40m",
		"--flash_size", "4MB",
		"0x1000", "/out/bootloader.bin",
		"0x8000", "/out/partitions.bin",
		"0xe000", "/pkgs/framework-arduinoespressif32/tools/partitions/boot_app0.bin",
		"0x10000", "/out/firmware.bin",
	}, argv)
	require.Contains(t, out.String(), "Output: /out/firmware_merged.bin")
}

func TestAssemble_SpecificBootloader(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bootloader.bin", "bootloader_dio_40m.bin", "partitions.bin", "fw.bin")
	cfg := &board.Config{BuildDir: dir, ProgName: "fw", FrameworkDir: "/fw"}

	var c *MergeCommand
	a := &Assembler{
		Merger: mergerFunc(func(mc *MergeCommand) error { c = mc; return nil }),
		Out:    io.Discard,
		Log:    quiet,
	}
	require.NoError(t, a.Assemble(cfg, dio40))
	require.Equal(t, filepath.Join(dir, "bootloader_dio_40m.bin"), c.Regions[0].Path)
}

func TestAssemble_BannerBeforeMerge(t *testing.T) {
	out := &bytes.Buffer{}
	a := &Assembler{
		Merger: mergerFunc(func(*MergeCommand) error {
			require.Contains(t, out.String(), "Merging firmware into single flashable .bin")
			return nil
		}),
		Out: out,
		Log: quiet,
	}
	cfg := &board.Config{BuildDir: "/out", ProgName: "firmware", FrameworkDir: "/fw"}
	require.NoError(t, a.Assemble(cfg, dio40))
}

func TestAssemble_PathResolutionError(t *testing.T) {
	called := false
	a := &Assembler{
		PackageDir: func(string) (string, error) { return "", os.ErrNotExist },
		Merger:     mergerFunc(func(*MergeCommand) error { called = true; return nil }),
		Out:        io.Discard,
		Log:        quiet,
	}
	err := a.Assemble(&board.Config{BuildDir: "/out", ProgName: "firmware"}, dio40)

	var pe *PathResolutionError
	require.ErrorAs(t, err, &pe)
	require.False(t, called, "merger must not run")
}

func TestAssemble_MergeFailure(t *testing.T) {
	boom := errors.New("boom")
	a := &Assembler{
		Merger: mergerFunc(func(*MergeCommand) error { return boom }),
		Out:    io.Discard,
		Log:    quiet,
	}
	err := a.Assemble(&board.Config{BuildDir: "/out", ProgName: "firmware", FrameworkDir: "/fw"}, dio40)

	var me *MergeExecutionError
	require.ErrorAs(t, err, &me)
	require.ErrorIs(t, err, boom)
	require.Equal(t, -1, me.ExitCode)
	require.Equal(t, "/out/firmware_merged.bin", me.Output)
}

func TestAssemble_ToolExitStatus(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh in PATH")
	}
	a := &Assembler{
		Merger: &ToolMerger{Tool: []string{"sh", "-c", "exit 3", "esptool"}},
		Out:    io.Discard,
		Log:    quiet,
	}
	err := a.Assemble(&board.Config{BuildDir: t.TempDir(), ProgName: "firmware", FrameworkDir: "/fw"}, dio40)

	var me *MergeExecutionError
	require.ErrorAs(t, err, &me)
	require.Equal(t, 3, me.ExitCode)
	require.Contains(t, err.Error(), "exit status 3")
}

func TestAssemble_ToolNotFound(t *testing.T) {
	a := &Assembler{
		Merger: &ToolMerger{Tool: []string{"espmerge-test-no-such-tool"}},
		Out:    io.Discard,
		Log:    quiet,
	}
	err := a.Assemble(&board.Config{BuildDir: t.TempDir(), ProgName: "firmware", FrameworkDir: "/fw"}, dio40)

	var me *MergeExecutionError
	require.ErrorAs(t, err, &me)
	require.Equal(t, -1, me.ExitCode)
	require.ErrorIs(t, err, exec.ErrNotFound)
}

func TestAssemble_Hex(t *testing.T) {
	dir := t.TempDir()
	a := &Assembler{
		Merger: mergerFunc(func(c *MergeCommand) error {
			return os.WriteFile(c.Output, []byte{0xe9, 0, 2, 0x20}, 0o600)
		}),
		Out: io.Discard,
		Log: quiet,
		Hex: true,
	}
	err := a.Assemble(&board.Config{BuildDir: dir, ProgName: "firmware", FrameworkDir: "/fw"}, dio40)
	require.NoError(t, err)

	hex, err := os.ReadFile(filepath.Join(dir, "firmware_merged.hex"))
	require.NoError(t, err)
	require.Contains(t, string(hex), ":00000001FF")
}

type mergerFunc func(c *MergeCommand) error

func (f mergerFunc) Merge(c *MergeCommand) error { return f(c) }
