// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/embeddedgo/espmerge/espmerge/internal/board"
	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
)

// Location of the boot_app0 stub inside the framework package.
var stubPath = []string{"tools", "partitions", "boot_app0.bin"}

// Artifacts are the paths of the merged image inputs and output.
type Artifacts struct {
	Bootloader string
	Partitions string
	Stub       string // boot_app0.bin
	App        string
	Output     string
}

// PathResolutionError reports a directory that cannot be located.
type PathResolutionError struct {
	What string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s: %v", e.What, e.Err)
}

func (e *PathResolutionError) Unwrap() error { return e.Err }

// ResolveArtifacts computes the artifact paths for cfg. The framework
// directory is taken from cfg.FrameworkDir or, if empty, obtained from
// packageDir.
func ResolveArtifacts(cfg *board.Config, p flash.Params, packageDir func(name string) (string, error)) (*Artifacts, error) {
	dir, err := filepath.Abs(cfg.BuildDir)
	if err != nil {
		return nil, &PathResolutionError{"build directory", err}
	}
	fwDir := cfg.FrameworkDir
	if fwDir == "" {
		pkg := cfg.FrameworkPackage
		if pkg == "" {
			pkg = board.DefaultFrameworkPackage
		}
		if packageDir == nil {
			return nil, &PathResolutionError{pkg, fmt.Errorf("no package directory resolver")}
		}
		if fwDir, err = packageDir(pkg); err != nil {
			return nil, &PathResolutionError{pkg, err}
		}
	}
	return &Artifacts{
		Bootloader: BootloaderPath(dir, p),
		Partitions: filepath.Join(dir, "partitions.bin"),
		Stub:       filepath.Join(append([]string{fwDir}, stubPath...)...),
		App:        filepath.Join(dir, cfg.ProgName+".bin"),
		Output:     filepath.Join(dir, cfg.ProgName+"_merged.bin"),
	}, nil
}

// BootloaderPath returns the bootloader built for the flash mode and
// frequency of p if it exists in dir. Otherwise it returns the path of the
// generic bootloader.bin without checking whether it exists.
func BootloaderPath(dir string, p flash.Params) string {
	name := filepath.Join(dir, "bootloader_"+p.Mode+"_"+p.Freq+".bin")
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(dir, "bootloader.bin")
}
