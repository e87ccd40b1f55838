// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PackageDirs returns the directories that may contain PlatformIO packages in
// the order they should be searched.
func PackageDirs(getenv func(string) string) []string {
	var dirs []string
	if d := getenv("PLATFORMIO_PACKAGES_DIR"); d != "" {
		dirs = append(dirs, d)
	}
	if d := getenv("PLATFORMIO_CORE_DIR"); d != "" {
		dirs = append(dirs, filepath.Join(d, "packages"))
	}
	if d := getenv("HOME"); d != "" {
		dirs = append(dirs, filepath.Join(d, ".platformio", "packages"))
	}
	return dirs
}

// PackageDir returns the first existing directory of the named package found
// in dirs.
func PackageDir(dirs []string, name string) (string, error) {
	for _, d := range dirs {
		p := filepath.Join(d, name)
		fi, err := os.Stat(p)
		if err == nil {
			if !fi.IsDir() {
				return "", fmt.Errorf("%s is not a directory", p)
			}
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf(
		"package %s not found in [%s]: %w",
		name, strings.Join(dirs, " "), fs.ErrNotExist,
	)
}
