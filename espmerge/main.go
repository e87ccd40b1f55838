// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Espmerge is the post-build step of the ESP32 Arduino build. It merges the
// bootloader, the partition table, the boot_app0 stub and the application
// into one image that can be written to the flash at address 0.
//
// Typically it is attached as a post action to the application binary:
//
//	espmerge merge -board board.hcl -build-dir $BUILD_DIR -prog $PROGNAME
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/embeddedgo/espmerge/espmerge/internal/cmd/hex"
	"github.com/embeddedgo/espmerge/espmerge/internal/cmd/merge"
	"github.com/embeddedgo/espmerge/espmerge/internal/cmd/params"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"hex":    {hex.Descr, hex.Main},
	"merge":  {merge.Descr, merge.Main},
	"params": {params.Descr, params.Main},
}

func printToolList() {
	names := make([]string, 0, len(tools))
	for k := range tools {
		names = append(names, k)
	}
	slices.Sort(names)
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  espmerge COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
