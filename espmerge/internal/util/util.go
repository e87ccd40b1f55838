// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"io"
	"os"
	"strings"
)

func Warn(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
}

func Fatal(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

// FatalError prints an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error() + "\n"
	if what != "" {
		s = what + ": " + s
	}
	os.Stderr.WriteString(s)
	os.Exit(1)
}

// OutFile infers the name of the output file from the name of the input file
// if the outName is an empty string.
func OutFile(inName, inSuffix, outName, outSuffix string) string {
	if outName == "" {
		outName = strings.TrimSuffix(inName, inSuffix) + outSuffix
	}
	return outName
}

const bannerRule = "============================================="

// Banner writes the lines to w framed by two horizontal rules and preceded by
// an empty line.
func Banner(w io.Writer, lines ...string) {
	buf := make([]byte, 0, 80*(len(lines)+3))
	buf = append(buf, '\n')
	buf = append(buf, bannerRule...)
	buf = append(buf, '\n')
	for _, l := range lines {
		buf = append(buf, "  "...)
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	buf = append(buf, bannerRule...)
	buf = append(buf, '\n')
	w.Write(buf)
}
