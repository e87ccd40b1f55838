// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hexfile writes flash images in the Intel HEX format.
package hexfile

import (
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/marcinbor85/gohex"
)

// LineLen is the number of data bytes in a single HEX record.
const LineLen = 16

// Write writes data placed at the base address to w.
func Write(w io.Writer, base uint32, data []byte) error {
	if uint64(base)+uint64(len(data)) > 1<<32 {
		return errors.Errorf("image at %#x (%d bytes) exceeds 32-bit address space", base, len(data))
	}
	mem := gohex.NewMemory()
	if err := mem.AddBinary(base, data); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(mem.DumpIntelHex(w, LineLen))
}

// Convert reads the binary image from binName and writes it to hexName.
func Convert(binName, hexName string, base uint32) error {
	data, err := os.ReadFile(binName)
	if err != nil {
		return errors.Trace(err)
	}
	f, err := os.Create(hexName)
	if err != nil {
		return errors.Trace(err)
	}
	if err = Write(f, base, data); err != nil {
		f.Close()
		return errors.Annotatef(err, "write %s", hexName)
	}
	return errors.Trace(f.Close())
}
