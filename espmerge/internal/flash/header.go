// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flash

import "fmt"

// ESP32 image header encoding of the flash parameters.
var (
	modeCodes = map[string]byte{
		"qio":  0,
		"qout": 1,
		"dio":  2,
		"dout": 3,
	}
	freqCodes = map[string]byte{
		"40m": 0x0,
		"26m": 0x1,
		"20m": 0x2,
		"80m": 0xf,
	}
	sizeCodes = map[string]byte{
		"1MB":   0x0,
		"2MB":   0x1,
		"4MB":   0x2,
		"8MB":   0x3,
		"16MB":  0x4,
		"32MB":  0x5,
		"64MB":  0x6,
		"128MB": 0x7,
	}
)

// HeaderBytes returns the bytes 2 and 3 of the ESP32 image header that
// describe p: the flash mode and the flash size (high nibble) combined with
// the flash frequency (low nibble).
func HeaderBytes(p Params) (mode, sizeFreq byte, err error) {
	mode, ok := modeCodes[p.Mode]
	if !ok {
		return 0, 0, fmt.Errorf("unknown flash mode %q", p.Mode)
	}
	freq, ok := freqCodes[p.Freq]
	if !ok {
		return 0, 0, fmt.Errorf("unknown flash frequency %q", p.Freq)
	}
	size, ok := sizeCodes[p.Size]
	if !ok {
		return 0, 0, fmt.Errorf("unknown flash size %q", p.Size)
	}
	return mode, size<<4 | freq, nil
}
