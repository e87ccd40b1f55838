// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package image

import (
	"bytes"
	"crypto/sha256"
	"log/slog"
	"os"

	"github.com/juju/errors"

	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
	"github.com/embeddedgo/espmerge/espmerge/internal/util"
)

// Merger produces the merged image described by a MergeCommand.
type Merger interface {
	Merge(c *MergeCommand) error
}

// DefaultTool is the merge tool command used if none is configured.
var DefaultTool = []string{"esptool.py"}

// ToolMerger runs the external merge tool.
type ToolMerger struct {
	Tool []string // command line prefix, DefaultTool if empty

	// Exec runs the command line and waits for it to exit. If nil util.Run
	// is used.
	Exec func(argv []string) error
}

// Argv returns the full command line for c.
func (m *ToolMerger) Argv(c *MergeCommand) []string {
	tool := m.Tool
	if len(tool) == 0 {
		tool = DefaultTool
	}
	return append(append([]string(nil), tool...), c.Args()...)
}

func (m *ToolMerger) Merge(c *MergeCommand) error {
	run := m.Exec
	if run == nil {
		run = util.Run
	}
	return run(m.Argv(c))
}

// ESP image header fields.
const (
	espMagic        = 0xe9
	espHeaderLen    = 24
	espHashAppended = 23
)

// NativeMerger builds the merged image without the external tool. The image
// starts at address 0 and the gaps between regions are filled with Pad.
type NativeMerger struct {
	Pad byte // usually 0xff
	Log *slog.Logger
}

func (m *NativeMerger) log() *slog.Logger {
	if m.Log != nil {
		return m.Log
	}
	return slog.Default()
}

func (m *NativeMerger) Merge(c *MergeCommand) error {
	ss := make(util.Sections, 0, len(c.Regions)+1)
	for _, r := range c.Regions {
		s, err := util.ReadBin(r.Path, uint64(r.Addr))
		if err != nil {
			return errors.Trace(err)
		}
		if r.Addr == BootloaderAddr {
			m.patchHeader(s, c.Flash)
		}
		ss = append(ss, s)
	}
	ss.SortByPaddr()
	if len(ss) != 0 && ss[0].Paddr != 0 {
		ss = append(util.Sections{{Paddr: 0}}, ss...)
	}
	f, err := os.Create(c.Output)
	if err != nil {
		return errors.Trace(err)
	}
	n, err := ss.Flatten(f, m.Pad)
	if err != nil {
		f.Close()
		return errors.Annotatef(err, "merge %s", c.Output)
	}
	if err = f.Close(); err != nil {
		return errors.Trace(err)
	}
	m.log().Debug("merged image written", "output", c.Output, "size", n)
	return nil
}

// patchHeader updates the flash parameters in the bootloader image header
// the way merge_bin does. An appended SHA-256 digest is recalculated if it is
// valid and located at the end of the file, otherwise the header is left
// unchanged.
func (m *NativeMerger) patchHeader(s *util.Section, p flash.Params) {
	d := s.Data
	if len(d) < espHeaderLen || d[0] != espMagic {
		m.log().Warn("not an ESP image, flash parameters not updated", "file", s.Name)
		return
	}
	mode, sizeFreq, err := flash.HeaderBytes(p)
	if err != nil {
		m.log().Warn("flash parameters not updated", "file", s.Name, "err", err)
		return
	}
	if d[2] == mode && d[3] == sizeFreq {
		return
	}
	hashed := d[espHashAppended] == 1
	if hashed {
		if len(d) < espHeaderLen+sha256.Size {
			m.log().Warn("truncated SHA-256 digest, flash parameters not updated", "file", s.Name)
			return
		}
		body, digest := d[:len(d)-sha256.Size], d[len(d)-sha256.Size:]
		sum := sha256.Sum256(body)
		if !bytes.Equal(sum[:], digest) {
			m.log().Warn("SHA-256 digest mismatch, flash parameters not updated", "file", s.Name)
			return
		}
	}
	d[2], d[3] = mode, sizeFreq
	if hashed {
		sum := sha256.Sum256(d[:len(d)-sha256.Size])
		copy(d[len(d)-sha256.Size:], sum[:])
	}
	m.log().Debug(
		"bootloader header updated", "file", s.Name,
		"flash_mode", p.Mode, "flash_freq", p.Freq, "flash_size", p.Size,
	)
}
