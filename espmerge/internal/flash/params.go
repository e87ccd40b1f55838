// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flash derives the flash parameters passed to the merge tool from
// the build configuration.
package flash

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/embeddedgo/espmerge/espmerge/internal/board"
)

const (
	DefaultSize = "4MB"
	DefaultMode = "dio"
	DefaultFreq = "40000000L"
)

// Params are the flash parameters in the form accepted by the merge tool.
type Params struct {
	Size string // 4MB
	Mode string // dio
	Freq string // 40m
}

// ConfigError reports a build configuration value that cannot be used.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bad %s value %q: %v", e.Key, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Resolve returns the flash parameters described by cfg. Absent values are
// replaced by the defaults.
func Resolve(cfg *board.Config) (Params, error) {
	p := Params{Size: cfg.FlashSize, Mode: cfg.FlashMode}
	if p.Size == "" {
		p.Size = DefaultSize
	}
	if p.Mode == "" {
		p.Mode = DefaultMode
	}
	raw := cfg.FlashFreq
	if raw == "" {
		raw = DefaultFreq
	}
	freq, err := ParseFreq(raw)
	if err != nil {
		return Params{}, err
	}
	p.Freq = freq
	return p, nil
}

// ParseFreq converts the frequency in Hz, optionally followed by a marker
// letter (40000000L), to the MHz form used by the merge tool (40m). The
// fractional part of MHz is truncated.
func ParseFreq(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return r < unicode.MaxASCII && unicode.IsLetter(r)
	})
	hz, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return "", &ConfigError{"build.f_flash", raw, err}
	}
	if hz < 0 {
		return "", &ConfigError{"build.f_flash", raw, fmt.Errorf("negative frequency")}
	}
	return strconv.FormatInt(hz/1_000_000, 10) + "m", nil
}
