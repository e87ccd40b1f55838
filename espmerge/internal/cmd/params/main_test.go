// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embeddedgo/espmerge/espmerge/internal/flash"
)

func TestPrintParams_Defaults(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printParams(&out, ""))
	require.Equal(t, "--flash_mode dio --flash_freq 40m --flash_size 4MB\n", out.String())
}

func TestPrintParams_BoardFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.hcl")
	src := `
build {
  flash_mode = "qio"
  f_flash    = "80000000L"
}
upload {
  flash_size = "16MB"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	var out bytes.Buffer
	require.NoError(t, printParams(&out, path))
	require.Equal(t, "--flash_mode qio --flash_freq 80m --flash_size 16MB\n", out.String())
}

func TestPrintParams_BadFrequency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`build { f_flash = "eightyL" }`), 0o600))

	var out bytes.Buffer
	err := printParams(&out, path)
	var ce *flash.ConfigError
	require.ErrorAs(t, err, &ce)
	require.Empty(t, out.String())
}
