// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package board provides the build configuration of the merge step. The
// configuration is read from an optional HCL board file and from the values
// handed over by the build system (build directory, program name and the
// process environment).
package board

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/juju/errors"
	"github.com/zclconf/go-cty/cty"
)

const (
	DefaultChip             = "esp32"
	DefaultFrameworkPackage = "framework-arduinoespressif32"
)

// Config is the build configuration. An empty string field means the value
// was not provided.
type Config struct {
	FlashSize string // upload.flash_size
	FlashMode string // build.flash_mode
	FlashFreq string // build.f_flash in Hz, optionally suffixed, e.g. 40000000L
	Chip      string // build.mcu

	BuildDir string
	ProgName string

	FrameworkPackage string
	FrameworkDir     string   // overrides the package lookup
	Tool             []string // merge tool command line prefix
}

// Vars holds the values substituted into board files and command line
// arguments.
type Vars struct {
	BuildDir string
	ProgName string
	Env      map[string]string
}

// EnvVars returns Vars with Env populated from the process environment.
func EnvVars(buildDir, progName string) *Vars {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return &Vars{BuildDir: buildDir, ProgName: progName, Env: env}
}

// Subst expands the $BUILD_DIR and $PROGNAME tokens and the environment
// variables in s. Unknown variables expand to empty strings.
func (v *Vars) Subst(s string) string {
	return os.Expand(s, func(name string) string {
		switch name {
		case "BUILD_DIR":
			return v.BuildDir
		case "PROGNAME":
			return v.ProgName
		}
		return v.Env[name]
	})
}

func (v *Vars) evalContext() *hcl.EvalContext {
	env := cty.MapValEmpty(cty.String)
	if len(v.Env) != 0 {
		m := make(map[string]cty.Value, len(v.Env))
		for k, s := range v.Env {
			m[k] = cty.StringVal(s)
		}
		env = cty.MapVal(m)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"build_dir": cty.StringVal(v.BuildDir),
			"prog_name": cty.StringVal(v.ProgName),
			"env":       env,
		},
	}
}

type hclBoardFile struct {
	Build     *hclBuild     `hcl:"build,block"`
	Upload    *hclUpload    `hcl:"upload,block"`
	Framework *hclFramework `hcl:"framework,block"`
	Merge     *hclMerge     `hcl:"merge,block"`
}

type hclBuild struct {
	MCU       string `hcl:"mcu,optional"`
	FlashMode string `hcl:"flash_mode,optional"`
	FFlash    string `hcl:"f_flash,optional"`
}

type hclUpload struct {
	FlashSize string `hcl:"flash_size,optional"`
}

type hclFramework struct {
	Package string `hcl:"package,optional"`
	Dir     string `hcl:"dir,optional"`
}

type hclMerge struct {
	Tool []string `hcl:"tool,optional"`
}

// New returns the configuration used when there is no board file.
func New(vars *Vars) *Config {
	return &Config{
		Chip:             DefaultChip,
		BuildDir:         vars.BuildDir,
		ProgName:         vars.ProgName,
		FrameworkPackage: DefaultFrameworkPackage,
	}
}

// Load reads the board file at path.
func Load(path string, vars *Vars) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return Parse(src, path, vars)
}

// Parse decodes the board file content. The filename is used in diagnostics
// only.
func Parse(src []byte, filename string, vars *Vars) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Annotatef(diags, "parse board file %s", filename)
	}
	var bf hclBoardFile
	diags = gohcl.DecodeBody(f.Body, vars.evalContext(), &bf)
	if diags.HasErrors() {
		return nil, errors.Annotatef(diags, "decode board file %s", filename)
	}
	cfg := New(vars)
	if b := bf.Build; b != nil {
		if b.MCU != "" {
			cfg.Chip = b.MCU
		}
		cfg.FlashMode = b.FlashMode
		cfg.FlashFreq = b.FFlash
	}
	if u := bf.Upload; u != nil {
		cfg.FlashSize = u.FlashSize
	}
	if fw := bf.Framework; fw != nil {
		if fw.Package != "" {
			cfg.FrameworkPackage = fw.Package
		}
		cfg.FrameworkDir = fw.Dir
	}
	if m := bf.Merge; m != nil {
		cfg.Tool = m.Tool
	}
	return cfg, nil
}
