// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"os"
	"os/exec"
)

// Run runs the program described by argv and waits for it to exit. The
// program inherits the standard input and outputs of the calling process.
// A non-zero exit status is reported as *exec.ExitError.
func Run(argv []string) error {
	if len(argv) == 0 {
		return errors.New("run: empty command")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}
	c := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	return c.Run()
}

// ExitCode returns the exit code of the process that caused err or -1 if err
// doesn't carry one.
func ExitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ProcessState.ExitCode()
	}
	return -1
}
