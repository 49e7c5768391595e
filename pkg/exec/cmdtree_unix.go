// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

//go:build !windows

package exec

import (
	"log"
	"syscall"
)

func (o *CmdTree) configure() {
	o.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func (o *CmdTree) Kill() {
	if o.Process == nil {
		return
	}

	// Negative pid signals the whole process group.
	err := syscall.Kill(-o.Process.Pid, syscall.SIGKILL)
	if err != nil {
		log.Printf("failed to kill process group %d: %v", o.Process.Pid, err)
	}
}
