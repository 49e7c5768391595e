// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

//go:build windows

package exec

import (
	"log"
	"os/exec"
	"strconv"
)

func (o *CmdTree) configure() {
}

func (o *CmdTree) Kill() {
	if o.Process == nil {
		return
	}

	// taskkill /T takes the entire tree down, which plain Process.Kill does not.
	killCmd := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(o.Process.Pid))
	if err := killCmd.Run(); err != nil {
		log.Printf("failed to kill process tree %d: %v", o.Process.Pid, err)
		_ = o.Process.Kill()
	}
}
