// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package exec

import (
	"os/exec"
)

// CmdTreeOptions are settings that modify the way a CmdTree is executed.
type CmdTreeOptions struct {
	Interactive bool
}

// CmdTree represents an `exec.Cmd` run as the root of a process tree.
// Kill terminates the whole tree, so a cancelled flutter or msbuild
// invocation does not leave grandchild processes behind.
type CmdTree struct {
	CmdTreeOptions
	*exec.Cmd
}

func (o *CmdTree) Start() error {
	o.configure()
	return o.Cmd.Start()
}
