// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package exec

import (
	"io"
)

// RunArgs exposes the command, arguments and other options when running console/shell commands
type RunArgs struct {
	Cmd  string
	Args []string
	Cwd  string
	Env  []string

	// Stderr will receive a copy of the text written to Stderr by
	// the command.
	// NOTE: RunResult.Stderr will still contain stderr output.
	Stderr io.Writer

	// Stdout will receive a copy of the text written to Stdout by
	// the command.
	// NOTE: RunResult.Stdout will still contain stdout output.
	Stdout io.Writer

	// SensitiveData is a list of literal values that must never appear
	// in command logs. Matches are replaced before logging.
	SensitiveData []string

	// When non-nil, overrides the runner's debug logging setting for this call.
	DebugLogging *bool

	// When set will run the command within a shell
	UseShell bool

	// When set will attach commands to std input/output
	Interactive bool

	// When set will call the command with the specified StdIn
	StdIn io.Reader
}

// NewRunArgs creates a new instance with the specified cmd and args
func NewRunArgs(cmd string, args ...string) RunArgs {
	return RunArgs{
		Cmd:  cmd,
		Args: args,
	}
}

// AppendParams appends additional command params
func (b RunArgs) AppendParams(params ...string) RunArgs {
	b.Args = append(b.Args, params...)
	return b
}

// WithCwd updates the current working directory (cwd) for the command
func (b RunArgs) WithCwd(cwd string) RunArgs {
	b.Cwd = cwd
	return b
}

// WithEnv updates the environment variables to be used for the command
func (b RunArgs) WithEnv(env []string) RunArgs {
	b.Env = env
	return b
}

// WithInteractive updates whether or not this will be an interactive command.
// Interactive commands set stdin, stdout & stderr to the OS console/terminal.
func (b RunArgs) WithInteractive(interactive bool) RunArgs {
	b.Interactive = interactive
	return b
}

// WithShell updates whether or not this will be run in a shell
func (b RunArgs) WithShell(useShell bool) RunArgs {
	b.UseShell = useShell
	return b
}

// WithStdIn updates the stdin reader that will be used while invoking the command
func (b RunArgs) WithStdIn(stdIn io.Reader) RunArgs {
	b.StdIn = stdIn
	return b
}

// WithStdOut sets a writer that receives a copy of the command's stdout as it runs
func (b RunArgs) WithStdOut(stdout io.Writer) RunArgs {
	b.Stdout = stdout
	return b
}

// WithSensitiveData registers literal values to redact from command logs
func (b RunArgs) WithSensitiveData(values ...string) RunArgs {
	b.SensitiveData = append(b.SensitiveData, values...)
	return b
}
