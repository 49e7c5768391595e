// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"errors"
	"fmt"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
)

// PackageUnsupportedError is returned when packaging is requested for a
// project type that cannot be packaged locally.
type PackageUnsupportedError struct {
	ProjectType appdetect.ProjectType
}

func (e *PackageUnsupportedError) Error() string {
	return fmt.Sprintf("projects of type %s cannot be packaged by this tool", e.ProjectType)
}

// PublishUnsupportedError is returned when publishing is requested for a
// project type that cannot be published by this tool.
type PublishUnsupportedError struct {
	ProjectType appdetect.ProjectType
}

func (e *PublishUnsupportedError) Error() string {
	return fmt.Sprintf("projects of type %s cannot be published by this tool", e.ProjectType)
}

// WindowsOnlyError is returned when a Windows-only packaging toolchain is
// invoked on another OS.
type WindowsOnlyError struct {
	ProjectType appdetect.ProjectType
}

func (e *WindowsOnlyError) Error() string {
	return "This project type can only be packaged on Windows."
}

// BuildError wraps a build toolchain's non-zero exit with its captured
// stderr, so the user sees the tool's own diagnostics verbatim.
type BuildError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *BuildError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s failed with exit code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s failed with exit code %d:\n%s", e.Tool, e.ExitCode, e.Stderr)
}

// wrapBuildError converts a command runner failure into a BuildError,
// passing through anything that is not a process exit (missing binary,
// cancellation).
func wrapBuildError(tool string, res exec.RunResult, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := exitErr.StderrOutput()
		if stderr == "" {
			stderr = res.Stderr
		}
		return &BuildError{
			Tool:     tool,
			ExitCode: exitErr.ExitCode,
			Stderr:   stderr,
		}
	}

	return fmt.Errorf("running %s: %w", tool, err)
}
