// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package msbuild wraps MSBuild.exe for UWP and WinUI Store packaging.
// MSBuild only exists on Windows; callers are expected to gate on
// runtime.GOOS before invoking anything here.
package msbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/tools"
)

var _ tools.ExternalTool = (*Cli)(nil)

type Cli struct {
	commandRunner exec.CommandRunner
}

func NewCli(commandRunner exec.CommandRunner) *Cli {
	return &Cli{
		commandRunner: commandRunner,
	}
}

func (cli *Cli) Name() string {
	return "MSBuild"
}

func (cli *Cli) InstallUrl() string {
	return "https://visualstudio.microsoft.com/downloads/"
}

func (cli *Cli) CheckInstalled(ctx context.Context) error {
	path, err := cli.locate(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		return &tools.ErrToolNotInstalled{ToolName: cli.Name(), InstallUrl: cli.InstallUrl()}
	}

	return nil
}

// MSBuildPathEnvVar overrides MSBuild discovery, for CI images where
// MSBuild is not on PATH and vswhere is unavailable.
const MSBuildPathEnvVar = "MSSTORE_MSBUILD_PATH"

// locate finds MSBuild.exe, preferring an explicit override, then PATH,
// then vswhere, the documented way to find Visual Studio installs.
func (cli *Cli) locate(ctx context.Context) (string, error) {
	if path := os.Getenv(MSBuildPathEnvVar); path != "" {
		return path, nil
	}

	if found, err := tools.ToolInPath("MSBuild.exe"); err != nil {
		return "", err
	} else if found {
		return "MSBuild.exe", nil
	}

	vswhere := filepath.Join(
		os.Getenv("ProgramFiles(x86)"),
		"Microsoft Visual Studio", "Installer", "vswhere.exe")
	if _, err := os.Stat(vswhere); err != nil {
		return "", nil
	}

	res, err := cli.commandRunner.Run(ctx, exec.NewRunArgs(
		vswhere,
		"-latest",
		"-requires", "Microsoft.Component.MSBuild",
		"-find", `MSBuild\**\Bin\MSBuild.exe`,
	))
	if err != nil {
		return "", fmt.Errorf("locating MSBuild with vswhere: %w", err)
	}

	path := strings.TrimSpace(res.Stdout)
	if path == "" {
		return "", nil
	}

	// vswhere may report multiple installs, one per line. Latest first.
	if idx := strings.IndexAny(path, "\r\n"); idx >= 0 {
		path = path[:idx]
	}

	return path, nil
}

// PackageOptions are the Store upload properties for an appx/msix
// packaging build.
type PackageOptions struct {
	SolutionOrProject string
	Configuration     string
	Archs             []string
	OutputDir         string
}

// Package runs a Store upload build, producing .msixupload/.appxupload
// bundles under options.OutputDir.
func (cli *Cli) Package(ctx context.Context, options PackageOptions) (exec.RunResult, error) {
	msbuild, err := cli.locate(ctx)
	if err != nil {
		return exec.RunResult{}, err
	}
	if msbuild == "" {
		return exec.RunResult{}, &tools.ErrToolNotInstalled{ToolName: cli.Name(), InstallUrl: cli.InstallUrl()}
	}

	configuration := options.Configuration
	if configuration == "" {
		configuration = "Release"
	}

	platforms := strings.Join(options.Archs, "|")
	if platforms == "" {
		platforms = "x64"
	}

	args := exec.NewRunArgs(
		msbuild,
		options.SolutionOrProject,
		"/t:Restore,Build",
		"/p:Configuration="+configuration,
		"/p:AppxBundlePlatforms="+platforms,
		"/p:AppxBundle=Always",
		"/p:UapAppxPackageBuildMode=StoreUpload",
		"/p:AppxPackageSigningEnabled=false",
	)

	if options.OutputDir != "" {
		outDir := options.OutputDir
		if !strings.HasSuffix(outDir, `\`) {
			outDir += `\`
		}
		args = args.AppendParams("/p:AppxPackageDir=" + outDir)
	}

	return cli.commandRunner.Run(ctx, args)
}
