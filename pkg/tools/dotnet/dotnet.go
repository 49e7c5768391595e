// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dotnet

import (
	"context"
	"fmt"

	"github.com/blang/semver/v4"
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
	return ".NET CLI"
}

func (cli *Cli) InstallUrl() string {
	return "https://dotnet.microsoft.com/download"
}

func (cli *Cli) versionInfo() tools.VersionInfo {
	return tools.VersionInfo{
		MinimumVersion: semver.Version{
			Major: 6,
			Minor: 0,
			Patch: 0},
		UpdateCommand: "Visit https://dotnet.microsoft.com/download to upgrade",
	}
}

func (cli *Cli) CheckInstalled(ctx context.Context) error {
	found, err := tools.ToolInPath("dotnet")
	if err != nil {
		return err
	}
	if !found {
		return &tools.ErrToolNotInstalled{ToolName: cli.Name(), InstallUrl: cli.InstallUrl()}
	}
	dotnetRes, err := tools.ExecuteCommand(ctx, cli.commandRunner, "dotnet", "--version")
	if err != nil {
		return fmt.Errorf("checking %s version: %w", cli.Name(), err)
	}
	dotnetSemver, err := tools.ExtractVersion(dotnetRes)
	if err != nil {
		return fmt.Errorf("converting to semver version fails: %w", err)
	}
	updateDetail := cli.versionInfo()
	if dotnetSemver.LT(updateDetail.MinimumVersion) {
		return &tools.ErrSemver{ToolName: cli.Name(), VersionInfo: updateDetail}
	}
	return nil
}

func (cli *Cli) Restore(ctx context.Context, project string) error {
	res, err := cli.commandRunner.Run(ctx, exec.NewRunArgs("dotnet", "restore", project))
	if err != nil {
		return fmt.Errorf("dotnet restore on project '%s' failed: %s: %w", project, res.Stderr, err)
	}
	return nil
}

// PublishMauiOptions are the Store specific publish properties for a
// .NET MAUI Windows target.
type PublishMauiOptions struct {
	ProjectFile     string
	Framework       string
	Archs           []string
	Version         string
	OutputDir       string
	PublisherName   string
	PackageIdentity string
}

// PublishMaui runs `dotnet publish` with the Windows packaging properties
// that produce a signed Store upload package.
func (cli *Cli) PublishMaui(ctx context.Context, options PublishMauiOptions) (exec.RunResult, error) {
	args := exec.NewRunArgs(
		"dotnet", "publish",
		options.ProjectFile,
		"-c", "Release",
	)

	if options.Framework != "" {
		args = args.AppendParams("-f", options.Framework)
	}

	for _, arch := range options.Archs {
		args = args.AppendParams("-p:RuntimeIdentifierOverride=win10-" + arch)
	}

	args = args.AppendParams(
		"-p:GenerateAppxPackageOnBuild=true",
		"-p:AppxPackageSigningEnabled=false",
		"-p:UapAppxPackageBuildMode=StoreUpload",
	)

	if options.Version != "" {
		args = args.AppendParams("-p:ApplicationDisplayVersion=" + options.Version)
	}

	if options.OutputDir != "" {
		args = args.AppendParams("-p:AppxPackageDir=" + ensureTrailingSeparator(options.OutputDir))
	}

	return cli.commandRunner.Run(ctx, args)
}

// MSBuild property values ending in a bare backslash-less directory are
// interpreted as files; Appx output dirs must end with a separator.
func ensureTrailingSeparator(dir string) string {
	if len(dir) == 0 {
		return dir
	}

	last := dir[len(dir)-1]
	if last == '\\' || last == '/' {
		return dir
	}

	return dir + string('\\')
}
