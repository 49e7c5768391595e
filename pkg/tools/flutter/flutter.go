// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package flutter

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
	return "Flutter SDK"
}

func (cli *Cli) InstallUrl() string {
	return "https://docs.flutter.dev/get-started/install"
}

func (cli *Cli) versionInfo() tools.VersionInfo {
	return tools.VersionInfo{
		MinimumVersion: semver.Version{
			Major: 3,
			Minor: 0,
			Patch: 0},
		UpdateCommand: "Run `flutter upgrade` to update your",
	}
}

func (cli *Cli) CheckInstalled(ctx context.Context) error {
	found, err := tools.ToolInPath("flutter")
	if err != nil {
		return err
	}
	if !found {
		return &tools.ErrToolNotInstalled{ToolName: cli.Name(), InstallUrl: cli.InstallUrl()}
	}

	flutterRes, err := tools.ExecuteCommand(ctx, cli.commandRunner, "flutter", "--version")
	if err != nil {
		return fmt.Errorf("checking %s version: %w", cli.Name(), err)
	}
	flutterSemver, err := tools.ExtractVersion(flutterRes)
	if err != nil {
		return fmt.Errorf("converting to semver version fails: %w", err)
	}
	updateDetail := cli.versionInfo()
	if flutterSemver.LT(updateDetail.MinimumVersion) {
		return &tools.ErrSemver{ToolName: cli.Name(), VersionInfo: updateDetail}
	}

	return nil
}

// PubGet resolves the project's dependencies.
func (cli *Cli) PubGet(ctx context.Context, projectDir string) error {
	_, err := cli.commandRunner.Run(ctx, exec.NewRunArgs("flutter", "pub", "get").WithCwd(projectDir))
	if err != nil {
		return fmt.Errorf("flutter pub get failed in %s: %w", projectDir, err)
	}
	return nil
}

// PubAddDevDependency adds a package as a dev_dependency in pubspec.yaml.
func (cli *Cli) PubAddDevDependency(ctx context.Context, projectDir string, pkg string) error {
	_, err := cli.commandRunner.Run(ctx, exec.NewRunArgs("flutter", "pub", "add", "--dev", pkg).WithCwd(projectDir))
	if err != nil {
		return fmt.Errorf("flutter pub add --dev %s failed in %s: %w", pkg, projectDir, err)
	}
	return nil
}

// CreateMsixOptions control the `dart run msix:build`/`msix:pack` invocation.
type CreateMsixOptions struct {
	ProjectDir string
	OutputPath string
	Store      bool
	Verbose    bool
}

// BuildMsix runs the msix pub package's build step, compiling the Windows
// release build that msix:pack will wrap.
func (cli *Cli) BuildMsix(ctx context.Context, options CreateMsixOptions) (exec.RunResult, error) {
	return cli.commandRunner.Run(ctx, cli.msixArgs("msix:build", options))
}

// PackMsix runs the msix pub package's pack step, producing the .msix file.
func (cli *Cli) PackMsix(ctx context.Context, options CreateMsixOptions) (exec.RunResult, error) {
	return cli.commandRunner.Run(ctx, cli.msixArgs("msix:pack", options))
}

func (cli *Cli) msixArgs(target string, options CreateMsixOptions) exec.RunArgs {
	args := exec.NewRunArgs("dart", "run", target)

	if options.Store {
		args = args.AppendParams("--store")
	}

	if options.OutputPath != "" {
		args = args.AppendParams("--output-path", options.OutputPath)
	}

	if options.Verbose {
		args = args.AppendParams("-v")
	}

	return args.WithCwd(options.ProjectDir)
}
