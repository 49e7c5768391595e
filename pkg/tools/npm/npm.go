// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package npm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/blang/semver/v4"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/tools"
)

var _ tools.ExternalTool = (*Cli)(nil)

type PackageManagerKind string

const (
	PackageManagerNpm  PackageManagerKind = "npm"
	PackageManagerYarn PackageManagerKind = "yarn"
)

// DetectPackageManager picks the package manager for a project directory.
// A yarn.lock marks the project as yarn managed, anything else defaults to npm.
func DetectPackageManager(projectDir string) PackageManagerKind {
	if _, err := os.Stat(filepath.Join(projectDir, "yarn.lock")); err == nil {
		return PackageManagerYarn
	}

	return PackageManagerNpm
}

type Cli struct {
	commandRunner  exec.CommandRunner
	packageManager PackageManagerKind
	cache          *DependencyCache
}

func NewCli(commandRunner exec.CommandRunner, cache *DependencyCache) *Cli {
	return NewCliWithPackageManager(commandRunner, PackageManagerNpm, cache)
}

// NewCliWithPackageManager creates a Cli that uses the specified package manager.
func NewCliWithPackageManager(
	commandRunner exec.CommandRunner,
	pm PackageManagerKind,
	cache *DependencyCache,
) *Cli {
	if cache == nil {
		cache = NewDependencyCache()
	}

	return &Cli{
		commandRunner:  commandRunner,
		packageManager: pm,
		cache:          cache,
	}
}

// PackageManager returns the package manager kind used by this CLI instance.
func (cli *Cli) PackageManager() PackageManagerKind {
	return cli.packageManager
}

func (cli *Cli) versionInfoNode() tools.VersionInfo {
	return tools.VersionInfo{
		MinimumVersion: semver.Version{
			Major: 18,
			Minor: 0,
			Patch: 0},
		UpdateCommand: "Visit https://nodejs.org/en/ to upgrade",
	}
}

func (cli *Cli) CheckInstalled(ctx context.Context) error {
	found, err := tools.ToolInPath(string(cli.packageManager))
	if err != nil {
		return err
	}
	if !found {
		return &tools.ErrToolNotInstalled{ToolName: cli.Name(), InstallUrl: cli.InstallUrl()}
	}

	// Check node version (required for all Node.js package managers)
	nodeRes, err := tools.ExecuteCommand(ctx, cli.commandRunner, "node", "--version")
	if err != nil {
		return fmt.Errorf("checking %s version: %w", cli.Name(), err)
	}
	nodeSemver, err := tools.ExtractVersion(nodeRes)
	if err != nil {
		return fmt.Errorf("converting to semver version fails: %w", err)
	}
	updateDetailNode := cli.versionInfoNode()
	if nodeSemver.Compare(updateDetailNode.MinimumVersion) == -1 {
		return &tools.ErrSemver{ToolName: "Node.js", VersionInfo: updateDetailNode}
	}

	return nil
}

func (cli *Cli) InstallUrl() string {
	if cli.packageManager == PackageManagerYarn {
		return "https://yarnpkg.com/getting-started/install"
	}

	return "https://nodejs.org/"
}

func (cli *Cli) Name() string {
	if cli.packageManager == PackageManagerYarn {
		return "yarn CLI"
	}

	return "npm CLI"
}

// Install runs a full dependency install for the project. The install
// runs interactively: progress and any package manager prompts go
// straight to the user's terminal.
func (cli *Cli) Install(ctx context.Context, projectDir string) error {
	pm := string(cli.packageManager)

	var runArgs exec.RunArgs
	if cli.packageManager == PackageManagerYarn {
		runArgs = exec.NewRunArgs(pm, "install").WithCwd(projectDir)
	} else {
		runArgs = exec.NewRunArgs(pm, "install", "--no-audit", "--no-fund").WithCwd(projectDir)
	}
	runArgs = runArgs.WithInteractive(true)

	if _, err := cli.commandRunner.Run(ctx, runArgs); err != nil {
		return fmt.Errorf("failed to install project %s using %s: %w", projectDir, pm, err)
	}

	return nil
}

// InstallDevDependency adds a single package as a development dependency.
func (cli *Cli) InstallDevDependency(ctx context.Context, projectDir string, pkg string) error {
	pm := string(cli.packageManager)

	var runArgs exec.RunArgs
	if cli.packageManager == PackageManagerYarn {
		runArgs = exec.NewRunArgs(pm, "add", "--dev", pkg).WithCwd(projectDir)
	} else {
		runArgs = exec.NewRunArgs(pm, "install", "--save-dev", pkg).WithCwd(projectDir)
	}

	if _, err := cli.commandRunner.Run(ctx, runArgs); err != nil {
		return fmt.Errorf("failed to add dev dependency %s using %s: %w", pkg, pm, err)
	}

	cli.cache.Put(projectDir, pkg, true)
	return nil
}

// HasDependency reports whether pkg is resolvable in the project's dependency
// tree. It shells out to `npm list <pkg>` (or `yarn why <pkg>`), which is slow,
// so results are cached per (directory, package) for the process lifetime.
func (cli *Cli) HasDependency(ctx context.Context, projectDir string, pkg string) (bool, error) {
	if has, ok := cli.cache.Get(projectDir, pkg); ok {
		return has, nil
	}

	pm := string(cli.packageManager)

	var runArgs exec.RunArgs
	if cli.packageManager == PackageManagerYarn {
		runArgs = exec.NewRunArgs(pm, "why", pkg).WithCwd(projectDir)
	} else {
		runArgs = exec.NewRunArgs(pm, "list", pkg, "--depth=0").WithCwd(projectDir)
	}

	res, err := cli.commandRunner.Run(ctx, runArgs)
	if err != nil {
		var exitErr *exec.ExitError
		// A non-zero exit just means the package is not present.
		if errors.As(err, &exitErr) {
			cli.cache.Put(projectDir, pkg, false)
			return false, nil
		}

		return false, fmt.Errorf("probing dependency %s with %s: %w", pkg, pm, err)
	}

	has := res.ExitCode == 0
	cli.cache.Put(projectDir, pkg, has)
	return has, nil
}

// RunTool runs a locally installed package binary: `yarn run <tool> ...` for
// yarn projects, `npx --no-install <tool> ...` for npm projects. Tool output
// is still captured in the result; a live copy streams to the log so long
// builds show progress under --verbose.
func (cli *Cli) RunTool(ctx context.Context, projectDir string, tool string, args ...string) (exec.RunResult, error) {
	var runArgs exec.RunArgs
	if cli.packageManager == PackageManagerYarn {
		runArgs = exec.NewRunArgs("yarn", append([]string{"run", tool}, args...)...).WithCwd(projectDir)
	} else {
		runArgs = exec.NewRunArgs("npx", append([]string{"--no-install", tool}, args...)...).WithCwd(projectDir)
	}

	return cli.commandRunner.Run(ctx, runArgs.WithStdOut(log.Writer()))
}
