// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"context"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/artifact"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/manifest"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/npm"
)

const electronBuilderPackage = "electron-builder"

// electronConfigurator handles Electron projects: identity lands in the
// package.json build.appx block, packaging goes through electron-builder's
// AppX target.
type electronConfigurator struct {
	commandRunner exec.CommandRunner
	cache         *npm.DependencyCache
}

func NewElectronConfigurator(commandRunner exec.CommandRunner, cache *npm.DependencyCache) Configurator {
	return &electronConfigurator{
		commandRunner: commandRunner,
		cache:         cache,
	}
}

func (c *electronConfigurator) Name() string {
	return string(appdetect.Electron)
}

func (c *electronConfigurator) ProjectType() appdetect.ProjectType {
	return appdetect.Electron
}

func (c *electronConfigurator) npmCli(projectDir string) *npm.Cli {
	return npm.NewCliWithPackageManager(c.commandRunner, npm.DetectPackageManager(projectDir), c.cache)
}

func (c *electronConfigurator) CanConfigure(ctx context.Context, project *appdetect.ProjectDescriptor) bool {
	_, err := manifest.LoadPackageJson(project.ProjectFile)
	return err == nil
}

func (c *electronConfigurator) Configure(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options ConfigureOptions,
) error {
	pkg, err := manifest.LoadPackageJson(project.ProjectFile)
	if err != nil {
		return err
	}

	if err := pkg.Apply(options.Identity.manifestIdentity(options.Version)); err != nil {
		return err
	}

	return pkg.Save()
}

func (c *electronConfigurator) Package(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options PackageOptions,
) (*artifact.Artifact, error) {
	if err := ensureWindows(appdetect.Electron); err != nil {
		return nil, err
	}

	cli := c.npmCli(project.Root)

	if err := cli.Install(ctx, project.Root); err != nil {
		return nil, err
	}

	hasBuilder, err := func() (bool, error) {
		pkg, err := manifest.LoadPackageJson(project.ProjectFile)
		if err != nil {
			return false, err
		}
		return pkg.HasDependency(electronBuilderPackage), nil
	}()
	if err != nil {
		return nil, err
	}
	if !hasBuilder {
		if err := cli.InstallDevDependency(ctx, project.Root, electronBuilderPackage); err != nil {
			return nil, err
		}
	}

	args := []string{"build", "-w=appx"}
	for _, arch := range options.Archs {
		switch arch {
		case "x64":
			args = append(args, "--x64")
		case "x86":
			args = append(args, "--ia32")
		case "arm64":
			args = append(args, "--arm64")
		}
	}

	res, err := cli.RunTool(ctx, project.Root, electronBuilderPackage, args...)
	if err != nil {
		return nil, wrapBuildError(electronBuilderPackage, res, err)
	}

	return artifact.FromElectronBuilderOutput(res.Stdout, project.Root)
}
