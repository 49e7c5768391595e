// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/artifact"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/manifest"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/dotnet"
)

// mauiConfigurator handles .NET MAUI projects: identity lands in the
// csproj (and the Windows platform appxmanifest when present), packaging
// goes through `dotnet publish` with Store upload properties.
type mauiConfigurator struct {
	dotnet *dotnet.Cli
}

func NewMauiConfigurator(commandRunner exec.CommandRunner) Configurator {
	return &mauiConfigurator{
		dotnet: dotnet.NewCli(commandRunner),
	}
}

func (c *mauiConfigurator) Name() string {
	return string(appdetect.Maui)
}

func (c *mauiConfigurator) ProjectType() appdetect.ProjectType {
	return appdetect.Maui
}

func (c *mauiConfigurator) CanConfigure(ctx context.Context, project *appdetect.ProjectDescriptor) bool {
	proj, err := manifest.LoadCsproj(project.ProjectFile)
	return err == nil && proj.UsesMaui()
}

func (c *mauiConfigurator) Configure(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options ConfigureOptions,
) error {
	identity := options.Identity.manifestIdentity(options.Version)

	proj, err := manifest.LoadCsproj(project.ProjectFile)
	if err != nil {
		return err
	}
	if err := proj.Apply(identity); err != nil {
		return err
	}
	if err := proj.Save(); err != nil {
		return err
	}

	// MAUI templates carry a Windows platform manifest as well.
	platformManifest := filepath.Join(project.Root, "Platforms", "Windows", "Package.appxmanifest")
	if _, err := os.Stat(platformManifest); err == nil {
		if err := patchAppxManifest(platformManifest, identity); err != nil {
			return err
		}
	}

	return nil
}

func (c *mauiConfigurator) Package(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options PackageOptions,
) (*artifact.Artifact, error) {
	if err := ensureWindows(appdetect.Maui); err != nil {
		return nil, err
	}

	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(project.Root, "AppPackages")
	}

	// Restore separately so dependency resolution failures surface on
	// their own instead of buried in the publish output.
	if err := c.dotnet.Restore(ctx, project.ProjectFile); err != nil {
		return nil, err
	}

	res, err := c.dotnet.PublishMaui(ctx, dotnet.PublishMauiOptions{
		ProjectFile: project.ProjectFile,
		Archs:       options.Archs,
		Version:     options.Version,
		OutputDir:   outputDir,
	})
	if err != nil {
		return nil, wrapBuildError(c.dotnet.Name(), res, err)
	}

	return artifact.FromOutputDir(outputDir)
}
