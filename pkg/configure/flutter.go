// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"context"
	"path/filepath"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/artifact"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/manifest"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/flutter"
)

// msixPackageName is the pub package that adds MSIX packaging support to
// a Flutter project.
const msixPackageName = "msix"

// flutterConfigurator handles Flutter projects: identity lands in the
// pubspec's msix_config block, packaging goes through the msix pub
// package's build and pack steps.
type flutterConfigurator struct {
	flutter *flutter.Cli
}

func NewFlutterConfigurator(commandRunner exec.CommandRunner) Configurator {
	return &flutterConfigurator{
		flutter: flutter.NewCli(commandRunner),
	}
}

func (c *flutterConfigurator) Name() string {
	return string(appdetect.Flutter)
}

func (c *flutterConfigurator) ProjectType() appdetect.ProjectType {
	return appdetect.Flutter
}

func (c *flutterConfigurator) CanConfigure(ctx context.Context, project *appdetect.ProjectDescriptor) bool {
	_, err := manifest.LoadPubspec(project.ProjectFile)
	return err == nil
}

func (c *flutterConfigurator) Configure(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options ConfigureOptions,
) error {
	pubspec, err := manifest.LoadPubspec(project.ProjectFile)
	if err != nil {
		return err
	}

	if !pubspec.HasMsixDependency() {
		if err := c.flutter.PubAddDevDependency(ctx, project.Root, msixPackageName); err != nil {
			return err
		}

		// pub add rewrites the pubspec; reload before patching.
		pubspec, err = manifest.LoadPubspec(project.ProjectFile)
		if err != nil {
			return err
		}
	}

	if err := pubspec.Apply(options.Identity.manifestIdentity(options.Version)); err != nil {
		return err
	}

	return pubspec.Save()
}

func (c *flutterConfigurator) Package(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options PackageOptions,
) (*artifact.Artifact, error) {
	if err := ensureWindows(appdetect.Flutter); err != nil {
		return nil, err
	}

	if err := c.flutter.PubGet(ctx, project.Root); err != nil {
		return nil, err
	}

	msixOptions := flutter.CreateMsixOptions{
		ProjectDir: project.Root,
		OutputPath: options.OutputDir,
		Store:      true,
	}

	if res, err := c.flutter.BuildMsix(ctx, msixOptions); err != nil {
		return nil, wrapBuildError(c.flutter.Name(), res, err)
	}

	res, err := c.flutter.PackMsix(ctx, msixOptions)
	if err != nil {
		return nil, wrapBuildError(c.flutter.Name(), res, err)
	}

	a, err := artifact.FromFlutterMsixOutput(res.Stdout, project.Root)
	if err == nil {
		return a, nil
	}

	// The pack step does not always echo the output path; fall back to
	// scanning the default build directory.
	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(project.Root, "build", "windows")
	}

	return artifact.FromOutputDir(outputDir)
}
