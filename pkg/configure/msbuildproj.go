// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/artifact"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/manifest"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/msbuild"
)

// osName is consulted by the Windows-only packaging gate. Overridden in
// tests that exercise packaging flows with a mocked toolchain.
var osName = runtime.GOOS

func ensureWindows(projectType appdetect.ProjectType) error {
	if osName != "windows" {
		return &WindowsOnlyError{ProjectType: projectType}
	}
	return nil
}

// msbuildConfigurator handles the two MSBuild-packaged project types,
// UWP and WinUI 3. Both carry a Package.appxmanifest and both produce
// Store upload bundles through an MSBuild StoreUpload build; they differ
// only in detection.
type msbuildConfigurator struct {
	projectType appdetect.ProjectType
	msbuild     *msbuild.Cli
}

func NewUWPConfigurator(commandRunner exec.CommandRunner) Configurator {
	return &msbuildConfigurator{
		projectType: appdetect.UWP,
		msbuild:     msbuild.NewCli(commandRunner),
	}
}

func NewWinUIConfigurator(commandRunner exec.CommandRunner) Configurator {
	return &msbuildConfigurator{
		projectType: appdetect.WinUI,
		msbuild:     msbuild.NewCli(commandRunner),
	}
}

func (c *msbuildConfigurator) Name() string {
	return string(c.projectType)
}

func (c *msbuildConfigurator) ProjectType() appdetect.ProjectType {
	return c.projectType
}

func (c *msbuildConfigurator) CanConfigure(ctx context.Context, project *appdetect.ProjectDescriptor) bool {
	manifestPath, err := findAppxManifest(project.Root)
	return err == nil && manifestPath != ""
}

func (c *msbuildConfigurator) Configure(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options ConfigureOptions,
) error {
	manifestPath, err := findAppxManifest(project.Root)
	if err != nil {
		return err
	}
	if manifestPath == "" {
		return fmt.Errorf("no Package.appxmanifest found under %s", project.Root)
	}

	return patchAppxManifest(manifestPath, options.Identity.manifestIdentity(options.Version))
}

func (c *msbuildConfigurator) Package(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options PackageOptions,
) (*artifact.Artifact, error) {
	if err := ensureWindows(c.projectType); err != nil {
		return nil, err
	}

	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(project.Root, "AppPackages")
	}

	res, err := c.msbuild.Package(ctx, msbuild.PackageOptions{
		SolutionOrProject: project.ProjectFile,
		Archs:             options.Archs,
		OutputDir:         outputDir,
	})
	if err != nil {
		return nil, wrapBuildError(c.msbuild.Name(), res, err)
	}

	return artifact.FromOutputDir(outputDir)
}

func patchAppxManifest(manifestPath string, identity manifest.Identity) error {
	m, err := manifest.LoadAppxManifest(manifestPath)
	if err != nil {
		return err
	}

	if err := m.Apply(identity); err != nil {
		return err
	}

	return m.Save()
}

// findAppxManifest locates the first Package.appxmanifest below root,
// skipping build output and dependency directories.
func findAppxManifest(root string) (string, error) {
	var found string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			switch strings.ToLower(d.Name()) {
			case "bin", "obj", "node_modules", ".git", "apppackages":
				return filepath.SkipDir
			}
			return nil
		}

		if strings.EqualFold(d.Name(), "Package.appxmanifest") {
			found = path
			return filepath.SkipAll
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching for Package.appxmanifest under %s: %w", root, err)
	}

	return found, nil
}
