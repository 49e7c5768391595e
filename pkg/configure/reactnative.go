// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/artifact"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/msbuild"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/npm"
)

// reactNativeConfigurator handles React Native for Windows projects. The
// Windows app lives in the windows/ subdirectory as a regular UWP-style
// solution; identity lands in its Package.appxmanifest and packaging
// goes through MSBuild.
type reactNativeConfigurator struct {
	commandRunner exec.CommandRunner
	cache         *npm.DependencyCache
	msbuild       *msbuild.Cli
}

func NewReactNativeConfigurator(commandRunner exec.CommandRunner, cache *npm.DependencyCache) Configurator {
	return &reactNativeConfigurator{
		commandRunner: commandRunner,
		cache:         cache,
		msbuild:       msbuild.NewCli(commandRunner),
	}
}

func (c *reactNativeConfigurator) Name() string {
	return string(appdetect.ReactNative)
}

func (c *reactNativeConfigurator) ProjectType() appdetect.ProjectType {
	return appdetect.ReactNative
}

func (c *reactNativeConfigurator) windowsDir(project *appdetect.ProjectDescriptor) string {
	return filepath.Join(project.Root, "windows")
}

func (c *reactNativeConfigurator) CanConfigure(ctx context.Context, project *appdetect.ProjectDescriptor) bool {
	info, err := os.Stat(c.windowsDir(project))
	return err == nil && info.IsDir()
}

func (c *reactNativeConfigurator) Configure(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options ConfigureOptions,
) error {
	windowsDir := c.windowsDir(project)

	manifestPath, err := findAppxManifest(windowsDir)
	if err != nil {
		return err
	}
	if manifestPath == "" {
		return fmt.Errorf(
			"no Package.appxmanifest found under %s; run `npx react-native-windows-init` first",
			windowsDir)
	}

	return patchAppxManifest(manifestPath, options.Identity.manifestIdentity(options.Version))
}

func (c *reactNativeConfigurator) Package(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options PackageOptions,
) (*artifact.Artifact, error) {
	if err := ensureWindows(appdetect.ReactNative); err != nil {
		return nil, err
	}

	windowsDir := c.windowsDir(project)

	solution, err := findSolution(windowsDir)
	if err != nil {
		return nil, err
	}

	pm := npm.NewCliWithPackageManager(c.commandRunner, npm.DetectPackageManager(project.Root), c.cache)
	if err := pm.Install(ctx, project.Root); err != nil {
		return nil, err
	}

	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(windowsDir, "AppPackages")
	}

	res, err := c.msbuild.Package(ctx, msbuild.PackageOptions{
		SolutionOrProject: solution,
		Archs:             options.Archs,
		OutputDir:         outputDir,
	})
	if err != nil {
		return nil, wrapBuildError(c.msbuild.Name(), res, err)
	}

	return artifact.FromOutputDir(outputDir)
}

func findSolution(dir string) (string, error) {
	var found string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".sln") {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching for solution under %s: %w", dir, err)
	}
	if found == "" {
		return "", fmt.Errorf("no solution file found under %s", dir)
	}

	return found, nil
}
