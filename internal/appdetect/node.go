// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/manifest"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/npm"
)

// reactNativeDetector matches package.json projects that depend on
// react-native. A declared dependency settles it immediately; otherwise
// the package manager is asked (npm list / yarn why), since monorepo
// setups can resolve react-native without declaring it locally. That
// probe spawns a process, so results are cached per (directory, package).
type reactNativeDetector struct {
	commandRunner exec.CommandRunner
	cache         *npm.DependencyCache
}

func (d *reactNativeDetector) Type() ProjectType {
	return ReactNative
}

func (d *reactNativeDetector) DetectProject(ctx context.Context, path string, entries []fs.DirEntry) (*ProjectDescriptor, error) {
	packageJsonPath, ok := findPackageJson(path, entries)
	if !ok {
		return nil, nil
	}

	pkg, err := manifest.LoadPackageJson(packageJsonPath)
	if err != nil {
		return nil, err
	}

	if pkg.HasDependency("react-native") {
		return &ProjectDescriptor{
			Root:          path,
			ProjectFile:   packageJsonPath,
			Type:          ReactNative,
			DetectionRule: "Inferred by react-native dependency in: package.json",
		}, nil
	}

	cli := npm.NewCliWithPackageManager(d.commandRunner, npm.DetectPackageManager(path), d.cache)
	has, err := cli.HasDependency(ctx, path, "react-native")
	if err != nil {
		return nil, err
	}

	if has {
		return &ProjectDescriptor{
			Root:          path,
			ProjectFile:   packageJsonPath,
			Type:          ReactNative,
			DetectionRule: "Inferred by react-native resolved by " + string(cli.PackageManager()),
		}, nil
	}

	return nil, nil
}

// electronDetector matches any remaining package.json project. Ordered
// after reactNativeDetector, so only non react-native projects land here.
type electronDetector struct {
}

func (d *electronDetector) Type() ProjectType {
	return Electron
}

func (d *electronDetector) DetectProject(ctx context.Context, path string, entries []fs.DirEntry) (*ProjectDescriptor, error) {
	packageJsonPath, ok := findPackageJson(path, entries)
	if !ok {
		return nil, nil
	}

	return &ProjectDescriptor{
		Root:          path,
		ProjectFile:   packageJsonPath,
		Type:          Electron,
		DetectionRule: "Inferred by presence of: package.json",
	}, nil
}

func findPackageJson(path string, entries []fs.DirEntry) (string, bool) {
	for _, entry := range entries {
		if entry.Name() == "package.json" {
			return filepath.Join(path, entry.Name()), true
		}
	}
	return "", false
}
