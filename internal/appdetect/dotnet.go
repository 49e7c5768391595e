// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fkatada/ms-msstore-cli/pkg/manifest"
)

// winUIDetector matches projects referencing the Windows App SDK, the
// WinUI 3 marker. Runs before the MAUI and UWP detectors since a WinUI
// project file can superficially look like either.
type winUIDetector struct {
}

func (d *winUIDetector) Type() ProjectType {
	return WinUI
}

func (d *winUIDetector) DetectProject(ctx context.Context, path string, entries []fs.DirEntry) (*ProjectDescriptor, error) {
	for _, entry := range entries {
		name := entry.Name()

		switch strings.ToLower(filepath.Ext(name)) {
		case ".csproj":
			proj, err := manifest.LoadCsproj(filepath.Join(path, name))
			if err != nil {
				return nil, err
			}
			if proj.UsesWindowsAppSDK() {
				return &ProjectDescriptor{
					Root:          path,
					ProjectFile:   filepath.Join(path, name),
					Type:          WinUI,
					DetectionRule: "Inferred by Microsoft.WindowsAppSDK reference in: " + name,
				}, nil
			}
		case ".vcxproj":
			content, err := os.ReadFile(filepath.Join(path, name))
			if err != nil {
				return nil, err
			}
			if strings.Contains(string(content), "Microsoft.WindowsAppSDK") {
				return &ProjectDescriptor{
					Root:          path,
					ProjectFile:   filepath.Join(path, name),
					Type:          WinUI,
					DetectionRule: "Inferred by Microsoft.WindowsAppSDK reference in: " + name,
				}, nil
			}
		}
	}

	return nil, nil
}

// mauiDetector matches csproj files that enable .NET MAUI.
type mauiDetector struct {
}

func (d *mauiDetector) Type() ProjectType {
	return Maui
}

func (d *mauiDetector) DetectProject(ctx context.Context, path string, entries []fs.DirEntry) (*ProjectDescriptor, error) {
	for _, entry := range entries {
		name := entry.Name()
		if strings.ToLower(filepath.Ext(name)) != ".csproj" {
			continue
		}

		proj, err := manifest.LoadCsproj(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}

		if proj.UsesMaui() {
			return &ProjectDescriptor{
				Root:          path,
				ProjectFile:   filepath.Join(path, name),
				Type:          Maui,
				DetectionRule: "Inferred by <UseMaui> in: " + name,
			}, nil
		}
	}

	return nil, nil
}

// uwpDetector matches directories carrying a Package.appxmanifest next to
// a project or solution file.
type uwpDetector struct {
}

func (d *uwpDetector) Type() ProjectType {
	return UWP
}

func (d *uwpDetector) DetectProject(ctx context.Context, path string, entries []fs.DirEntry) (*ProjectDescriptor, error) {
	var hasManifest bool
	var projectFile string
	var solutionFile string

	for _, entry := range entries {
		name := entry.Name()

		if strings.EqualFold(name, "Package.appxmanifest") {
			hasManifest = true
		}

		switch strings.ToLower(filepath.Ext(name)) {
		case ".csproj", ".vcxproj", ".wapproj":
			projectFile = name
		case ".sln":
			solutionFile = name
		}
	}

	if !hasManifest || (projectFile == "" && solutionFile == "") {
		return nil, nil
	}

	// MSBuild packaging prefers the solution when one exists.
	buildFile := solutionFile
	if buildFile == "" {
		buildFile = projectFile
	}

	return &ProjectDescriptor{
		Root:          path,
		ProjectFile:   filepath.Join(path, buildFile),
		Type:          UWP,
		DetectionRule: "Inferred by presence of: Package.appxmanifest, " + buildFile,
	}, nil
}
