// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package appdetect resolves a path-or-URL input to the Store project
// type that owns it: UWP, WinUI 3, .NET MAUI, Flutter, Electron,
// React Native for Windows, a prebuilt MSIX/APPX package, or a PWA URL.
package appdetect

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type ProjectType string

const (
	UWP         ProjectType = "UWP"
	WinUI       ProjectType = "Windows App SDK (WinUI 3)"
	Maui        ProjectType = ".NET MAUI"
	Flutter     ProjectType = "Flutter"
	Electron    ProjectType = "Electron"
	ReactNative ProjectType = "React Native for Windows"
	RawPackage  ProjectType = "MSIX/APPX package"
	PWA         ProjectType = "PWA"
)

// ProjectDescriptor identifies a detected project. It is created once per
// invocation and never mutated afterwards.
type ProjectDescriptor struct {
	// Root is the project directory, the package file, or the PWA URL
	// exactly as resolved.
	Root string
	// ProjectFile is the specific file that drove detection (.csproj,
	// package.json, pubspec.yaml, a .msix, ...). Empty for PWA.
	ProjectFile string
	Type        ProjectType
	// DetectionRule describes why this type matched, for --verbose output.
	DetectionRule string
}

// ProjectDetector detects one project type from a directory listing.
type ProjectDetector interface {
	Type() ProjectType
	DetectProject(ctx context.Context, path string, entries []fs.DirEntry) (*ProjectDescriptor, error)
}

// ErrNoMatch is returned when no known project type claims the input.
type ErrNoMatch struct {
	Path string
}

func (e *ErrNoMatch) Error() string {
	return fmt.Sprintf("could not detect a supported project type at %s", e.Path)
}

// packageExtensions are the package file extensions accepted as a raw,
// publish-only input.
var packageExtensions = map[string]struct{}{
	".msix":       {},
	".msixbundle": {},
	".msixupload": {},
	".appx":       {},
	".appxbundle": {},
	".appxupload": {},
}

// Detect resolves pathOrUrl to a project descriptor.
//
// Detection is priority ordered and first-match-wins. The order is part
// of the tool's contract, since a directory can carry more than one
// signature (a Flutter plugin example app ships a package.json next to
// its pubspec.yaml):
//
//  1. PWA        — absolute non-file URL
//  2. Package    — existing .msix/.appx(/bundle/upload) file
//  3. WinUI 3    — project file referencing Microsoft.WindowsAppSDK
//  4. .NET MAUI  — csproj with <UseMaui>true</UseMaui>
//  5. UWP        — Package.appxmanifest next to a project/solution file
//  6. Flutter    — pubspec.yaml
//  7. ReactNative — package.json with a react-native dependency
//  8. Electron   — package.json
func Detect(ctx context.Context, pathOrUrl string, detectors []ProjectDetector) (*ProjectDescriptor, error) {
	if parsed, err := url.Parse(pathOrUrl); err == nil &&
		parsed.IsAbs() && parsed.Scheme != "file" && parsed.Host != "" {
		return &ProjectDescriptor{
			Root:          pathOrUrl,
			Type:          PWA,
			DetectionRule: "Inferred by URL input",
		}, nil
	}

	info, err := os.Stat(pathOrUrl)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", pathOrUrl, err)
	}

	if !info.IsDir() {
		ext := strings.ToLower(filepath.Ext(pathOrUrl))
		if _, ok := packageExtensions[ext]; ok {
			return &ProjectDescriptor{
				Root:          pathOrUrl,
				ProjectFile:   pathOrUrl,
				Type:          RawPackage,
				DetectionRule: "Inferred by file extension: " + ext,
			}, nil
		}

		return nil, &ErrNoMatch{Path: pathOrUrl}
	}

	entries, err := os.ReadDir(pathOrUrl)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", pathOrUrl, err)
	}

	for _, detector := range detectors {
		project, err := detector.DetectProject(ctx, pathOrUrl, entries)
		if err != nil {
			return nil, fmt.Errorf("detecting %s project: %w", detector.Type(), err)
		}

		if project != nil {
			return project, nil
		}
	}

	return nil, &ErrNoMatch{Path: pathOrUrl}
}
