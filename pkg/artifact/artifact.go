// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package artifact locates the package files a build toolchain produced,
// either by scanning the tool's captured stdout for known markers or by
// globbing a known output directory.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNoArtifact indicates a build tool exited successfully but its output
// contained no recognizable package marker. This is distinct from a build
// failure: it usually means the tool's output format changed between
// versions, not that the build broke.
var ErrNoArtifact = errors.New("no package artifact found in build output")

// Artifact is the result of a packaging step: the resolved output
// directory and the package file(s) inside it, one per architecture for
// multi-arch builds.
type Artifact struct {
	OutputDir string
	Files     []string
}

// PackageExtensions are the installable package formats the Store accepts.
var PackageExtensions = []string{
	".msix", ".msixbundle", ".msixupload",
	".appx", ".appxbundle", ".appxupload",
}

// UploadExtensions are the formats preferred for Store submissions when
// both flavors are present in an output directory.
var UploadExtensions = []string{".msixupload", ".appxupload"}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsi removes ANSI escape sequences so marker scanning sees plain
// text even when a tool colors its output.
func StripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// HasPackageExtension reports whether the path ends in an installable
// package extension.
func HasPackageExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range PackageExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// FromElectronBuilderOutput extracts the appx file paths electron-builder
// reports on lines shaped like:
//
//	• building        target=AppX file=dist\app.appx arch=x64
//
// Relative paths are resolved against workDir.
func FromElectronBuilderOutput(stdout string, workDir string) (*Artifact, error) {
	var files []string

	for _, line := range strings.Split(StripAnsi(stdout), "\n") {
		if !strings.Contains(line, "target=AppX") {
			continue
		}

		idx := strings.Index(line, "file=")
		if idx < 0 {
			continue
		}

		path := line[idx+len("file="):]
		// The file path runs until the next field marker or end of line.
		if end := strings.Index(path, " arch="); end >= 0 {
			path = path[:end]
		}
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}

		files = append(files, resolve(path, workDir))
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("scanning electron-builder output: %w", ErrNoArtifact)
	}

	return &Artifact{
		OutputDir: filepath.Dir(files[0]),
		Files:     files,
	}, nil
}

// FromFlutterMsixOutput extracts the msix path the flutter msix package
// prints, either as "msix created: <path>" or as an arrow line ending in
// a package file.
func FromFlutterMsixOutput(stdout string, workDir string) (*Artifact, error) {
	for _, line := range strings.Split(StripAnsi(stdout), "\n") {
		lower := strings.ToLower(line)

		if idx := strings.Index(lower, "msix created:"); idx >= 0 {
			path := strings.TrimSpace(line[idx+len("msix created:"):])
			if path != "" {
				resolved := resolve(path, workDir)
				return &Artifact{OutputDir: filepath.Dir(resolved), Files: []string{resolved}}, nil
			}
		}

		// Older msix versions print "<name> -> <path>" on completion.
		if idx := strings.LastIndex(line, "->"); idx >= 0 {
			path := strings.TrimSpace(line[idx+2:])
			if path != "" && HasPackageExtension(path) {
				resolved := resolve(path, workDir)
				return &Artifact{OutputDir: filepath.Dir(resolved), Files: []string{resolved}}, nil
			}
		}
	}

	return nil, fmt.Errorf("scanning flutter msix output: %w", ErrNoArtifact)
}

// FromOutputDir collects package files directly from a known output
// directory, preferring Store upload bundles when present. MSBuild and
// dotnet publish are pointed at an explicit AppxPackageDir, so their
// artifacts are found on disk rather than parsed out of build logs.
func FromOutputDir(dir string) (*Artifact, error) {
	uploads, err := collect(dir, UploadExtensions)
	if err != nil {
		return nil, err
	}

	if len(uploads) > 0 {
		return &Artifact{OutputDir: dir, Files: uploads}, nil
	}

	all, err := collect(dir, PackageExtensions)
	if err != nil {
		return nil, err
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("scanning output directory %s: %w", dir, ErrNoArtifact)
	}

	return &Artifact{OutputDir: dir, Files: all}, nil
}

func collect(dir string, extensions []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, known := range extensions {
			if ext == known {
				files = append(files, path)
				break
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning output directory %s: %w", dir, err)
	}

	return files, nil
}

func resolve(path string, workDir string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) || workDir == "" {
		return path
	}
	return filepath.Join(workDir, path)
}
