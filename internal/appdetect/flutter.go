// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// flutterDetector matches directories containing a pubspec.yaml. It is
// ordered before the Node.js detectors: Flutter example and plugin
// projects routinely carry a package.json next to their pubspec.
type flutterDetector struct {
}

func (d *flutterDetector) Type() ProjectType {
	return Flutter
}

func (d *flutterDetector) DetectProject(ctx context.Context, path string, entries []fs.DirEntry) (*ProjectDescriptor, error) {
	for _, entry := range entries {
		if strings.EqualFold(entry.Name(), "pubspec.yaml") {
			return &ProjectDescriptor{
				Root:          path,
				ProjectFile:   filepath.Join(path, entry.Name()),
				Type:          Flutter,
				DetectionRule: "Inferred by presence of: " + entry.Name(),
			}, nil
		}
	}

	return nil, nil
}
