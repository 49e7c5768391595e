// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/npm"
)

// NewDetectors returns the directory detectors in priority order. The
// PWA and raw package cases are resolved by Detect itself before any of
// these run; see the order contract on Detect.
func NewDetectors(commandRunner exec.CommandRunner, cache *npm.DependencyCache) []ProjectDetector {
	return []ProjectDetector{
		&winUIDetector{},
		&mauiDetector{},
		&uwpDetector{},
		&flutterDetector{},
		&reactNativeDetector{commandRunner: commandRunner, cache: cache},
		&electronDetector{},
	}
}
