// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/npm"
)

// Registry holds one configurator per supported project type.
type Registry struct {
	configurators []Configurator
}

// NewRegistry builds the full configurator set on a shared command
// runner and npm dependency cache.
func NewRegistry(commandRunner exec.CommandRunner, cache *npm.DependencyCache) *Registry {
	return &Registry{
		configurators: []Configurator{
			NewUWPConfigurator(commandRunner),
			NewWinUIConfigurator(commandRunner),
			NewMauiConfigurator(commandRunner),
			NewFlutterConfigurator(commandRunner),
			NewElectronConfigurator(commandRunner, cache),
			NewReactNativeConfigurator(commandRunner, cache),
			NewPWAConfigurator(),
		},
	}
}

// For returns the configurator for a project type, or false when the
// type has no configurator (raw packages have nothing to configure).
func (r *Registry) For(projectType appdetect.ProjectType) (Configurator, bool) {
	for _, c := range r.configurators {
		if c.ProjectType() == projectType {
			return c, true
		}
	}
	return nil, false
}
