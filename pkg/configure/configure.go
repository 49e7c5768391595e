// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package configure adapts each supported project type to Store
// packaging requirements: writing Store identity into the project's
// manifest, driving the platform build toolchain, and locating the
// produced package.
package configure

import (
	"context"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/artifact"
	"github.com/fkatada/ms-msstore-cli/pkg/manifest"
)

// AppIdentity is the Store identity for one application. It is fetched
// once per invocation (from Partner Center or flags) and treated as
// immutable afterwards.
type AppIdentity struct {
	// AppID is the Store assigned application id, e.g. "9NBLGGH4R315".
	AppID string
	// AppName is the reserved primary name.
	AppName string
	// PackageIdentityName is the package identity, e.g. "12345Publisher.App".
	PackageIdentityName string
	// PublisherName is the publisher certificate subject, e.g. "CN=...".
	PublisherName string
	// PublisherDisplayName is the human readable publisher name.
	PublisherDisplayName string
}

func (a AppIdentity) manifestIdentity(version string) manifest.Identity {
	return manifest.Identity{
		Name:                 a.PackageIdentityName,
		Publisher:            a.PublisherName,
		PublisherDisplayName: a.PublisherDisplayName,
		AppName:              a.AppName,
		AppID:                a.AppID,
		Version:              version,
	}
}

// ConfigureOptions are the inputs to a Configure call.
type ConfigureOptions struct {
	Identity AppIdentity
	// Version stamps the manifest's package version; empty leaves the
	// project's current version untouched.
	Version string
}

// PackageOptions are the inputs to a Package call.
type PackageOptions struct {
	Identity AppIdentity
	// Archs are the target architectures (x64, x86, arm64). Empty means
	// the toolchain's default.
	Archs []string
	Version string
	// OutputDir receives the built packages; empty picks a per-toolchain
	// default under the project root.
	OutputDir string
}

// Configurator adapts one project type. Implementations that can build
// an installable package additionally implement Packager.
type Configurator interface {
	Name() string
	ProjectType() appdetect.ProjectType

	// CanConfigure is a cheap, non-mutating applicability check against
	// an already detected project.
	CanConfigure(ctx context.Context, project *appdetect.ProjectDescriptor) bool

	// Configure writes the Store identity into the project's manifest.
	// Configuring twice with the same identity is a no-op on disk.
	Configure(ctx context.Context, project *appdetect.ProjectDescriptor, options ConfigureOptions) error
}

// Packager is the optional packaging capability of a Configurator.
type Packager interface {
	Package(
		ctx context.Context,
		project *appdetect.ProjectDescriptor,
		options PackageOptions,
	) (*artifact.Artifact, error)
}

// Capabilities is the fixed capability set implied by a project type.
type Capabilities struct {
	Configure bool
	Package   bool
	Publish   bool
	// WindowsOnly marks types whose packaging toolchain exists only on
	// Windows.
	WindowsOnly bool
}

var capabilityTable = map[appdetect.ProjectType]Capabilities{
	appdetect.UWP:         {Configure: true, Package: true, Publish: true, WindowsOnly: true},
	appdetect.WinUI:       {Configure: true, Package: true, Publish: true, WindowsOnly: true},
	appdetect.Maui:        {Configure: true, Package: true, Publish: true, WindowsOnly: true},
	appdetect.Flutter:     {Configure: true, Package: true, Publish: true, WindowsOnly: true},
	appdetect.Electron:    {Configure: true, Package: true, Publish: true, WindowsOnly: true},
	appdetect.ReactNative: {Configure: true, Package: true, Publish: true, WindowsOnly: true},
	// A prebuilt package can only be uploaded.
	appdetect.RawPackage: {Publish: true},
	// PWAs are packaged by the PWABuilder service, not by a local
	// toolchain; this CLI only configures the identity association.
	appdetect.PWA: {Configure: true},
}

// CapabilitiesFor returns the capability set for a project type.
func CapabilitiesFor(projectType appdetect.ProjectType) Capabilities {
	return capabilityTable[projectType]
}
