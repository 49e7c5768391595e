// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/test/mocks/mockexec"
)

var testIdentity = AppIdentity{
	AppID:                "9NBLGGH4R315",
	AppName:              "Sample App",
	PackageIdentityName:  "12345Contoso.SampleApp",
	PublisherName:        "CN=F1AD2494-0000-0000-0000-000000000000",
	PublisherDisplayName: "Contoso Ltd",
}

func forceOS(t *testing.T, goos string) {
	t.Helper()
	prev := osName
	osName = goos
	t.Cleanup(func() { osName = prev })
}

func TestCapabilitiesFor(t *testing.T) {
	assert.Equal(t,
		Capabilities{Configure: true, Package: true, Publish: true, WindowsOnly: true},
		CapabilitiesFor(appdetect.UWP))

	assert.Equal(t, Capabilities{Publish: true}, CapabilitiesFor(appdetect.RawPackage))
	assert.Equal(t, Capabilities{Configure: true}, CapabilitiesFor(appdetect.PWA))
}

func TestRegistryCoversAllConfigurableTypes(t *testing.T) {
	registry := NewRegistry(mockexec.NewMockCommandRunner(), nil)

	for projectType, caps := range capabilityTable {
		configurator, ok := registry.For(projectType)
		if !caps.Configure {
			assert.False(t, ok, "type %s should have no configurator", projectType)
			continue
		}

		require.True(t, ok, "type %s should have a configurator", projectType)
		assert.Equal(t, projectType, configurator.ProjectType())

		_, isPackager := configurator.(Packager)
		assert.Equal(t, caps.Package, isPackager, "packager mismatch for %s", projectType)
	}
}

func TestPackageFailsOffWindows(t *testing.T) {
	forceOS(t, "linux")

	registry := NewRegistry(mockexec.NewMockCommandRunner(), nil)

	for _, projectType := range []appdetect.ProjectType{
		appdetect.UWP, appdetect.WinUI, appdetect.Maui,
		appdetect.Flutter, appdetect.Electron, appdetect.ReactNative,
	} {
		configurator, ok := registry.For(projectType)
		require.True(t, ok)

		packager, ok := configurator.(Packager)
		require.True(t, ok)

		_, err := packager.Package(context.Background(), &appdetect.ProjectDescriptor{
			Root: t.TempDir(),
			Type: projectType,
		}, PackageOptions{})

		var windowsErr *WindowsOnlyError
		require.ErrorAs(t, err, &windowsErr, "type %s", projectType)
		assert.Equal(t, "This project type can only be packaged on Windows.", err.Error())
	}
}

func TestWrapBuildErrorCarriesStderr(t *testing.T) {
	exitErr := exec.NewTestExitError("msbuild App.sln", 1, "error MSB1009: Project file does not exist.")

	err := wrapBuildError("MSBuild", exec.RunResult{}, exitErr)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "MSBuild", buildErr.Tool)
	assert.Equal(t, 1, buildErr.ExitCode)
	assert.Contains(t, buildErr.Error(), "MSB1009")
}

func TestWrapBuildErrorPassesThroughOtherErrors(t *testing.T) {
	err := wrapBuildError("MSBuild", exec.RunResult{}, context.Canceled)

	var buildErr *BuildError
	assert.False(t, errors.As(err, &buildErr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMsbuildConfiguratorConfigure(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "Package.appxmanifest")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`<?xml version="1.0" encoding="utf-8"?>
<Package>
  <Identity Name="MyCompany.MyApp" Publisher="CN=Dev" Version="1.0.0.0" />
  <Properties>
    <DisplayName>MyApp</DisplayName>
    <PublisherDisplayName>MyCompany</PublisherDisplayName>
  </Properties>
</Package>
`), 0644))

	configurator := NewUWPConfigurator(mockexec.NewMockCommandRunner())
	project := &appdetect.ProjectDescriptor{Root: dir, Type: appdetect.UWP}

	require.True(t, configurator.CanConfigure(context.Background(), project))
	require.NoError(t, configurator.Configure(context.Background(), project, ConfigureOptions{
		Identity: testIdentity,
		Version:  "1.2.3.0",
	}))

	content, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `Name="12345Contoso.SampleApp"`)
	assert.Contains(t, string(content), "<PublisherDisplayName>Contoso Ltd</PublisherDisplayName>")
}
