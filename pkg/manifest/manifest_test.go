// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var testIdentity = Identity{
	Name:                 "12345Contoso.SampleApp",
	Publisher:            "CN=F1AD2494-0000-0000-0000-000000000000",
	PublisherDisplayName: "Contoso Ltd",
	AppName:              "Sample App",
	AppID:                "9NBLGGH4R315",
	Version:              "1.2.3.0",
}

func writeTemp(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sampleAppxManifest = `<?xml version="1.0" encoding="utf-8"?>
<Package xmlns="http://schemas.microsoft.com/appx/manifest/foundation/windows10">
  <Identity Name="MyCompany.MyApp" Publisher="CN=Dev" Version="1.0.0.0" />
  <Properties>
    <DisplayName>MyApp</DisplayName>
    <PublisherDisplayName>MyCompany</PublisherDisplayName>
    <Logo>Assets\StoreLogo.png</Logo>
  </Properties>
</Package>
`

func TestAppxManifestApply(t *testing.T) {
	path := writeTemp(t, "Package.appxmanifest", sampleAppxManifest)

	m, err := LoadAppxManifest(path)
	require.NoError(t, err)
	require.False(t, m.IsConfigured(testIdentity))

	require.NoError(t, m.Apply(testIdentity))
	require.NoError(t, m.Save())

	m, err = LoadAppxManifest(path)
	require.NoError(t, err)
	require.True(t, m.IsConfigured(testIdentity))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), `Name="12345Contoso.SampleApp"`)
	require.Contains(t, string(content), `Publisher="CN=F1AD2494-0000-0000-0000-000000000000"`)
	require.Contains(t, string(content), `Version="1.2.3.0"`)
	require.Contains(t, string(content), "<DisplayName>Sample App</DisplayName>")
	require.Contains(t, string(content), "<PublisherDisplayName>Contoso Ltd</PublisherDisplayName>")
	// Untouched elements survive.
	require.Contains(t, string(content), `Assets\StoreLogo.png`)
}

func TestAppxManifestApplyIsIdempotent(t *testing.T) {
	path := writeTemp(t, "Package.appxmanifest", sampleAppxManifest)

	m, err := LoadAppxManifest(path)
	require.NoError(t, err)
	require.NoError(t, m.Apply(testIdentity))
	require.NoError(t, m.Save())

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	m, err = LoadAppxManifest(path)
	require.NoError(t, err)
	require.NoError(t, m.Apply(testIdentity))
	require.NoError(t, m.Save())

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

const sampleMauiCsproj = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFrameworks>net8.0-windows10.0.19041.0</TargetFrameworks>
    <UseMaui>true</UseMaui>
    <ApplicationTitle>MyApp</ApplicationTitle>
  </PropertyGroup>
</Project>
`

func TestCsprojApply(t *testing.T) {
	path := writeTemp(t, "App.csproj", sampleMauiCsproj)

	p, err := LoadCsproj(path)
	require.NoError(t, err)
	require.True(t, p.UsesMaui())
	require.False(t, p.UsesWindowsAppSDK())
	require.False(t, p.IsConfigured(testIdentity))

	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	p, err = LoadCsproj(path)
	require.NoError(t, err)
	require.True(t, p.IsConfigured(testIdentity))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "<ApplicationTitle>Sample App</ApplicationTitle>")
	require.Contains(t, string(content), "<ApplicationId>12345Contoso.SampleApp</ApplicationId>")
}

func TestCsprojApplyIsIdempotent(t *testing.T) {
	path := writeTemp(t, "App.csproj", sampleMauiCsproj)

	p, err := LoadCsproj(path)
	require.NoError(t, err)
	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	p, err = LoadCsproj(path)
	require.NoError(t, err)
	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestCsprojUsesWindowsAppSDK(t *testing.T) {
	path := writeTemp(t, "App.csproj", `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <PackageReference Include="Microsoft.WindowsAppSDK" Version="1.4.0" />
  </ItemGroup>
</Project>
`)

	p, err := LoadCsproj(path)
	require.NoError(t, err)
	require.True(t, p.UsesWindowsAppSDK())
	require.False(t, p.UsesMaui())
}

const samplePackageJson = `{
  "name": "my-electron-app",
  "version": "0.1.0",
  "devDependencies": {
    "electron": "^28.0.0",
    "electron-builder": "^24.0.0"
  },
  "build": {
    "win": {
      "target": ["nsis"]
    }
  }
}
`

func TestPackageJsonApply(t *testing.T) {
	path := writeTemp(t, "package.json", samplePackageJson)

	p, err := LoadPackageJson(path)
	require.NoError(t, err)
	require.Equal(t, "my-electron-app", p.Name())
	require.True(t, p.HasDependency("electron-builder"))
	require.False(t, p.HasDependency("react-native"))
	require.False(t, p.IsConfigured(testIdentity))

	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	p, err = LoadPackageJson(path)
	require.NoError(t, err)
	require.True(t, p.IsConfigured(testIdentity))
	require.True(t, p.hasWinAppxTarget())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), `"identityName":"12345Contoso.SampleApp"`)
	// The existing nsis target stays; appx is appended.
	require.Contains(t, string(content), `"nsis"`)
}

func TestPackageJsonApplyIsIdempotent(t *testing.T) {
	path := writeTemp(t, "package.json", samplePackageJson)

	p, err := LoadPackageJson(path)
	require.NoError(t, err)
	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	p, err = LoadPackageJson(path)
	require.NoError(t, err)
	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

const samplePubspec = `name: my_flutter_app
description: A sample Flutter application.
version: 1.0.0+1

environment:
  sdk: ">=3.0.0 <4.0.0"

dependencies:
  flutter:
    sdk: flutter

dev_dependencies:
  msix: ^3.16.0
`

func TestPubspecApply(t *testing.T) {
	path := writeTemp(t, "pubspec.yaml", samplePubspec)

	p, err := LoadPubspec(path)
	require.NoError(t, err)
	require.Equal(t, "my_flutter_app", p.AppName())
	require.True(t, p.HasMsixDependency())
	require.False(t, p.IsConfigured(testIdentity))

	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	p, err = LoadPubspec(path)
	require.NoError(t, err)
	require.True(t, p.IsConfigured(testIdentity))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "msix_config:")
	require.Contains(t, string(content), "identity_name: 12345Contoso.SampleApp")
	require.Contains(t, string(content), "msix_version: 1.2.3.0")
	require.Contains(t, string(content), "store: true")
}

func TestPubspecApplyIsIdempotent(t *testing.T) {
	path := writeTemp(t, "pubspec.yaml", samplePubspec)

	p, err := LoadPubspec(path)
	require.NoError(t, err)
	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	p, err = LoadPubspec(path)
	require.NoError(t, err)
	require.NoError(t, p.Apply(testIdentity))
	require.NoError(t, p.Save())

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestNormalizeMsixVersion(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"1":       "1.0.0.0",
		"1.2":     "1.2.0.0",
		"1.2.3":   "1.2.3.0",
		"1.2.3.0": "1.2.3.0",
	}

	for in, want := range cases {
		require.Equal(t, want, normalizeMsixVersion(in), "input %q", in)
	}
}
