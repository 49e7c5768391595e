// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appdetect

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/test/mocks/mockexec"
)

func writeFile(t *testing.T, dir string, name string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func detect(t *testing.T, pathOrUrl string, runner exec.CommandRunner) (*ProjectDescriptor, error) {
	t.Helper()
	return Detect(context.Background(), pathOrUrl, NewDetectors(runner, nil))
}

func TestDetectPWAFromUrl(t *testing.T) {
	project, err := detect(t, "https://contoso.example.com/app", nil)
	require.NoError(t, err)
	assert.Equal(t, PWA, project.Type)
	assert.Equal(t, "https://contoso.example.com/app", project.Root)
}

func TestDetectRawPackageFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MyApp.msixupload", "pkg")

	project, err := detect(t, filepath.Join(dir, "MyApp.msixupload"), nil)
	require.NoError(t, err)
	assert.Equal(t, RawPackage, project.Type)
	assert.Equal(t, filepath.Join(dir, "MyApp.msixupload"), project.ProjectFile)
}

func TestDetectUnknownFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "hello")

	_, err := detect(t, filepath.Join(dir, "notes.txt"), nil)

	var noMatch *ErrNoMatch
	require.ErrorAs(t, err, &noMatch)
}

func TestDetectEmptyDirectory(t *testing.T) {
	_, err := detect(t, t.TempDir(), nil)

	var noMatch *ErrNoMatch
	require.ErrorAs(t, err, &noMatch)
}

func TestDetectWinUI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "App.csproj", `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <PackageReference Include="Microsoft.WindowsAppSDK" Version="1.4.0" />
  </ItemGroup>
</Project>`)

	project, err := detect(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, WinUI, project.Type)
}

func TestDetectMaui(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "App.csproj", `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <UseMaui>true</UseMaui>
  </PropertyGroup>
</Project>`)

	project, err := detect(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, Maui, project.Type)
}

func TestDetectUWPPrefersSolution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Package.appxmanifest", "<Package />")
	writeFile(t, dir, "App.csproj", "<Project />")
	writeFile(t, dir, "App.sln", "Microsoft Visual Studio Solution File")

	project, err := detect(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, UWP, project.Type)
	assert.Equal(t, filepath.Join(dir, "App.sln"), project.ProjectFile)
}

func TestDetectFlutter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pubspec.yaml", "name: my_app\n")

	project, err := detect(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, Flutter, project.Type)
}

func TestDetectFlutterWinsOverNode(t *testing.T) {
	// Flutter plugin example apps ship a package.json next to pubspec.yaml;
	// the pubspec decides.
	dir := t.TempDir()
	writeFile(t, dir, "pubspec.yaml", "name: my_app\n")
	writeFile(t, dir, "package.json", `{"name": "my-app"}`)

	project, err := detect(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, Flutter, project.Type)
}

func TestDetectReactNativeDeclaredDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
  "name": "my-app",
  "dependencies": { "react-native": "0.73.0" }
}`)

	// No runner needed: a declared dependency skips the probe.
	project, err := detect(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, ReactNative, project.Type)
}

func TestDetectReactNativeResolvedByNpm(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "my-app"}`)

	runner := mockexec.NewMockCommandRunner()
	runner.When(func(args exec.RunArgs, command string) bool {
		return strings.Contains(command, "npm list react-native")
	}).Respond(exec.NewRunResult(0, "my-app@1.0.0\n└── react-native@0.73.0\n", ""))

	project, err := detect(t, dir, runner)
	require.NoError(t, err)
	assert.Equal(t, ReactNative, project.Type)
}

func TestDetectElectronWhenNoReactNative(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "my-app"}`)

	runner := mockexec.NewMockCommandRunner()
	runner.When(func(args exec.RunArgs, command string) bool {
		return strings.Contains(command, "npm list react-native")
	}).SetError(exec.NewTestExitError("npm list react-native --depth=0", 1, "(empty)"))

	project, err := detect(t, dir, runner)
	require.NoError(t, err)
	assert.Equal(t, Electron, project.Type)
}
