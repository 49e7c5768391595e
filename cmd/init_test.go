// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkatada/ms-msstore-cli/pkg/configure"
	"github.com/fkatada/ms-msstore-cli/test/mocks/mockexec"
)

func writeUwpProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Package.appxmanifest"), []byte(`<?xml version="1.0" encoding="utf-8"?>
<Package>
  <Identity Name="MyCompany.MyApp" Publisher="CN=Dev" Version="1.0.0.0" />
  <Properties>
    <DisplayName>MyApp</DisplayName>
    <PublisherDisplayName>MyCompany</PublisherDisplayName>
  </Properties>
</Package>
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "App.sln"),
		[]byte("Microsoft Visual Studio Solution File"), 0644))

	return dir
}

// init --package configures the project and then chains into packaging;
// on a non-Windows host the chained build step fails with the
// Windows-only error while the configuration has already been applied.
func TestInitPackageChainFailsOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("packaging is supported on windows")
	}

	projectDir := writeUwpProject(t)

	fake := &fakeSubmissionServer{t: t}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	var out bytes.Buffer
	deps := newStoreTestDeps(t, &out, mockexec.NewMockCommandRunner(), server.URL, &recordingUploader{})

	cmd := newInitCmd(deps)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{projectDir, "--package", "--app-id", "9NBLGGH4R315"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)

	var windowsOnly *configure.WindowsOnlyError
	require.ErrorAs(t, err, &windowsOnly)
	assert.Equal(t, "This project type can only be packaged on Windows.", err.Error())

	// Configuration happened before the build step failed.
	content, err := os.ReadFile(filepath.Join(projectDir, "Package.appxmanifest"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `Name="12345Contoso.SampleApp"`)
	assert.Contains(t, out.String(), "Configured")
}

// Without --package or --publish, init stops after configuring and
// points at the next command.
func TestInitConfiguresOnlyByDefault(t *testing.T) {
	projectDir := writeUwpProject(t)

	fake := &fakeSubmissionServer{t: t}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	var out bytes.Buffer
	deps := newStoreTestDeps(t, &out, mockexec.NewMockCommandRunner(), server.URL, &recordingUploader{})

	cmd := newInitCmd(deps)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{projectDir, "--app-id", "9NBLGGH4R315"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "msstore package")
	assert.False(t, fake.committed)
}
