// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripAnsi(t *testing.T) {
	assert.Equal(t, "building target=AppX", StripAnsi("\x1b[32mbuilding\x1b[0m target=AppX"))
	assert.Equal(t, "plain", StripAnsi("plain"))
}

func TestFromElectronBuilderOutput(t *testing.T) {
	stdout := "  • electron-builder  version=24.6.4\n" +
		"  • building        \x1b[36mtarget=AppX\x1b[0m file=dist/my-app.appx arch=x64\n" +
		"  • building embedded block map  file=dist/my-app.appx\n"

	art, err := FromElectronBuilderOutput(stdout, "/work")
	require.NoError(t, err)
	require.Len(t, art.Files, 1)
	assert.Equal(t, filepath.Join("/work", "dist", "my-app.appx"), art.Files[0])
}

func TestFromElectronBuilderOutputNoMarker(t *testing.T) {
	_, err := FromElectronBuilderOutput("  • building target=nsis file=dist/setup.exe\n", "/work")
	require.ErrorIs(t, err, ErrNoArtifact)
}

func TestFromFlutterMsixOutput(t *testing.T) {
	t.Run("created marker", func(t *testing.T) {
		stdout := "Building msix...\nmsix created: build\\windows\\x64\\runner\\Release\\my_app.msix\n"

		art, err := FromFlutterMsixOutput(stdout, "")
		require.NoError(t, err)
		require.Len(t, art.Files, 1)
		assert.True(t, HasPackageExtension(art.Files[0]))
	})

	t.Run("arrow marker", func(t *testing.T) {
		stdout := "my_app -> build/windows/my_app.msix\n"

		art, err := FromFlutterMsixOutput(stdout, "/proj")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/proj", "build", "windows", "my_app.msix"), art.Files[0])
	})

	t.Run("no marker", func(t *testing.T) {
		_, err := FromFlutterMsixOutput("Building msix...\ndone\n", "")
		require.ErrorIs(t, err, ErrNoArtifact)
	})
}

func TestFromOutputDirPrefersUploadBundles(t *testing.T) {
	dir := t.TempDir()
	inner := filepath.Join(dir, "MyApp_1.2.3.0_Test")
	require.NoError(t, os.MkdirAll(inner, 0755))

	for _, name := range []string{"MyApp_1.2.3.0_x64.msix", "MyApp_1.2.3.0_x64_bundle.msixupload"} {
		require.NoError(t, os.WriteFile(filepath.Join(inner, name), []byte("pkg"), 0644))
	}

	art, err := FromOutputDir(dir)
	require.NoError(t, err)
	require.Len(t, art.Files, 1)
	assert.Equal(t, filepath.Join(inner, "MyApp_1.2.3.0_x64_bundle.msixupload"), art.Files[0])
}

func TestFromOutputDirFallsBackToPackages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyApp.msix"), []byte("pkg"), 0644))

	art, err := FromOutputDir(dir)
	require.NoError(t, err)
	require.Len(t, art.Files, 1)
	assert.Equal(t, filepath.Join(dir, "MyApp.msix"), art.Files[0])
}

func TestFromOutputDirEmpty(t *testing.T) {
	_, err := FromOutputDir(t.TempDir())
	require.ErrorIs(t, err, ErrNoArtifact)
}
