// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package npm

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

func TestDetectPackageManager(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, PackageManagerNpm, DetectPackageManager(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), nil, 0644))
	assert.Equal(t, PackageManagerYarn, DetectPackageManager(dir))
}

func TestHasDependency(t *testing.T) {
	dir := t.TempDir()

	runner := mockexec.NewMockCommandRunner()
	runner.When(func(args exec.RunArgs, command string) bool {
		return strings.Contains(command, "npm list react-native")
	}).Respond(exec.NewRunResult(0, "my-app@1.0.0\n└── react-native@0.73.0\n", ""))

	cli := NewCli(runner, nil)

	has, err := cli.HasDependency(context.Background(), dir, "react-native")
	require.NoError(t, err)
	assert.True(t, has)

	// Second lookup is served from the cache; no new process spawned.
	has, err = cli.HasDependency(context.Background(), dir, "react-native")
	require.NoError(t, err)
	assert.True(t, has)
	assert.Len(t, runner.Runs(), 1)
}

func TestHasDependencyNonZeroExitMeansAbsent(t *testing.T) {
	dir := t.TempDir()

	runner := mockexec.NewMockCommandRunner()
	runner.When(func(args exec.RunArgs, command string) bool {
		return strings.Contains(command, "npm list left-pad")
	}).SetError(exec.NewTestExitError("npm list left-pad --depth=0", 1, "(empty)"))

	cli := NewCli(runner, nil)

	has, err := cli.HasDependency(context.Background(), dir, "left-pad")
	require.NoError(t, err)
	assert.False(t, has)

	// The negative result is cached too.
	has, err = cli.HasDependency(context.Background(), dir, "left-pad")
	require.NoError(t, err)
	assert.False(t, has)
	assert.Len(t, runner.Runs(), 1)
}

func TestRunToolUsesPackageManager(t *testing.T) {
	dir := t.TempDir()

	t.Run("npm projects go through npx", func(t *testing.T) {
		runner := mockexec.NewMockCommandRunner()
		runner.When(func(args exec.RunArgs, command string) bool {
			return strings.HasPrefix(command, "npx --no-install electron-builder build")
		}).Respond(exec.NewRunResult(0, "done", ""))

		cli := NewCliWithPackageManager(runner, PackageManagerNpm, nil)

		res, err := cli.RunTool(context.Background(), dir, "electron-builder", "build")
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("yarn projects go through yarn run", func(t *testing.T) {
		runner := mockexec.NewMockCommandRunner()
		runner.When(func(args exec.RunArgs, command string) bool {
			return strings.HasPrefix(command, "yarn run electron-builder build")
		}).Respond(exec.NewRunResult(0, "done", ""))

		cli := NewCliWithPackageManager(runner, PackageManagerYarn, nil)

		res, err := cli.RunTool(context.Background(), dir, "electron-builder", "build")
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
	})
}
