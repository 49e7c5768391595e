// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package exec

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh based test")
	}

	runner := NewCommandRunner(nil)
	res, err := runner.Run(context.Background(), NewRunArgs("sh", "-c", "echo hello; echo oops 1>&2"))
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "hello\n", res.Stdout)
	require.Equal(t, "oops\n", res.Stderr)
}

func TestRunNonZeroExitReturnsExitError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh based test")
	}

	runner := NewCommandRunner(nil)
	res, err := runner.Run(context.Background(), NewRunArgs("sh", "-c", "echo broken 1>&2; exit 3"))

	require.Error(t, err)
	require.Equal(t, 3, res.ExitCode)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 3, exitErr.ExitCode)
	require.Contains(t, exitErr.StderrOutput(), "broken")
}

func TestRunMissingExecutable(t *testing.T) {
	runner := NewCommandRunner(nil)
	_, err := runner.Run(context.Background(), NewRunArgs("definitely-not-a-real-binary-12345"))
	require.Error(t, err)
}

func TestRunCancellationKillsProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sh based test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	runner := NewCommandRunner(nil)
	start := time.Now()
	_, err := runner.Run(ctx, NewRunArgs("sh", "-c", "sleep 30"))

	require.Error(t, err)
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestRedactSensitiveArgs(t *testing.T) {
	redacted := redactSensitiveArgs(
		[]string{"--client-id", "abc", "--secret-value", "s3cret"},
		[]string{"s3cret"})
	require.Equal(t, []string{"--client-id", "abc", "--secret-value", "<redacted>"}, redacted)
}

func TestRedactSensitiveData(t *testing.T) {
	msg := redactSensitiveData(`upload to https://host/container/blob?sv=1&sig=abc123&se=2`)
	require.NotContains(t, msg, "abc123")
	require.Contains(t, msg, "sig=<redacted>")
}
