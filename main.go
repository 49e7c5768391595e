// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fkatada/ms-msstore-cli/cmd"
	"github.com/fkatada/ms-msstore-cli/pkg/configure"
	"github.com/fkatada/ms-msstore-cli/pkg/output"
)

// Exit codes surfaced to scripts driving the CLI. Anything else that
// fails exits with exitCodeFailure.
const (
	exitCodeFailure            = -1
	exitCodePackageUnsupported = -4
	exitCodePublishUnsupported = -5
	exitCodeWindowsOnly        = -6
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cmd.NewRootCmd(nil, nil)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, output.WithErrorFormat("ERROR: %s", err.Error()))
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var packageErr *configure.PackageUnsupportedError
	var publishErr *configure.PublishUnsupportedError
	var windowsErr *configure.WindowsOnlyError

	switch {
	case errors.As(err, &windowsErr):
		return exitCodeWindowsOnly
	case errors.As(err, &packageErr):
		return exitCodePackageUnsupported
	case errors.As(err, &publishErr):
		return exitCodePublishUnsupported
	default:
		return exitCodeFailure
	}
}
