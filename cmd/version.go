// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/spf13/cobra"
)

// Version is the CLI version, stamped at build time via
// -ldflags "-X github.com/fkatada/ms-msstore-cli/cmd.Version=...".
var Version = "1.0.0-dev"

func newVersionCmd(deps *cliDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of the Microsoft Store Developer CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps.console.Message(cmd.Context(), Version)
			return nil
		},
	}
}
