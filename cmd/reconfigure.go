// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func newReconfigureCmd(deps *cliDeps) *cobra.Command {
	var appID string
	var version string

	cmd := &cobra.Command{
		Use:   "reconfigure [path]",
		Short: "Re-associate the project with a Store application",
		Long: heredoc.Doc(`
			Rewrites the Store identity in the project's manifest, for
			example after transferring the app to another publisher or to
			point the project at a different application.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			project, err := deps.detect(ctx, pathArg(args))
			if err != nil {
				return err
			}

			_, err = configureProject(ctx, deps, project, appID, version)
			return err
		},
	}

	cmd.Flags().StringVarP(&appID, "app-id", "a", "", "The Store Application ID to associate with")
	cmd.Flags().StringVar(&version, "version", "", "The version to stamp into the project's manifest")

	return cmd
}
