// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fkatada/ms-msstore-cli/pkg/output"
)

func newAppsCmd(deps *cliDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Work with your Partner Center applications",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your Partner Center applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			apps, err := client.GetApplications(ctx)
			if err != nil {
				return err
			}

			if len(apps) == 0 {
				deps.console.Message(ctx, "No applications found.")
				return nil
			}

			for _, app := range apps {
				deps.console.Message(ctx, fmt.Sprintf("%s  %s  %s",
					output.WithHighLightFormat(app.Id),
					app.PrimaryName,
					app.PackageIdentityName))
			}

			return nil
		},
	}

	cmd.AddCommand(listCmd)
	return cmd
}
