// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fkatada/ms-msstore-cli/pkg/output"
)

func newFlightsCmd(deps *cliDeps) *cobra.Command {
	var appID string

	cmd := &cobra.Command{
		Use:   "flights",
		Short: "Work with the application's package flights",
	}

	cmd.PersistentFlags().StringVarP(&appID, "app-id", "a", "", "The Store Application ID")
	_ = cmd.MarkPersistentFlagRequired("app-id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the application's package flights",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			flights, err := client.GetFlights(ctx, appID)
			if err != nil {
				return err
			}

			if len(flights) == 0 {
				deps.console.Message(ctx, "No flights found.")
				return nil
			}

			for _, flight := range flights {
				deps.console.Message(ctx, fmt.Sprintf("%s  %s  groups: %s",
					output.WithHighLightFormat(flight.FlightId),
					flight.FriendlyName,
					strings.Join(flight.GroupIds, ", ")))
			}

			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <flight-id>",
		Short: "Show a single package flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			flight, err := client.GetFlight(ctx, appID, args[0])
			if err != nil {
				return err
			}

			deps.console.Message(ctx, fmt.Sprintf("%s  %s",
				output.WithHighLightFormat(flight.FlightId), flight.FriendlyName))
			if flight.PendingFlightSubmission != nil {
				deps.console.Message(ctx, fmt.Sprintf("  pending submission: %s", flight.PendingFlightSubmission.Id))
			}
			if flight.LastPublishedFlightSubmission != nil {
				deps.console.Message(ctx, fmt.Sprintf("  published submission: %s", flight.LastPublishedFlightSubmission.Id))
			}

			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}
