// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fkatada/ms-msstore-cli/pkg/input"
	"github.com/fkatada/ms-msstore-cli/pkg/output"
	"github.com/fkatada/ms-msstore-cli/pkg/store"
)

// submissionTarget resolves the pending submission id for an app or
// flight, which every submission subcommand needs.
func submissionTarget(
	ctx context.Context,
	client *store.Client,
	appID string,
	flightID string,
) (string, error) {
	if flightID != "" {
		flight, err := client.GetFlight(ctx, appID, flightID)
		if err != nil {
			return "", fmt.Errorf("fetching flight %s: %w", flightID, err)
		}
		if flight.PendingFlightSubmission == nil {
			return "", fmt.Errorf("flight %s has no pending submission", flightID)
		}
		return flight.PendingFlightSubmission.Id, nil
	}

	app, err := client.GetApplication(ctx, appID)
	if err != nil {
		return "", fmt.Errorf("fetching application %s: %w", appID, err)
	}
	if app.PendingApplicationSubmission == nil {
		return "", fmt.Errorf("application %s has no pending submission", appID)
	}
	return app.PendingApplicationSubmission.Id, nil
}

func newSubmissionCmd(deps *cliDeps) *cobra.Command {
	var appID string
	var flightID string

	cmd := &cobra.Command{
		Use:   "submission",
		Short: "Work with the application's pending submission",
	}

	cmd.PersistentFlags().StringVarP(&appID, "app-id", "a", "", "The Store Application ID")
	cmd.PersistentFlags().StringVarP(&flightID, "flight-id", "f", "", "The package flight to target")
	_ = cmd.MarkPersistentFlagRequired("app-id")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the pending submission's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			submissionID, err := submissionTarget(ctx, client, appID, flightID)
			if err != nil {
				return err
			}

			var status *store.SubmissionStatus
			if flightID != "" {
				status, err = client.GetFlightSubmissionStatus(ctx, appID, flightID, submissionID)
			} else {
				status, err = client.GetSubmissionStatus(ctx, appID, submissionID)
			}
			if err != nil {
				return err
			}

			deps.console.Message(ctx, fmt.Sprintf("Submission %s: %s",
				submissionID, output.WithHighLightFormat(status.Status)))

			if status.StatusDetails != nil {
				for _, e := range status.StatusDetails.Errors {
					deps.console.Message(ctx, output.WithErrorFormat(fmt.Sprintf("  %s: %s", e.Code, e.Details)))
				}
				for _, w := range status.StatusDetails.Warnings {
					deps.console.Message(ctx, output.WithWarningFormat(fmt.Sprintf("  %s: %s", w.Code, w.Details)))
				}
			}

			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the pending submission as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			submissionID, err := submissionTarget(ctx, client, appID, flightID)
			if err != nil {
				return err
			}

			var submission *store.Submission
			if flightID != "" {
				submission, err = client.GetFlightSubmission(ctx, appID, flightID, submissionID)
			} else {
				submission, err = client.GetSubmission(ctx, appID, submissionID)
			}
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(submission, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding submission: %w", err)
			}

			deps.console.Message(ctx, string(encoded))
			return nil
		},
	}

	commitCmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit the pending submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			submissionID, err := submissionTarget(ctx, client, appID, flightID)
			if err != nil {
				return err
			}

			if flightID != "" {
				_, err = client.CommitFlightSubmission(ctx, appID, flightID, submissionID)
			} else {
				_, err = client.CommitSubmission(ctx, appID, submissionID)
			}
			if err != nil {
				return err
			}

			deps.console.Message(ctx, output.WithSuccessFormat("Submission commit success!"))
			return nil
		},
	}

	pollCmd := &cobra.Command{
		Use:   "poll",
		Short: "Wait for the pending submission's commit to finish",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			submissionID, err := submissionTarget(ctx, client, appID, flightID)
			if err != nil {
				return err
			}

			poller := store.NewSubmissionPoller(client)
			status, err := poller.PollUntilCommitted(ctx, appID, flightID, submissionID)
			if err != nil {
				return err
			}

			deps.console.Message(ctx, fmt.Sprintf("Submission %s: %s",
				submissionID, output.WithHighLightFormat(status.Status)))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the pending submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			submissionID, err := submissionTarget(ctx, client, appID, flightID)
			if err != nil {
				return err
			}

			confirmed, err := deps.console.Confirm(ctx, input.ConsoleOptions{
				Message:      fmt.Sprintf("Delete pending submission %s?", submissionID),
				DefaultValue: false,
			})
			if err != nil {
				return err
			}
			if !confirmed {
				return nil
			}

			if flightID != "" {
				err = client.DeleteFlightSubmission(ctx, appID, flightID, submissionID)
			} else {
				err = client.DeleteSubmission(ctx, appID, submissionID)
			}
			if err != nil {
				return err
			}

			deps.console.Message(ctx, fmt.Sprintf("Deleted submission %s.", submissionID))
			return nil
		},
	}

	cmd.AddCommand(statusCmd, getCmd, commitCmd, pollCmd, deleteCmd)
	return cmd
}
