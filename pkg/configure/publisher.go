// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fkatada/ms-msstore-cli/pkg/input"
	"github.com/fkatada/ms-msstore-cli/pkg/output"
	"github.com/fkatada/ms-msstore-cli/pkg/store"
)

// SubmissionPublisher drives the full publish flow for an already built
// set of packages: fetch or create the pending submission, swap its
// packages for the new ones, upload, commit, and wait for the commit to
// finish processing.
type SubmissionPublisher struct {
	client   *store.Client
	uploader store.PackageUploader
	poller   *store.SubmissionPoller
	console  input.Console
}

func NewSubmissionPublisher(
	client *store.Client,
	uploader store.PackageUploader,
	poller *store.SubmissionPoller,
	console input.Console,
) *SubmissionPublisher {
	return &SubmissionPublisher{
		client:   client,
		uploader: uploader,
		poller:   poller,
		console:  console,
	}
}

// Publish uploads the package files into the app's pending submission
// (or the flight's, when flightID is set) and commits it. It returns
// once the service has finished processing the commit.
func (p *SubmissionPublisher) Publish(
	ctx context.Context,
	appID string,
	flightID string,
	packageFiles []string,
) error {
	if len(packageFiles) == 0 {
		return fmt.Errorf("no packages to publish")
	}

	app, err := p.client.GetApplication(ctx, appID)
	if err != nil {
		return fmt.Errorf("fetching application %s: %w", appID, err)
	}

	p.console.Message(ctx, fmt.Sprintf("Publishing %s (%s)", app.PrimaryName, output.WithHighLightFormat(app.Id)))

	submission, err := p.pendingSubmission(ctx, app, flightID)
	if err != nil {
		return err
	}

	// Existing packages stay published until the new ones clear
	// certification; marking them PendingDelete hands the swap to the
	// service.
	for i := range submission.ApplicationPackages {
		submission.ApplicationPackages[i].FileStatus = store.FileStatusPendingDelete
	}

	for _, file := range packageFiles {
		submission.ApplicationPackages = append(submission.ApplicationPackages, store.ApplicationPackage{
			FileName:   filepath.Base(file),
			FileStatus: store.FileStatusPendingUpload,
		})
		p.console.Message(ctx, fmt.Sprintf("Uploading %s", output.WithHighLightFormat(filepath.Base(file))))
	}

	submission, err = p.updateSubmission(ctx, app.Id, flightID, submission)
	if err != nil {
		return fmt.Errorf("updating submission: %w", err)
	}

	if submission.FileUploadUrl == "" {
		return fmt.Errorf("submission %s has no file upload url", submission.Id)
	}

	if err := p.uploader.Upload(ctx, submission.FileUploadUrl, packageFiles); err != nil {
		return err
	}

	if err := p.commitSubmission(ctx, app.Id, flightID, submission.Id); err != nil {
		return fmt.Errorf("committing submission %s: %w", submission.Id, err)
	}

	p.console.Message(ctx, output.WithSuccessFormat("Submission commit success!"))

	status, err := p.poller.PollUntilCommitted(ctx, app.Id, flightID, submission.Id)
	if err != nil {
		return err
	}

	if status.Status == store.StatusCommitFailed || status.Status == store.StatusPublishFailed {
		return fmt.Errorf("submission %s failed: %s%s", submission.Id, status.Status, formatDetails(status.StatusDetails))
	}

	p.console.Message(ctx, fmt.Sprintf("Submission %s is now in status %s.",
		submission.Id, output.WithHighLightFormat(status.Status)))

	return nil
}

func (p *SubmissionPublisher) pendingSubmission(
	ctx context.Context,
	app *store.Application,
	flightID string,
) (*store.Submission, error) {
	if flightID == "" {
		return p.client.GetAnySubmission(ctx, app)
	}

	flight, err := p.client.GetFlight(ctx, app.Id, flightID)
	if err != nil {
		return nil, fmt.Errorf("fetching flight %s: %w", flightID, err)
	}

	if flight.PendingFlightSubmission != nil {
		return p.client.GetFlightSubmission(ctx, app.Id, flightID, flight.PendingFlightSubmission.Id)
	}

	return p.client.CreateFlightSubmission(ctx, app.Id, flightID)
}

func (p *SubmissionPublisher) updateSubmission(
	ctx context.Context,
	appID string,
	flightID string,
	submission *store.Submission,
) (*store.Submission, error) {
	if flightID == "" {
		return p.client.UpdateSubmission(ctx, appID, submission.Id, submission)
	}
	return p.client.UpdateFlightSubmission(ctx, appID, flightID, submission.Id, submission)
}

func (p *SubmissionPublisher) commitSubmission(
	ctx context.Context,
	appID string,
	flightID string,
	submissionID string,
) error {
	var err error
	if flightID == "" {
		_, err = p.client.CommitSubmission(ctx, appID, submissionID)
	} else {
		_, err = p.client.CommitFlightSubmission(ctx, appID, flightID, submissionID)
	}
	return err
}

func formatDetails(details *store.StatusDetails) string {
	if details == nil || len(details.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, e := range details.Errors {
		fmt.Fprintf(&sb, "\n  %s: %s", e.Code, e.Details)
	}
	return sb.String()
}
