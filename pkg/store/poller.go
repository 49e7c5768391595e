// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sethvargo/go-retry"
)

// SubmissionPoller waits for a committed submission to leave the
// CommitStarted state. The clock is injectable so tests do not sleep.
type SubmissionPoller struct {
	client   *Client
	clock    clock.Clock
	interval time.Duration
}

// maxPollDuration bounds the wait; Partner Center commits normally
// finish within minutes.
const maxPollDuration = 2 * time.Hour

func NewSubmissionPoller(client *Client) *SubmissionPoller {
	return &SubmissionPoller{
		client:   client,
		clock:    clock.New(),
		interval: 10 * time.Second,
	}
}

// NewSubmissionPollerWithClock creates a poller on the supplied clock,
// for tests.
func NewSubmissionPollerWithClock(client *Client, clk clock.Clock, interval time.Duration) *SubmissionPoller {
	return &SubmissionPoller{
		client:   client,
		clock:    clk,
		interval: interval,
	}
}

// PollUntilCommitted polls the submission status until the commit has
// finished processing, then returns the final status. flightID may be
// empty for a regular application submission.
func (p *SubmissionPoller) PollUntilCommitted(
	ctx context.Context,
	appID string,
	flightID string,
	submissionID string,
) (*SubmissionStatus, error) {
	deadline := p.clock.Now().Add(maxPollDuration)

	for {
		status, err := p.fetchStatus(ctx, appID, flightID, submissionID)
		if err != nil {
			return nil, fmt.Errorf("polling submission %s status: %w", submissionID, err)
		}

		if status.Status != StatusCommitStarted {
			return status, nil
		}

		if p.clock.Now().After(deadline) {
			return nil, fmt.Errorf("submission %s still committing after %s", submissionID, maxPollDuration)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.clock.After(p.interval):
		}
	}
}

// fetchStatus reads the submission status, retrying transient failures
// so a blip does not abort a multi-minute wait.
func (p *SubmissionPoller) fetchStatus(
	ctx context.Context,
	appID string,
	flightID string,
	submissionID string,
) (*SubmissionStatus, error) {
	var status *SubmissionStatus

	backoff := retry.WithMaxRetries(3, retry.NewExponential(time.Second))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		if flightID != "" {
			status, err = p.client.GetFlightSubmissionStatus(ctx, appID, flightID, submissionID)
		} else {
			status, err = p.client.GetSubmissionStatus(ctx, appID, submissionID)
		}
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return status, nil
}
