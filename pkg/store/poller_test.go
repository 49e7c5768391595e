// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package store

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollUntilCommittedReturnsImmediatelyWhenDone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/my/applications/APP1/submissions/SUB1/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, SubmissionStatus{Status: StatusPreProcessing})
	})

	client := newTestClient(t, mux)
	poller := NewSubmissionPollerWithClock(client, clock.NewMock(), time.Second)

	status, err := poller.PollUntilCommitted(context.Background(), "APP1", "", "SUB1")
	require.NoError(t, err)
	assert.Equal(t, StatusPreProcessing, status.Status)
}

func TestPollUntilCommittedWaitsOutCommitStarted(t *testing.T) {
	var calls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/my/applications/APP1/submissions/SUB1/status", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(t, w, SubmissionStatus{Status: StatusCommitStarted})
			return
		}
		writeJSON(t, w, SubmissionStatus{Status: StatusPublished})
	})

	client := newTestClient(t, mux)

	mockClock := clock.NewMock()
	poller := NewSubmissionPollerWithClock(client, mockClock, time.Second)

	done := make(chan struct{})
	var status *SubmissionStatus
	var pollErr error

	go func() {
		defer close(done)
		status, pollErr = poller.PollUntilCommitted(context.Background(), "APP1", "", "SUB1")
	}()

	// Drive the mock clock until the poller finishes.
	for {
		select {
		case <-done:
			require.NoError(t, pollErr)
			assert.Equal(t, StatusPublished, status.Status)
			assert.GreaterOrEqual(t, calls.Load(), int32(3))
			return
		default:
			time.Sleep(time.Millisecond)
			mockClock.Add(time.Second)
		}
	}
}

func TestPollUntilCommittedUsesFlightEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/my/applications/APP1/flights/FL1/submissions/SUB1/status",
		func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, SubmissionStatus{Status: StatusCertification})
		})

	client := newTestClient(t, mux)
	poller := NewSubmissionPollerWithClock(client, clock.NewMock(), time.Second)

	status, err := poller.PollUntilCommitted(context.Background(), "APP1", "FL1", "SUB1")
	require.NoError(t, err)
	assert.Equal(t, StatusCertification, status.Status)
}
