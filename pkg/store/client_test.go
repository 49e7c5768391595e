// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(nil, &ClientOptions{Endpoint: server.URL})
	require.NoError(t, err)

	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetApplicationsFollowsNextLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/my/applications", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("skip") {
		case "0":
			writeJSON(t, w, ApplicationList{
				Value:    []Application{{Id: "APP1", PrimaryName: "First"}},
				NextLink: "applications?skip=1&top=1",
			})
		case "1":
			writeJSON(t, w, ApplicationList{
				Value: []Application{{Id: "APP2", PrimaryName: "Second"}},
			})
		default:
			t.Fatalf("unexpected skip value: %s", r.URL.Query().Get("skip"))
		}
	})

	client := newTestClient(t, mux)

	apps, err := client.GetApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "APP1", apps[0].Id)
	assert.Equal(t, "APP2", apps[1].Id)
}

func TestGetApplicationsSendsCorrelationHeaders(t *testing.T) {
	var correlationID, requestID string

	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/my/applications", func(w http.ResponseWriter, r *http.Request) {
		correlationID = r.Header.Get("MS-CorrelationId")
		requestID = r.Header.Get("MS-RequestId")
		writeJSON(t, w, ApplicationList{})
	})

	client := newTestClient(t, mux)

	_, err := client.GetApplications(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, correlationID)
	assert.NotEmpty(t, requestID)
}

func TestGetAnySubmission(t *testing.T) {
	t.Run("returns pending submission", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1.0/my/applications/APP1/submissions/SUB1", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			writeJSON(t, w, Submission{Id: "SUB1", Status: StatusPendingCommit})
		})

		client := newTestClient(t, mux)

		sub, err := client.GetAnySubmission(context.Background(), &Application{
			Id:                           "APP1",
			PendingApplicationSubmission: &SubmissionRef{Id: "SUB1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "SUB1", sub.Id)
	})

	t.Run("creates when none pending", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1.0/my/applications/APP1/submissions", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(http.StatusCreated)
			writeJSON(t, w, Submission{Id: "SUB2", Status: StatusPendingCommit})
		})

		client := newTestClient(t, mux)

		sub, err := client.GetAnySubmission(context.Background(), &Application{Id: "APP1"})
		require.NoError(t, err)
		assert.Equal(t, "SUB2", sub.Id)
	})
}

func TestErrorStatusSurfacesResponseError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/my/applications/MISSING", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": "NotFound", "message": "Application not found."}`)
	})

	client := newTestClient(t, mux)

	_, err := client.GetApplication(context.Background(), "MISSING")

	var respErr *azcore.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
}

func TestDeleteSubmission(t *testing.T) {
	deleted := false

	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/my/applications/APP1/submissions/SUB1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, mux)

	require.NoError(t, client.DeleteSubmission(context.Background(), "APP1", "SUB1"))
	assert.True(t, deleted)
}
