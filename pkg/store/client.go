// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package store is the Partner Center submission API client used to
// upload and publish packages built by the CLI.
//
// API reference:
// https://learn.microsoft.com/en-us/windows/uwp/monetize/create-and-manage-submissions-using-windows-store-services
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

const (
	defaultEndpoint = "https://manage.devcenter.microsoft.com"
	apiScope        = "https://manage.devcenter.microsoft.com/.default"

	moduleName    = "msstore-cli"
	moduleVersion = "1.0.0"
)

// ClientOptions configure the submission API client.
type ClientOptions struct {
	azcore.ClientOptions

	// Endpoint overrides the Partner Center endpoint, primarily for tests.
	Endpoint string
}

// Client calls the Partner Center submission API.
type Client struct {
	endpoint string
	pipeline runtime.Pipeline
}

// NewClient creates a submission API client. A nil credential skips the
// bearer token policy, which only makes sense against a test endpoint.
func NewClient(credential azcore.TokenCredential, options *ClientOptions) (*Client, error) {
	if options == nil {
		options = &ClientOptions{}
	}

	endpoint := options.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	perRetry := []policy.Policy{}
	if credential != nil {
		perRetry = append(perRetry, runtime.NewBearerTokenPolicy(credential, []string{apiScope}, nil))
	}

	pipeline := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerCall:  []policy.Policy{newCorrelationPolicy()},
		PerRetry: perRetry,
	}, &options.ClientOptions)

	return &Client{
		endpoint: endpoint,
		pipeline: pipeline,
	}, nil
}

// GetApplications lists the seller's applications.
func (c *Client) GetApplications(ctx context.Context) ([]Application, error) {
	var apps []Application
	path := "/v1.0/my/applications?skip=0&top=100"

	// @nextLink values are relative paths like "applications?skip=100&top=100".
	for path != "" {
		var page ApplicationList
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}

		apps = append(apps, page.Value...)

		if page.NextLink == "" {
			break
		}
		path = "/v1.0/my/" + page.NextLink
	}

	return apps, nil
}

// GetApplication fetches a single application by its Store id.
func (c *Client) GetApplication(ctx context.Context, appID string) (*Application, error) {
	var app Application
	if err := c.do(ctx, http.MethodGet, "/v1.0/my/applications/"+appID, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// GetSubmission fetches a submission.
func (c *Client) GetSubmission(ctx context.Context, appID string, submissionID string) (*Submission, error) {
	var sub Submission
	err := c.do(ctx, http.MethodGet, submissionPath(appID, "", submissionID), nil, &sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubmission creates a new pending submission, cloned from the
// last published one by the service.
func (c *Client) CreateSubmission(ctx context.Context, appID string) (*Submission, error) {
	var sub Submission
	err := c.do(ctx, http.MethodPost, "/v1.0/my/applications/"+appID+"/submissions", nil, &sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateSubmission replaces the submission's content.
func (c *Client) UpdateSubmission(
	ctx context.Context,
	appID string,
	submissionID string,
	submission *Submission,
) (*Submission, error) {
	var updated Submission
	err := c.do(ctx, http.MethodPut, submissionPath(appID, "", submissionID), submission, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSubmission deletes a pending submission.
func (c *Client) DeleteSubmission(ctx context.Context, appID string, submissionID string) error {
	return c.do(ctx, http.MethodDelete, submissionPath(appID, "", submissionID), nil, nil)
}

// CommitSubmission commits the submission, which starts certification.
func (c *Client) CommitSubmission(ctx context.Context, appID string, submissionID string) (*SubmissionStatus, error) {
	var status SubmissionStatus
	err := c.do(ctx, http.MethodPost, submissionPath(appID, "", submissionID)+"/commit", nil, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetSubmissionStatus fetches the submission's current status.
func (c *Client) GetSubmissionStatus(
	ctx context.Context,
	appID string,
	submissionID string,
) (*SubmissionStatus, error) {
	var status SubmissionStatus
	err := c.do(ctx, http.MethodGet, submissionPath(appID, "", submissionID)+"/status", nil, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetAnySubmission returns the application's pending submission when one
// exists, otherwise it creates a new one.
func (c *Client) GetAnySubmission(ctx context.Context, app *Application) (*Submission, error) {
	if app.PendingApplicationSubmission != nil {
		return c.GetSubmission(ctx, app.Id, app.PendingApplicationSubmission.Id)
	}

	return c.CreateSubmission(ctx, app.Id)
}

// GetFlights lists the application's package flights.
func (c *Client) GetFlights(ctx context.Context, appID string) ([]Flight, error) {
	var page FlightList
	err := c.do(ctx, http.MethodGet, "/v1.0/my/applications/"+appID+"/listflights?skip=0&top=100", nil, &page)
	if err != nil {
		return nil, err
	}
	return page.Value, nil
}

// GetFlight fetches a single flight.
func (c *Client) GetFlight(ctx context.Context, appID string, flightID string) (*Flight, error) {
	var flight Flight
	err := c.do(ctx, http.MethodGet, "/v1.0/my/applications/"+appID+"/flights/"+flightID, nil, &flight)
	if err != nil {
		return nil, err
	}
	return &flight, nil
}

// GetFlightSubmission fetches a flight submission.
func (c *Client) GetFlightSubmission(
	ctx context.Context,
	appID string,
	flightID string,
	submissionID string,
) (*Submission, error) {
	var sub Submission
	err := c.do(ctx, http.MethodGet, submissionPath(appID, flightID, submissionID), nil, &sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateFlightSubmission creates a pending submission on a flight.
func (c *Client) CreateFlightSubmission(ctx context.Context, appID string, flightID string) (*Submission, error) {
	var sub Submission
	path := "/v1.0/my/applications/" + appID + "/flights/" + flightID + "/submissions"
	if err := c.do(ctx, http.MethodPost, path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateFlightSubmission replaces a flight submission's content.
func (c *Client) UpdateFlightSubmission(
	ctx context.Context,
	appID string,
	flightID string,
	submissionID string,
	submission *Submission,
) (*Submission, error) {
	var updated Submission
	err := c.do(ctx, http.MethodPut, submissionPath(appID, flightID, submissionID), submission, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CommitFlightSubmission commits a flight submission.
func (c *Client) CommitFlightSubmission(
	ctx context.Context,
	appID string,
	flightID string,
	submissionID string,
) (*SubmissionStatus, error) {
	var status SubmissionStatus
	err := c.do(ctx, http.MethodPost, submissionPath(appID, flightID, submissionID)+"/commit", nil, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// DeleteFlightSubmission deletes a pending flight submission.
func (c *Client) DeleteFlightSubmission(ctx context.Context, appID string, flightID string, submissionID string) error {
	return c.do(ctx, http.MethodDelete, submissionPath(appID, flightID, submissionID), nil, nil)
}

// GetFlightSubmissionStatus fetches a flight submission's status.
func (c *Client) GetFlightSubmissionStatus(
	ctx context.Context,
	appID string,
	flightID string,
	submissionID string,
) (*SubmissionStatus, error) {
	var status SubmissionStatus
	err := c.do(ctx, http.MethodGet, submissionPath(appID, flightID, submissionID)+"/status", nil, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func submissionPath(appID string, flightID string, submissionID string) string {
	if flightID != "" {
		return "/v1.0/my/applications/" + appID + "/flights/" + flightID + "/submissions/" + submissionID
	}
	return "/v1.0/my/applications/" + appID + "/submissions/" + submissionID
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	req, err := runtime.NewRequest(ctx, method, c.endpoint+path)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", method, path, err)
	}

	if body != nil {
		if err := runtime.MarshalAsJSON(req, body); err != nil {
			return fmt.Errorf("marshaling %s %s request: %w", method, path, err)
		}
	}

	response, err := c.pipeline.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if !runtime.HasStatusCode(response, http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent) {
		return runtime.NewResponseError(response)
	}

	if out == nil {
		return nil
	}

	payload, err := runtime.Payload(response)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}

	return nil
}
