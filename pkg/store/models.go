// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package store

// Application is a Partner Center application as returned by the
// submission API.
type Application struct {
	Id                  string `json:"id"`
	PrimaryName         string `json:"primaryName"`
	PackageFamilyName   string `json:"packageFamilyName"`
	PackageIdentityName string `json:"packageIdentityName"`
	PublisherName       string `json:"publisherName"`
	FirstPublishedDate  string `json:"firstPublishedDate,omitempty"`

	LastPublishedApplicationSubmission *SubmissionRef `json:"lastPublishedApplicationSubmission,omitempty"`
	PendingApplicationSubmission       *SubmissionRef `json:"pendingApplicationSubmission,omitempty"`
}

// ApplicationList is the paged envelope for application queries.
type ApplicationList struct {
	Value      []Application `json:"value"`
	TotalCount int           `json:"totalCount"`
	NextLink   string        `json:"@nextLink,omitempty"`
}

// SubmissionRef is a pointer to a submission resource.
type SubmissionRef struct {
	Id               string `json:"id"`
	ResourceLocation string `json:"resourceLocation"`
}

// Submission is a Partner Center submission. Only the fields the CLI
// reads and writes are modeled; the raw payload round-trips through
// UpdateSubmission untouched otherwise.
type Submission struct {
	Id                  string               `json:"id"`
	Status              string               `json:"status,omitempty"`
	StatusDetails       *StatusDetails       `json:"statusDetails,omitempty"`
	FileUploadUrl       string               `json:"fileUploadUrl,omitempty"`
	ApplicationPackages []ApplicationPackage `json:"applicationPackages,omitempty"`
}

// ApplicationPackage is one package within a submission.
type ApplicationPackage struct {
	Id           string `json:"id,omitempty"`
	FileName     string `json:"fileName"`
	FileStatus   string `json:"fileStatus"`
	Version      string `json:"version,omitempty"`
	Architecture string `json:"architecture,omitempty"`
}

// Package file statuses understood by the submission API.
const (
	FileStatusNone          = "None"
	FileStatusPendingUpload = "PendingUpload"
	FileStatusUploaded      = "Uploaded"
	FileStatusPendingDelete = "PendingDelete"
)

// StatusDetails carries the errors/warnings attached to a submission.
type StatusDetails struct {
	Errors   []CodeAndDetails `json:"errors,omitempty"`
	Warnings []CodeAndDetails `json:"warnings,omitempty"`
}

type CodeAndDetails struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// SubmissionStatus is the response of the submission status endpoint.
type SubmissionStatus struct {
	Status        string         `json:"status"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
}

// Submission statuses the CLI inspects. The API defines more; anything
// not listed is treated as in-flight.
const (
	StatusCommitStarted = "CommitStarted"
	StatusCommitFailed  = "CommitFailed"
	StatusPendingCommit = "PendingCommit"
	StatusPreProcessing = "PreProcessing"
	StatusCertification = "Certification"
	StatusRelease       = "Release"
	StatusPublished     = "Published"
	StatusPublishFailed = "PublishFailed"
)

// Flight is a staged submission channel distinct from the main public
// submission.
type Flight struct {
	FlightId       string   `json:"flightId"`
	FriendlyName   string   `json:"friendlyName"`
	GroupIds       []string `json:"groupIds,omitempty"`
	RankHigherThan string   `json:"rankHigherThan,omitempty"`

	LastPublishedFlightSubmission *SubmissionRef `json:"lastPublishedFlightSubmission,omitempty"`
	PendingFlightSubmission       *SubmissionRef `json:"pendingFlightSubmission,omitempty"`
}

// FlightList is the paged envelope for flight queries.
type FlightList struct {
	Value      []Flight `json:"value"`
	TotalCount int      `json:"totalCount"`
	NextLink   string   `json:"@nextLink,omitempty"`
}
