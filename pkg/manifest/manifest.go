// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package manifest patches Store identity into project manifests.
//
// Every patcher follows the same contract: load the file, set the known
// identity fields, and save while preserving all unrelated document
// content. Applying the same identity twice never changes the file a
// second time.
package manifest

// Identity is the Store identity written into a project manifest.
type Identity struct {
	// Name is the package identity name assigned by Partner Center,
	// e.g. "12345PublisherName.AppName".
	Name string
	// Publisher is the publisher certificate subject, e.g. "CN=...".
	Publisher string
	// PublisherDisplayName is the human readable publisher name.
	PublisherDisplayName string
	// AppName is the primary (reserved) app name.
	AppName string
	// AppID is the Store assigned application id, e.g. "9NBLGGH4R315".
	AppID string
	// Version is the package version to stamp, empty to leave unchanged.
	Version string
}
