// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package store

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/google/uuid"
)

// See https://github.com/Azure/azure-resource-manager-rpc/blob/master/v1.0/common-api-details.md#client-request-headers
const msCorrelationIdHeader = "MS-CorrelationId"
const msRequestIdHeader = "MS-RequestId"

// correlationPolicy sets the Partner Center correlation headers: one id
// for the whole CLI invocation and a fresh one per request.
type correlationPolicy struct {
	correlationId string
}

func newCorrelationPolicy() policy.Policy {
	return &correlationPolicy{
		correlationId: uuid.NewString(),
	}
}

func (p *correlationPolicy) Do(req *policy.Request) (*http.Response, error) {
	rawRequest := req.Raw()
	rawRequest.Header.Set(msCorrelationIdHeader, p.correlationId)
	rawRequest.Header.Set(msRequestIdHeader, uuid.NewString())

	return req.Next()
}
