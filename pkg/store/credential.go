// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package store

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/fkatada/ms-msstore-cli/pkg/config"
)

// NewCredential builds the Entra ID credential used against the
// submission API. A configured client secret means an unattended
// (CI) flow; otherwise the user signs in through the browser.
func NewCredential(settings *config.Settings) (azcore.TokenCredential, error) {
	if settings.TenantId == "" || settings.ClientId == "" {
		return nil, fmt.Errorf(
			"missing Partner Center credentials. Set %s and %s (or run with a .env file) and try again",
			config.EnvTenantId, config.EnvClientId)
	}

	if settings.ClientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(
			settings.TenantId, settings.ClientId, settings.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("creating client secret credential: %w", err)
		}
		return cred, nil
	}

	cred, err := azidentity.NewInteractiveBrowserCredential(&azidentity.InteractiveBrowserCredentialOptions{
		TenantID: settings.TenantId,
		ClientID: settings.ClientId,
	})
	if err != nil {
		return nil, fmt.Errorf("creating interactive browser credential: %w", err)
	}

	return cred, nil
}
