// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package configure

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
)

// pwaConfigurator handles Progressive Web Apps. A PWA has no local
// manifest to patch and no local build; Configure only validates the URL
// so the identity association can be completed through Partner Center.
type pwaConfigurator struct{}

func NewPWAConfigurator() Configurator {
	return &pwaConfigurator{}
}

func (c *pwaConfigurator) Name() string {
	return string(appdetect.PWA)
}

func (c *pwaConfigurator) ProjectType() appdetect.ProjectType {
	return appdetect.PWA
}

func (c *pwaConfigurator) CanConfigure(ctx context.Context, project *appdetect.ProjectDescriptor) bool {
	return project.Type == appdetect.PWA
}

func (c *pwaConfigurator) Configure(
	ctx context.Context,
	project *appdetect.ProjectDescriptor,
	options ConfigureOptions,
) error {
	parsed, err := url.Parse(project.Root)
	if err != nil {
		return fmt.Errorf("parsing PWA url %s: %w", project.Root, err)
	}
	if parsed.Scheme != "https" {
		return fmt.Errorf("PWA url must use https, got %s", project.Root)
	}

	return nil
}
