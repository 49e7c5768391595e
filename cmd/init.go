// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/configure"
	"github.com/fkatada/ms-msstore-cli/pkg/output"
)

func newInitCmd(deps *cliDeps) *cobra.Command {
	var appID string
	var version string
	var flightID string
	var archs []string
	var outputDir string
	var doPackage bool
	var doPublish bool

	cmd := &cobra.Command{
		Use:   "init [pathOrUrl]",
		Short: "Configure an existing project for the Microsoft Store",
		Long: heredoc.Doc(`
			Detects the project type at the given path (or URL, for a PWA),
			and writes the Store identity of one of your Partner Center
			applications into the project's manifest.

			Pass --package to build the Store package right after
			configuring, or --publish to build and submit it to Partner
			Center in one go.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			project, err := deps.detect(ctx, pathArg(args))
			if err != nil {
				return err
			}

			identity, err := configureProject(ctx, deps, project, appID, version)
			if err != nil {
				return err
			}

			if !doPackage && !doPublish {
				deps.console.Message(ctx, fmt.Sprintf("You can now run %s to build the Store package.",
					output.WithBackticks("msstore package")))
				return nil
			}

			art, err := packageProject(ctx, deps, project, configure.PackageOptions{
				Identity:  identity,
				Archs:     archs,
				Version:   version,
				OutputDir: outputDir,
			})
			if err != nil {
				return err
			}

			if !doPublish {
				return nil
			}

			caps := configure.CapabilitiesFor(project.Type)
			if !caps.Publish {
				return &configure.PublishUnsupportedError{ProjectType: project.Type}
			}

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			return deps.publisher(client).Publish(ctx, identity.AppID, flightID, art.Files)
		},
	}

	cmd.Flags().StringVarP(&appID, "app-id", "a", "", "The Store Application ID to associate with")
	cmd.Flags().StringVar(&version, "version", "", "The version to stamp into the project's manifest")
	cmd.Flags().BoolVar(&doPackage, "package", false, "Build the Store package after configuring")
	cmd.Flags().BoolVar(&doPublish, "publish", false, "Build and publish the package after configuring")
	cmd.Flags().StringVarP(&flightID, "flight-id", "f", "", "The package flight to publish to")
	cmd.Flags().StringArrayVar(&archs, "arch", nil, "Target architecture (x64, x86, arm64); repeatable")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to receive the built packages")

	return cmd
}

// configureProject resolves the Store identity and runs the project
// type's configurator. It is shared by init, reconfigure and publish.
func configureProject(
	ctx context.Context,
	deps *cliDeps,
	project *appdetect.ProjectDescriptor,
	appID string,
	version string,
) (configure.AppIdentity, error) {
	caps := configure.CapabilitiesFor(project.Type)
	if !caps.Configure {
		return configure.AppIdentity{}, fmt.Errorf(
			"projects of type %s have nothing to configure", project.Type)
	}

	client, err := deps.storeClient(ctx)
	if err != nil {
		return configure.AppIdentity{}, err
	}

	identity, err := deps.appIdentity(ctx, client, appID)
	if err != nil {
		return configure.AppIdentity{}, err
	}

	configurator, ok := deps.registry.For(project.Type)
	if !ok {
		return configure.AppIdentity{}, fmt.Errorf("no configurator for project type %s", project.Type)
	}

	if !configurator.CanConfigure(ctx, project) {
		return configure.AppIdentity{}, fmt.Errorf(
			"the %s project at %s is not in a configurable state", project.Type, project.Root)
	}

	if err := configurator.Configure(ctx, project, configure.ConfigureOptions{
		Identity: identity,
		Version:  version,
	}); err != nil {
		return configure.AppIdentity{}, err
	}

	deps.console.Message(ctx, fmt.Sprintf("Configured %s for %s (%s).",
		output.WithHighLightFormat(string(project.Type)),
		identity.AppName,
		identity.AppID))

	return identity, nil
}
