// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/artifact"
	"github.com/fkatada/ms-msstore-cli/pkg/configure"
)

func newPublishCmd(deps *cliDeps) *cobra.Command {
	var appID string
	var flightID string
	var inputPath string
	var archs []string
	var version string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "publish [path]",
		Short: "Publish the project to the Microsoft Store",
		Long: heredoc.Doc(`
			Packages the project (unless the input is already a
			.msix/.msixupload file) and uploads it as a new submission to
			Partner Center, then commits the submission and waits for the
			commit to finish processing.

			Use --flight-id to target a package flight instead of the
			public submission.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := inputPath
			if path == "" {
				path = pathArg(args)
			}

			// An --input directory of prebuilt packages skips detection
			// and packaging; a directory without any packages falls
			// through and is treated as a project directory.
			if inputPath != "" {
				if info, err := os.Stat(inputPath); err == nil && info.IsDir() {
					art, err := artifact.FromOutputDir(inputPath)
					if err == nil {
						return publishPackages(ctx, deps, appID, flightID, art.Files)
					}
					if !errors.Is(err, artifact.ErrNoArtifact) {
						return err
					}
				}
			}

			project, err := deps.detect(ctx, path)
			if err != nil {
				return err
			}

			caps := configure.CapabilitiesFor(project.Type)
			if !caps.Publish {
				return &configure.PublishUnsupportedError{ProjectType: project.Type}
			}

			client, err := deps.storeClient(ctx)
			if err != nil {
				return err
			}

			identity, err := deps.appIdentity(ctx, client, appID)
			if err != nil {
				return err
			}

			var packageFiles []string
			if project.Type == appdetect.RawPackage {
				packageFiles = []string{project.ProjectFile}
			} else {
				configurator, ok := deps.registry.For(project.Type)
				if !ok {
					return &configure.PublishUnsupportedError{ProjectType: project.Type}
				}

				if err := configurator.Configure(ctx, project, configure.ConfigureOptions{
					Identity: identity,
					Version:  version,
				}); err != nil {
					return err
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

				packageFiles = art.Files
			}

			return deps.publisher(client).Publish(ctx, identity.AppID, flightID, packageFiles)
		},
	}

	cmd.Flags().StringVarP(&appID, "app-id", "a", "", "The Store Application ID to publish to")
	cmd.Flags().StringVarP(&flightID, "flight-id", "f", "", "The package flight to publish to")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "A project directory, a prebuilt package file, or a directory of prebuilt packages")
	cmd.Flags().StringArrayVar(&archs, "arch", nil, "Target architecture (x64, x86, arm64); repeatable")
	cmd.Flags().StringVar(&version, "version", "", "The package version")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to receive the built packages")

	return cmd
}

// publishPackages resolves the target application and hands already
// built package files to the submission publisher.
func publishPackages(
	ctx context.Context,
	deps *cliDeps,
	appID string,
	flightID string,
	packageFiles []string,
) error {
	client, err := deps.storeClient(ctx)
	if err != nil {
		return err
	}

	identity, err := deps.appIdentity(ctx, client, appID)
	if err != nil {
		return err
	}

	return deps.publisher(client).Publish(ctx, identity.AppID, flightID, packageFiles)
}
