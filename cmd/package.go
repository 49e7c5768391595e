// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/artifact"
	"github.com/fkatada/ms-msstore-cli/pkg/configure"
	"github.com/fkatada/ms-msstore-cli/pkg/output"
)

func newPackageCmd(deps *cliDeps) *cobra.Command {
	var archs []string
	var version string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "package [path]",
		Short: "Build the project into a Store-ready package",
		Long: heredoc.Doc(`
			Runs the project type's packaging toolchain (MSBuild, dotnet
			publish, the msix pub package or electron-builder) and prints
			the produced package files.

			The project must already be configured; run 'msstore init' first.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			project, err := deps.detect(ctx, pathArg(args))
			if err != nil {
				return err
			}

			_, err = packageProject(ctx, deps, project, configure.PackageOptions{
				Archs:     archs,
				Version:   version,
				OutputDir: outputDir,
			})
			return err
		},
	}

	cmd.Flags().StringArrayVar(&archs, "arch", nil, "Target architecture (x64, x86, arm64); repeatable")
	cmd.Flags().StringVar(&version, "version", "", "The package version")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to receive the built packages")

	return cmd
}

// packageProject runs the project type's packager and reports the built
// files. Shared by package and publish.
func packageProject(
	ctx context.Context,
	deps *cliDeps,
	project *appdetect.ProjectDescriptor,
	options configure.PackageOptions,
) (*artifact.Artifact, error) {
	caps := configure.CapabilitiesFor(project.Type)
	if !caps.Package {
		return nil, &configure.PackageUnsupportedError{ProjectType: project.Type}
	}

	configurator, ok := deps.registry.For(project.Type)
	if !ok {
		return nil, &configure.PackageUnsupportedError{ProjectType: project.Type}
	}

	packager, ok := configurator.(configure.Packager)
	if !ok {
		return nil, &configure.PackageUnsupportedError{ProjectType: project.Type}
	}

	art, err := packager.Package(ctx, project, options)
	if err != nil {
		return nil, err
	}

	deps.console.Message(ctx, "The packaged app is here:")
	for _, file := range art.Files {
		deps.console.Message(ctx, fmt.Sprintf("  %s", output.WithHighLightFormat(file)))
	}

	return art, nil
}
