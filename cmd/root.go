// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cmd assembles the msstore command tree.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fkatada/ms-msstore-cli/internal/appdetect"
	"github.com/fkatada/ms-msstore-cli/pkg/config"
	"github.com/fkatada/ms-msstore-cli/pkg/configure"
	"github.com/fkatada/ms-msstore-cli/pkg/exec"
	"github.com/fkatada/ms-msstore-cli/pkg/input"
	"github.com/fkatada/ms-msstore-cli/pkg/output"
	"github.com/fkatada/ms-msstore-cli/pkg/store"
	"github.com/fkatada/ms-msstore-cli/pkg/tools/npm"
)

// cliDeps is the shared dependency set handed to every command. It is
// built once in NewRootCmd so commands share the process-wide npm probe
// cache and command runner.
type cliDeps struct {
	console  input.Console
	runner   exec.CommandRunner
	cache    *npm.DependencyCache
	registry *configure.Registry

	// newStoreClient and newPublisher, when set, replace the default
	// Partner Center wiring. Tests point them at a local server.
	newStoreClient func(ctx context.Context) (*store.Client, error)
	newPublisher   func(client *store.Client) *configure.SubmissionPublisher
}

func (d *cliDeps) detect(ctx context.Context, pathOrUrl string) (*appdetect.ProjectDescriptor, error) {
	project, err := appdetect.Detect(ctx, pathOrUrl, appdetect.NewDetectors(d.runner, d.cache))
	if err != nil {
		return nil, err
	}

	d.console.Message(ctx, fmt.Sprintf("This seems to be a %s project. (%s)",
		output.WithHighLightFormat(string(project.Type)), project.DetectionRule))

	return project, nil
}

func (d *cliDeps) storeClient(ctx context.Context) (*store.Client, error) {
	if d.newStoreClient != nil {
		return d.newStoreClient(ctx)
	}

	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	credential, err := store.NewCredential(settings)
	if err != nil {
		return nil, err
	}

	return store.NewClient(credential, nil)
}

// publisher builds the submission publisher used by publish and the
// init --publish chain.
func (d *cliDeps) publisher(client *store.Client) *configure.SubmissionPublisher {
	if d.newPublisher != nil {
		return d.newPublisher(client)
	}

	return configure.NewSubmissionPublisher(
		client,
		store.NewPackageUploader(),
		store.NewSubmissionPoller(client),
		d.console,
	)
}

// appIdentity resolves the Store identity for appID, prompting for a
// selection from the seller's applications when appID is empty.
func (d *cliDeps) appIdentity(ctx context.Context, client *store.Client, appID string) (configure.AppIdentity, error) {
	var app *store.Application

	if appID == "" {
		apps, err := client.GetApplications(ctx)
		if err != nil {
			return configure.AppIdentity{}, err
		}
		if len(apps) == 0 {
			return configure.AppIdentity{}, fmt.Errorf(
				"no applications found; reserve an app name in Partner Center first: %s",
				output.WithLinkFormat("https://partner.microsoft.com/dashboard/apps-and-games/overview"))
		}

		names := make([]string, len(apps))
		for i, a := range apps {
			names[i] = fmt.Sprintf("%s (%s)", a.PrimaryName, a.Id)
		}

		selected, err := d.console.Select(ctx, input.ConsoleOptions{
			Message: "Which application should we use?",
			Options: names,
		})
		if err != nil {
			return configure.AppIdentity{}, err
		}

		app = &apps[selected]
	} else {
		var err error
		app, err = client.GetApplication(ctx, appID)
		if err != nil {
			return configure.AppIdentity{}, fmt.Errorf("fetching application %s: %w", appID, err)
		}
	}

	return configure.AppIdentity{
		AppID:                app.Id,
		AppName:              app.PrimaryName,
		PackageIdentityName:  app.PackageIdentityName,
		PublisherName:        app.PublisherName,
		PublisherDisplayName: publisherDisplayName(app.PublisherName),
	}, nil
}

// publisherDisplayName extracts a human readable name from a publisher
// certificate subject like "CN=Contoso Ltd".
func publisherDisplayName(publisher string) string {
	return strings.TrimPrefix(publisher, "CN=")
}

// pathArg resolves the optional positional path argument, defaulting to
// the current directory.
func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func bindGlobalFlags(flags *pflag.FlagSet, verbose *bool, cwd *string) {
	flags.BoolVarP(verbose, "verbose", "v", false, "Print verbose output to the console")
	flags.StringVarP(cwd, "cwd", "C", "", "Sets the current working directory")
}

// NewRootCmd builds the msstore command with all subcommands attached.
func NewRootCmd(console input.Console, runner exec.CommandRunner) *cobra.Command {
	var verbose bool
	var cwd string

	rootCmd := &cobra.Command{
		Use:           "msstore",
		Short:         "Microsoft Store Developer CLI",
		Long: heredoc.Doc(`
			Microsoft Store Developer CLI.

			Configures, packages and publishes Windows applications to the
			Microsoft Store, straight from the project directory.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				log.SetOutput(io.Discard)
			}
			if cwd != "" {
				if err := os.Chdir(cwd); err != nil {
					return fmt.Errorf("changing directory to %s: %w", cwd, err)
				}
			}
			return nil
		},
	}

	bindGlobalFlags(rootCmd.PersistentFlags(), &verbose, &cwd)

	if console == nil {
		console = input.NewConsole()
	}
	if runner == nil {
		runner = exec.NewCommandRunner(nil)
	}

	cache := npm.NewDependencyCache()
	deps := &cliDeps{
		console:  console,
		runner:   runner,
		cache:    cache,
		registry: configure.NewRegistry(runner, cache),
	}

	rootCmd.AddCommand(
		newInitCmd(deps),
		newPackageCmd(deps),
		newPublishCmd(deps),
		newReconfigureCmd(deps),
		newAppsCmd(deps),
		newSubmissionCmd(deps),
		newFlightsCmd(deps),
		newVersionCmd(deps),
	)

	return rootCmd
}
