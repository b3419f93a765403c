package cli

import (
	"github.com/spf13/cobra"
)

// annotationConfigOnly marks commands that need configuration but no store
const annotationConfigOnly = "servicepack/config-only"

// NewRootCmd creates the top-level "servicepack" command and registers all
// subcommands against app
func NewRootCmd(app *App) *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:           "servicepack",
		Short:         "Compose, price and manage maintenance service packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.loadConfig(opts); err != nil {
				return err
			}
			if configOnly(cmd) {
				return nil
			}
			return app.openServices(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return app.Close(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to servicepack.toml (default: search ., ./config, /etc/servicepack)")
	flags.StringVar(&opts.driver, "driver", "", "override store.driver (memory, sqlite, postgres, redis, s3)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	flags.BoolVarP(&opts.assumeYes, "yes", "y", false, "answer yes to every confirmation")
	flags.BoolVar(&opts.memoryFallback, "memory-fallback", false, "use the in-memory store when Redis is unreachable")

	root.AddCommand(
		newCatalogCmd(app),
		newTemplatesCmd(app),
		newBundlesCmd(app),
		newShowCmd(app),
		newPriceCmd(app),
		newComposeCmd(app),
		newCloneCmd(app),
		newDeleteCmd(app),
		newDeleteBundleCmd(app),
		NewMigrateCmd(app),
	)

	return root
}

func configOnly(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationConfigOnly]; ok {
			return true
		}
	}
	return false
}
