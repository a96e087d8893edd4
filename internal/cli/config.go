package cli

import (
	"github.com/spf13/cobra"

	"github.com/Azhovan/formguard/config"
)

func newConfigCommand(a *app) *cobra.Command {
	var showSources bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Config prints every setting after defaults, the config file and
FORMGUARD_* environment variables have been applied. Secrets are redacted.`,
		Example: `  formguard config --sources
  FORMGUARD_RETRY__MAX_RETRIES=5 formguard config --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []config.DumpOption
			if showSources {
				opts = append(opts, config.WithSources())
			}
			if a.jsonOut {
				opts = append(opts, config.AsJSON())
			}
			return config.Dump(cmd.OutOrStdout(), a.cfg, opts...)
		},
	}

	cmd.Flags().BoolVar(&showSources, "sources", false, "Show where each value came from")
	return cmd
}
