package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	envFiles   []string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "cookiesession",
		Short: "Stateless encrypted cookie sessions",
		Long: `cookiesession stores session data in a single encrypted, expiring cookie.

Configuration is read from SESSION_*, HTTP_* and LOG_* environment variables,
optional .env files and an optional YAML file (--config).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, ".env files to load before parsing the environment")

	cmd.AddCommand(
		serveCmd(flags),
		sealCmd(flags),
		openCmd(flags),
		keygenCmd(),
		selfcheckCmd(flags),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", version, commit)
		},
	}
}
