// Package cli provides the command-line interface for samvad-bulletin.
package cli

import (
	"fmt"

	"github.com/samvad-hq/samvad-bulletin/internal/config"
	"github.com/spf13/cobra"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "bulletin",
	Short:         "Announce breaking news from summarizable stories",
	Long:          "bulletin fetches articles and short posts from configured providers and announces each one as a \"Breaking news!\" line on stdout and any other configured publisher.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bulletin %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before reading the environment (empty to skip)")
	rootCmd.AddCommand(versionCmd, demoCmd, onceCmd, runCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
