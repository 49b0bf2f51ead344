package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "favrelay",
	Short: "Favrelay - relay Favro webhooks to Slack",
	Long: `Favrelay receives card and comment webhooks from Favro, verifies their
signatures, extracts user mentions from comment text, and notifies the
mentioned users over Slack direct messages.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listUsersCmd)
	rootCmd.AddCommand(exportMappingCmd)
}
