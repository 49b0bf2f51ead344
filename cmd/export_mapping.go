package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/favrelay/favrelay/internal/config"
	"github.com/favrelay/favrelay/internal/identity"
)

var mappingOutputPath string

var exportMappingCmd = &cobra.Command{
	Use:   "export-mapping",
	Short: "Export a suggested user mapping file from the Slack directory",
	Long: `
Fetch the Slack workspace directory and write a suggested mapping of
usernames to Slack user IDs as JSON. Review the file, replace the keys with
the matching Favro usernames, then point USER_MAPPING_FILE at it.
`,
	RunE: runExportMapping,
}

func init() {
	exportMappingCmd.Flags().StringVarP(&mappingOutputPath, "output", "o", "suggested-user-mapping.json", "Path of the mapping file to write")
}

func runExportMapping(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.SlackBotToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN is required: set it in the environment or .env file")
	}

	directory := identity.NewDirectory(slack.New(cfg.SlackBotToken), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mapping, err := directory.SuggestedMapping(ctx)
	if err != nil {
		return fmt.Errorf("failed to build suggested mapping: %w", err)
	}

	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	if err := os.WriteFile(mappingOutputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping file: %w", err)
	}

	fmt.Printf("Suggested user mapping with %d entries saved to: %s\n", len(mapping), mappingOutputPath)
	fmt.Println("Replace the keys with the matching Favro usernames and set USER_MAPPING_FILE to use it.")
	return nil
}
