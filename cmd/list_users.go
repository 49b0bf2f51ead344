package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/favrelay/favrelay/internal/config"
	"github.com/favrelay/favrelay/internal/identity"
)

var listUsersCmd = &cobra.Command{
	Use:   "list-users",
	Short: "List Slack workspace users and their IDs",
	Long: `
Fetch the Slack workspace directory and print each user's ID, username,
full name and email. Bots, deleted accounts and Slackbot are excluded.

Use this to find the Slack user IDs to put in your user mapping file.
`,
	RunE: runListUsers,
}

func runListUsers(cmd *cobra.Command, args []string) error {
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

	fmt.Println("Fetching users from Slack workspace...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := directory.ListUsers(ctx)
	if err != nil {
		fmt.Println("\nPlease check that:")
		fmt.Println("1. You have set SLACK_BOT_TOKEN in your .env file")
		fmt.Println("2. Your token has the \"users:read\" and \"users:read.email\" scopes")
		fmt.Println("3. Your bot has been added to the workspace")
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users found in the workspace.")
		return nil
	}

	fmt.Printf("\nFound %d users in your Slack workspace:\n\n", len(users))
	fmt.Println("ID                | Username      | Full Name                    | Email")
	fmt.Println("------------------|---------------|------------------------------|------------------------")
	for _, u := range users {
		fmt.Printf("%-17s | %-13s | %-28s | %s\n", orNA(u.ID), orNA(u.Name), orNA(u.RealName), orNA(u.Email))
	}

	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
