package identity

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/slack-go/slack"
)

// slackbotUserID is Slack's built-in bot account, excluded from listings.
const slackbotUserID = "USLACKBOT"

// DirectoryClient abstracts the part of slack.Client the directory relies on.
type DirectoryClient interface {
	GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
}

// User is a workspace member in the simplified shape the tooling prints and
// exports.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RealName    string `json:"real_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Directory queries the Slack workspace user list. Bots, deleted accounts
// and Slackbot are excluded from every result set.
type Directory struct {
	client DirectoryClient
	logger *log.Logger
}

// NewDirectory constructs a Directory around a Slack client.
func NewDirectory(client DirectoryClient, logger *log.Logger) *Directory {
	if logger == nil {
		logger = log.New(os.Stdout, "directory ", log.LstdFlags)
	}
	return &Directory{client: client, logger: logger}
}

// ListUsers fetches the full workspace directory, filtered to real accounts.
func (d *Directory) ListUsers(ctx context.Context) ([]User, error) {
	members, err := d.client.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users from Slack: %w", err)
	}

	users := make([]User, 0, len(members))
	for _, m := range members {
		if m.IsBot || m.Deleted || m.ID == slackbotUserID {
			continue
		}
		realName := m.RealName
		if realName == "" {
			realName = m.Name
		}
		displayName := m.Profile.DisplayName
		if displayName == "" {
			displayName = m.Name
		}
		users = append(users, User{
			ID:          m.ID,
			Name:        m.Name,
			RealName:    realName,
			DisplayName: displayName,
			Email:       m.Profile.Email,
		})
	}

	return users, nil
}

// FindByEmail looks a user up by exact email match. Returns nil when no
// user matches.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := d.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

// FindByName looks a user up by username, display name or real name.
// Exact matches win; otherwise the first substring match does. Matching is
// case-insensitive. Returns nil when no user matches.
func (d *Directory) FindByName(ctx context.Context, name string) (*User, error) {
	users, err := d.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)

	for i := range users {
		u := &users[i]
		if strings.ToLower(u.Name) == needle ||
			strings.ToLower(u.DisplayName) == needle ||
			strings.ToLower(u.RealName) == needle {
			return u, nil
		}
	}

	for i := range users {
		u := &users[i]
		if strings.Contains(strings.ToLower(u.Name), needle) ||
			strings.Contains(strings.ToLower(u.DisplayName), needle) ||
			strings.Contains(strings.ToLower(u.RealName), needle) {
			return u, nil
		}
	}

	return nil, nil
}

// SuggestedMapping builds a username-to-ID table from the directory for
// operator review. Keys are Slack usernames; operators are expected to
// replace them with the matching Favro usernames before use.
func (d *Directory) SuggestedMapping(ctx context.Context) (map[string]string, error) {
	users, err := d.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string, len(users))
	for _, u := range users {
		if u.Name == "" {
			continue
		}
		mapping[u.Name] = u.ID
	}
	return mapping, nil
}
