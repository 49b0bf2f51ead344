// Package notifier delivers mention notifications as Slack direct messages.
package notifier

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/slack-go/slack"

	"github.com/favrelay/favrelay/internal/comment"
	"github.com/favrelay/favrelay/internal/identity"
	"github.com/favrelay/favrelay/internal/types"
)

// Template selects the message wording for a notification batch.
type Template int

const (
	// TemplateCommentCreated is used when a new comment mentions users.
	TemplateCommentCreated Template = iota
	// TemplateCommentUpdated is used when an edited comment mentions users.
	TemplateCommentUpdated
)

// SlackClient abstracts the part of slack.Client the notifier relies on.
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier fans a mention list out as direct messages. A nil client leaves
// the notifier uninitialized: every notify call is a no-op returning zero.
type Notifier struct {
	client   SlackClient
	resolver *identity.Resolver
	limiter  *RateLimiter
	logger   *log.Logger
}

// New constructs a Notifier. client may be nil when no bot token is
// configured; resolver must not be nil.
func New(client SlackClient, resolver *identity.Resolver, logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.New(os.Stdout, "notifier ", log.LstdFlags)
	}
	if client == nil {
		logger.Println("WARNING: Slack client is not configured. Slack notifications are disabled.")
	}
	return &Notifier{client: client, resolver: resolver, logger: logger}
}

// SetRateLimiter installs an outbound rate limiter. Without one, sends are
// unthrottled.
func (n *Notifier) SetRateLimiter(l *RateLimiter) { n.limiter = l }

// Initialized reports whether the notifier can send messages.
func (n *Notifier) Initialized() bool { return n.client != nil }

// NotifyMentions sends one direct message per resolvable mention, in mention
// order, and returns the number of successful deliveries. Unresolved
// mentions are skipped; a failed send is logged and does not stop the rest
// of the batch.
func (n *Notifier) NotifyMentions(ctx context.Context, sender types.Sender, card *types.Card, c *types.Comment, mentions []comment.Mention, tmpl Template) int {
	if n.client == nil || len(mentions) == 0 {
		return 0
	}

	cardName := ""
	if card != nil {
		cardName = card.Name
	}
	commentText := ""
	if c != nil {
		commentText = c.Comment
	}

	sent := 0
	for _, m := range mentions {
		userID, ok := n.resolver.Resolve(m.Username)
		if !ok {
			n.logger.Printf("No Slack mapping found for Favro user: %s", m.Username)
			continue
		}

		if n.limiter != nil && !n.limiter.Allow(userID) {
			n.logger.Printf("Rate limit reached, skipping notification to %s (%s)", m.Username, userID)
			continue
		}

		message := formatMessage(tmpl, sender.Name, cardName, commentText)
		if err := n.sendDirectMessage(ctx, userID, message); err != nil {
			n.logger.Printf("Error sending Slack message to %s (%s): %v", m.Username, userID, err)
			continue
		}

		sent++
		n.logger.Printf("Notification sent to %s (%s)", m.Username, userID)
	}

	return sent
}

func (n *Notifier) sendDirectMessage(ctx context.Context, userID, message string) error {
	_, _, err := n.client.PostMessageContext(ctx, userID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionDisableLinkUnfurl(),
		slack.MsgOptionDisableMediaUnfurl(),
	)
	return err
}

func formatMessage(tmpl Template, senderName, cardName, commentText string) string {
	switch tmpl {
	case TemplateCommentUpdated:
		return fmt.Sprintf("*%s* updated a comment that mentions you on card \"*%s*\":\n\n>%s", senderName, cardName, commentText)
	default:
		return fmt.Sprintf("*%s* mentioned you in a comment on card \"*%s*\":\n\n>%s", senderName, cardName, commentText)
	}
}
