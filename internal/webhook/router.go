// Package webhook classifies inbound Favro events and routes them to their
// handlers. Classification is stateless per request; an unrecognized action
// is always acknowledged, never rejected.
package webhook

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/favrelay/favrelay/internal/comment"
	"github.com/favrelay/favrelay/internal/notifier"
	"github.com/favrelay/favrelay/internal/types"
)

var webhookTracer = otel.Tracer("favrelay/webhook")

// removedSummaryLength caps the logged excerpt of a removed comment.
const removedSummaryLength = 50

// Router dispatches a decoded event to the handler for its kind and returns
// the human-readable response message.
type Router struct {
	notifier *notifier.Notifier
	metrics  Metrics
	logger   *log.Logger
}

// NewRouter constructs a Router around a notifier.
func NewRouter(n *notifier.Notifier, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.New(os.Stdout, "webhook ", log.LstdFlags)
	}
	initWebhookOTelMetrics()
	return &Router{notifier: n, logger: logger}
}

// MetricsSnapshot exposes the in-process counters.
func (r *Router) MetricsSnapshot() (events, notifications int64) {
	return r.metrics.Events.Load(), r.metrics.Notifications.Load()
}

// Process handles one event and returns the response message for the HTTP
// caller. It never fails: malformed entities degrade to blank fields and
// unknown actions get a generic acknowledgement.
func (r *Router) Process(ctx context.Context, ev *types.Event) string {
	ctx, span := webhookTracer.Start(ctx, "webhook.process")
	span.SetAttributes(
		attribute.String("webhook.action", ev.Action),
		attribute.String("webhook.kind", string(ev.Kind)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		d := time.Since(start)
		r.metrics.RecordEvent(d)
		recordEventMetric(ctx, ev.Action, d)
	}()

	switch ev.Kind {
	case types.KindPing:
		return r.handlePing(ev)
	case types.KindCardCreated:
		return r.handleCardCreated(ev)
	case types.KindCommentCreated:
		return r.handleCommentCreated(ctx, ev)
	case types.KindCardUpdated:
		return r.handleCardUpdated(ev)
	case types.KindCommentUpdated:
		return r.handleCommentUpdated(ctx, ev)
	case types.KindCardRemoved:
		return r.handleCardRemoved(ev)
	case types.KindCommentRemoved:
		return r.handleCommentRemoved(ev)
	case types.KindCardMoved:
		return r.handleCardMoved(ev)
	case types.KindCardCommitted:
		return r.handleCardCommitted(ev)
	default:
		r.logger.Printf("Received unhandled webhook action: %s", ev.Action)
		return fmt.Sprintf("Received webhook with action: %s", ev.Action)
	}
}

func (r *Router) handlePing(ev *types.Event) string {
	r.logger.Println("Received ping webhook from Favro")
	return "Ping received successfully!"
}

func (r *Router) handleCardCreated(ev *types.Event) string {
	r.logger.Printf("Card created: %q by %s", ev.CardName(), ev.Sender.Name)
	return fmt.Sprintf("Card created by %s", ev.Sender.Name)
}

func (r *Router) handleCardUpdated(ev *types.Event) string {
	r.logger.Printf("Card updated: %q by %s", ev.CardName(), ev.Sender.Name)
	return fmt.Sprintf("Card updated by %s", ev.Sender.Name)
}

func (r *Router) handleCardRemoved(ev *types.Event) string {
	r.logger.Printf("Card removed: %q by %s", ev.CardName(), ev.Sender.Name)
	return fmt.Sprintf("Card removed by %s", ev.Sender.Name)
}

func (r *Router) handleCardMoved(ev *types.Event) string {
	from := types.ColumnName(ev.SourceColumn)
	to := types.ColumnName(ev.Column)
	r.logger.Printf("Card moved: %q from %s to %s", ev.CardName(), from, to)
	return fmt.Sprintf("Card moved from %s to %s", from, to)
}

func (r *Router) handleCardCommitted(ev *types.Event) string {
	from := types.WidgetName(ev.SourceWidget)
	to := types.WidgetName(ev.Widget)
	r.logger.Printf("Card committed: %q from %s to %s", ev.CardName(), from, to)
	return fmt.Sprintf("Card committed from %s to %s", from, to)
}

func (r *Router) handleCommentCreated(ctx context.Context, ev *types.Event) string {
	parsed := comment.Parse(ev.Comment)

	message := fmt.Sprintf("Comment added to %q by %s", ev.CardName(), ev.Sender.Name)
	if !parsed.HasMentions {
		r.logger.Println(message)
		return message
	}

	mentionedUsers := strings.Join(comment.Usernames(parsed.Mentions), ", ")
	r.logger.Printf("%s with %d user mention(s): %s", message, len(parsed.Mentions), mentionedUsers)

	message = fmt.Sprintf("%s mentioned %s in a comment on %q", ev.Sender.Name, mentionedUsers, ev.CardName())

	sent := r.notifier.NotifyMentions(ctx, ev.Sender, ev.Card, ev.Comment, parsed.Mentions, notifier.TemplateCommentCreated)
	r.metrics.RecordNotifications(sent)
	recordNotificationMetric(ctx, sent)
	if sent > 0 {
		message += fmt.Sprintf(" (%d Slack notification(s) sent)", sent)
	}

	return message
}

func (r *Router) handleCommentUpdated(ctx context.Context, ev *types.Event) string {
	parsed := comment.Parse(ev.Comment)

	message := fmt.Sprintf("Comment updated on %q by %s", ev.CardName(), ev.Sender.Name)
	if !parsed.HasMentions {
		r.logger.Println(message)
		return message
	}

	mentionedUsers := strings.Join(comment.Usernames(parsed.Mentions), ", ")
	r.logger.Printf("%s with %d user mention(s): %s", message, len(parsed.Mentions), mentionedUsers)

	message = fmt.Sprintf("%s updated a comment mentioning %s on %q", ev.Sender.Name, mentionedUsers, ev.CardName())

	sent := r.notifier.NotifyMentions(ctx, ev.Sender, ev.Card, ev.Comment, parsed.Mentions, notifier.TemplateCommentUpdated)
	r.metrics.RecordNotifications(sent)
	recordNotificationMetric(ctx, sent)
	if sent > 0 {
		message += fmt.Sprintf(" (%d Slack notification(s) sent)", sent)
	}

	return message
}

func (r *Router) handleCommentRemoved(ev *types.Event) string {
	text := ""
	if ev.Comment != nil {
		text = ev.Comment.Comment
	}
	summary := comment.Summarize(text, removedSummaryLength)
	r.logger.Printf("Comment removed from %q by %s: %q", ev.CardName(), ev.Sender.Name, summary)
	return fmt.Sprintf("Comment removed by %s", ev.Sender.Name)
}
