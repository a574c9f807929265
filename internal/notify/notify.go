// Package notify posts issue events to configured chat webhooks.
// Delivery is best-effort: failures are logged, never returned, and never
// fail the request that triggered them.
package notify

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/slack-go/slack"

	"github.com/jcallahan/plank/internal/config"
	"github.com/jcallahan/plank/internal/models"
)

// Issue event actions.
const (
	ActionCreated = "created"
	ActionMoved   = "moved"
	ActionDeleted = "deleted"
)

// Notifier fans out issue events to whichever channels are configured.
// The zero-config Notifier is a no-op.
type Notifier struct {
	cfg     config.NotifyConfig
	discord *discordgo.Session
}

// New builds a Notifier from config. The Discord session is unauthenticated;
// webhook execution needs only the webhook id and token.
func New(cfg config.NotifyConfig) (*Notifier, error) {
	n := &Notifier{cfg: cfg}
	if cfg.DiscordWebhookID != "" {
		s, err := discordgo.New("")
		if err != nil {
			return nil, fmt.Errorf("notify: discord session: %w", err)
		}
		n.discord = s
	}
	return n, nil
}

// IssueEvent posts an issue event to all configured channels. It returns
// immediately; delivery happens in the background.
func (n *Notifier) IssueEvent(action string, iss *models.Issue) {
	if n.cfg.SlackWebhookURL == "" && n.discord == nil {
		return
	}
	text := formatEvent(action, iss)
	go n.post(text)
}

func (n *Notifier) post(text string) {
	if n.cfg.SlackWebhookURL != "" {
		msg := slack.WebhookMessage{Text: text}
		if err := slack.PostWebhook(n.cfg.SlackWebhookURL, &msg); err != nil {
			log.Printf("notify: slack webhook: %v", err)
		}
	}
	if n.discord != nil {
		params := discordgo.WebhookParams{Content: text}
		if _, err := n.discord.WebhookExecute(n.cfg.DiscordWebhookID, n.cfg.DiscordWebhookToken, false, &params); err != nil {
			log.Printf("notify: discord webhook: %v", err)
		}
	}
}

// formatEvent renders the one-line message for an issue event.
func formatEvent(action string, iss *models.Issue) string {
	switch action {
	case ActionMoved:
		return fmt.Sprintf("[%s] %s moved to %s: %s", iss.ProjectID, iss.ID, iss.Status, iss.Title)
	case ActionDeleted:
		return fmt.Sprintf("[%s] %s deleted: %s", iss.ProjectID, iss.ID, iss.Title)
	default:
		return fmt.Sprintf("[%s] %s %s: %s", iss.ProjectID, iss.ID, action, iss.Title)
	}
}
