// Package notify posts scan summaries to chat.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/matzehuels/hawkeye/pkg/report"
)

// Notifier announces a finished scan.
type Notifier interface {
	Notify(ctx context.Context, org string, s *report.Summary) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, string, *report.Summary) error { return nil }

// SlackPoster is the subset of *slack.Client used for posting.
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Slack posts summaries either through the Web API (token and channel) or
// an incoming webhook.
type Slack struct {
	poster     SlackPoster
	channel    string
	webhookURL string
	// OnlyVulnerable suppresses messages for scans without matches.
	OnlyVulnerable bool
	logger         *log.Logger
}

// NewSlack returns a notifier posting to channel with a bot token.
func NewSlack(token, channel string, logger *log.Logger) *Slack {
	return NewSlackWithPoster(slack.New(token), channel, logger)
}

// NewSlackWithPoster returns a notifier using poster, mainly for tests.
func NewSlackWithPoster(poster SlackPoster, channel string, logger *log.Logger) *Slack {
	if logger == nil {
		logger = log.Default()
	}
	return &Slack{poster: poster, channel: channel, logger: logger}
}

// NewSlackWebhook returns a notifier posting to an incoming webhook.
func NewSlackWebhook(url string, logger *log.Logger) *Slack {
	if logger == nil {
		logger = log.Default()
	}
	return &Slack{webhookURL: url, logger: logger}
}

func (n *Slack) Notify(ctx context.Context, org string, s *report.Summary) error {
	if n.OnlyVulnerable && len(s.Vulnerable) == 0 {
		n.logger.Debug("no vulnerable dependencies, skipping slack message")
		return nil
	}

	text := headline(org, s)
	blocks := Blocks(org, s)

	if n.webhookURL != "" {
		msg := &slack.WebhookMessage{Text: text, Blocks: &slack.Blocks{BlockSet: blocks}}
		if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
			return fmt.Errorf("post slack webhook: %w", err)
		}
		return nil
	}

	_, ts, err := n.poster.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	n.logger.Debug("posted slack summary", "channel", n.channel, "ts", ts)
	return nil
}

func headline(org string, s *report.Summary) string {
	return fmt.Sprintf("Dependency scan of %s: %d repositories, %d vulnerable dependencies, %d failed",
		org, s.Total, s.VulnerableDependencies(), s.Failed)
}

// maxListed caps the vulnerable dependencies listed per message; Slack
// rejects section text over 3000 characters.
const maxListed = 25

// Blocks renders a summary as Block Kit blocks.
func Blocks(org string, s *report.Summary) []slack.Block {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Dependency scan: "+org, false, false))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Repositories*\n%d", s.Total), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Failed*\n%d", s.Failed), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Vulnerable dependencies*\n%d", s.VulnerableDependencies()), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Duration*\n%s", s.Duration.Round(time.Second)), false, false),
	}
	blocks := []slack.Block{header, slack.NewSectionBlock(nil, fields, nil)}

	if len(s.Vulnerable) > 0 {
		var b strings.Builder
		listed := 0
	outer:
		for _, rv := range s.Vulnerable {
			for _, d := range rv.Dependencies {
				if listed == maxListed {
					fmt.Fprintf(&b, "_and %d more_\n", s.VulnerableDependencies()-listed)
					break outer
				}
				fmt.Fprintf(&b, "• `%s` %s %s@%s (%d)\n", rv.Repo, d.Type, d.Name, d.Version, d.Advisories)
				listed++
			}
		}
		blocks = append(blocks, slack.NewDividerBlock(),
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, b.String(), false, false), nil, nil))
	}

	if len(s.Errors) > 0 {
		names := make([]string, len(s.Errors))
		for i, e := range s.Errors {
			names[i] = "`" + e.Repo + "`"
		}
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, "Failed: "+strings.Join(names, ", "), false, false)))
	}
	return blocks
}
