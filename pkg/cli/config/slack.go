package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds the incoming webhook used for non-compliance alerts
type Slack struct {
	webhookURL string
	channel    string
}

func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Category:    "Slack",
			Usage:       "Slack incoming webhook URL for non-compliant medication alerts",
			Sources:     cli.EnvVars("MEDMATCH_SLACK_WEBHOOK_URL"),
			Destination: &s.webhookURL,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Category:    "Slack",
			Usage:       "Channel override for the webhook",
			Sources:     cli.EnvVars("MEDMATCH_SLACK_CHANNEL"),
			Destination: &s.channel,
		},
	}
}

// IsConfigured reports whether a webhook URL was given
func (s *Slack) IsConfigured() bool {
	return s.webhookURL != ""
}

// Configure returns nil when no webhook is set
func (s *Slack) Configure(loc *time.Location) (interfaces.Notifier, error) {
	if !s.IsConfigured() {
		return nil, nil
	}

	notifier, err := slack.New(s.webhookURL,
		slack.WithChannel(s.channel),
		slack.WithLocation(loc),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack notifier")
	}
	return notifier, nil
}
