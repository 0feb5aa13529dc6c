package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
	"github.com/slack-go/slack"
)

const (
	// DefaultTimeout bounds a single webhook delivery
	DefaultTimeout = 10 * time.Second

	// maxFieldBytes keeps attachment fields well under Slack's limits
	maxFieldBytes = 1900
)

// Notifier posts medication log alerts to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	channel    string
	loc        *time.Location
}

var _ interfaces.Notifier = &Notifier{}

type Option func(*Notifier)

// WithHTTPClient replaces the client used to deliver webhooks
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = c
	}
}

// WithChannel overrides the webhook's default channel
func WithChannel(channel string) Option {
	return func(n *Notifier) {
		n.channel = channel
	}
}

// WithLocation sets the time zone intake times are shown in
func WithLocation(loc *time.Location) Option {
	return func(n *Notifier) {
		n.loc = loc
	}
}

func New(webhookURL string, opts ...Option) (*Notifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}

	n := &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NotifyLog sends one message describing log
func (n *Notifier) NotifyLog(ctx context.Context, log *model.MedicationLog) error {
	msg := buildMessage(log, n.loc)
	msg.Channel = n.channel

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook",
			goerr.V("log_id", log.ID),
			goerr.V("compliance", log.Compliance))
	}
	return nil
}

func buildMessage(log *model.MedicationLog, loc *time.Location) *slack.WebhookMessage {
	title := fmt.Sprintf("%s: %s %s", log.Compliance.Label(), log.MedicationName, log.Dosage)

	fields := []slack.AttachmentField{
		{Title: "Medication", Value: truncateToMaxBytes(log.MedicationName, maxFieldBytes), Short: true},
		{Title: "Dosage", Value: truncateToMaxBytes(log.Dosage, maxFieldBytes), Short: true},
		{Title: "Taken at", Value: log.TimeTaken.In(loc).Format("2006-01-02 15:04"), Short: true},
		{Title: "Time of day", Value: log.TimeOfDay(loc).String(), Short: true},
	}
	if log.Notes != "" {
		fields = append(fields, slack.AttachmentField{
			Title: "Notes",
			Value: truncateToMaxBytes(log.Notes, maxFieldBytes),
		})
	}

	return &slack.WebhookMessage{
		Text: title,
		Attachments: []slack.Attachment{
			{
				Color:    complianceColor(log.Compliance),
				Title:    title,
				Fields:   fields,
				Footer:   "medmatch",
				Fallback: title,
			},
		},
	}
}

func complianceColor(c types.Compliance) string {
	switch c {
	case types.ComplianceCorrect:
		return "good"
	case types.ComplianceWarning:
		return "warning"
	default:
		return "danger"
	}
}

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
