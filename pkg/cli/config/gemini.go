package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/service/interaction"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for the Vertex AI Gemini client used by the
// drug interaction check
type Gemini struct {
	projectID string
	location  string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Category:    "Interaction check",
			Usage:       "Google Cloud project ID for Gemini API. Interaction checks are disabled when empty",
			Sources:     cli.EnvVars("MEDMATCH_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Category:    "Interaction check",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("MEDMATCH_GEMINI_LOCATION"),
			Destination: &g.location,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
	}
}

// IsConfigured reports whether a project was given
func (g *Gemini) IsConfigured() bool {
	return g.projectID != ""
}

// Configure creates the interaction checker. Returns nil if projectID is not
// configured.
func (g *Gemini) Configure(ctx context.Context) (interfaces.InteractionChecker, error) {
	if !g.IsConfigured() {
		return nil, nil
	}

	client, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	checker, err := interaction.New(client)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create interaction checker")
	}
	return checker, nil
}
