package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/service/mockai"
	"github.com/secmon-lab/medmatch/pkg/service/vision"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Analyzer selects the photo verifier and prescription extractor
type Analyzer struct {
	backend string
	apiKey  string
	model   string
}

func (a *Analyzer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "analyzer",
			Category:    "Analyzer",
			Usage:       "Image analyzer [mock|vision]",
			Value:       "mock",
			Sources:     cli.EnvVars("MEDMATCH_ANALYZER"),
			Destination: &a.backend,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Category:    "Analyzer",
			Usage:       "Gemini API key for the vision analyzer",
			Sources:     cli.EnvVars("MEDMATCH_GEMINI_API_KEY"),
			Destination: &a.apiKey,
		},
		&cli.StringFlag{
			Name:        "vision-model",
			Category:    "Analyzer",
			Usage:       "Model used by the vision analyzer",
			Value:       vision.DefaultModel,
			Sources:     cli.EnvVars("MEDMATCH_VISION_MODEL"),
			Destination: &a.model,
		},
	}
}

// LogValue implements slog.LogValuer. The API key is never logged.
func (a Analyzer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", a.backend),
		slog.String("model", a.model),
		slog.Bool("api_key_set", a.apiKey != ""),
	)
}

// Configure builds the verifier and extractor. Mock analyzers take their
// delays and canned extraction from app.
func (a *Analyzer) Configure(ctx context.Context, app *AppConfig) (interfaces.Verifier, interfaces.Extractor, error) {
	switch a.backend {
	case "mock", "":
		verifier := mockai.NewVerifier(mockai.WithVerifyDelay(app.VerifyDelay()))
		extractor := mockai.NewExtractor(
			mockai.WithExtractDelay(app.ExtractDelay()),
			mockai.WithExtraction(app.CannedExtraction()),
		)
		logging.Default().Info("Using simulated image analysis",
			"verify_delay", app.VerifyDelay(),
			"extract_delay", app.ExtractDelay(),
		)
		return verifier, extractor, nil

	case "vision":
		if a.apiKey == "" {
			return nil, nil, goerr.Wrap(ErrMissingOption, "gemini-api-key is required when using vision analyzer")
		}
		client, err := vision.New(ctx, a.apiKey, vision.WithModel(a.model))
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create vision client")
		}
		logging.Default().Info("Using vision model image analysis", "model", a.model)
		return vision.NewVerifier(client), vision.NewExtractor(client), nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidBackend, "invalid analyzer", goerr.V(BackendKey, a.backend))
	}
}
