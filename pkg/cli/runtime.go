package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/cli/config"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/service/media"
	"github.com/secmon-lab/medmatch/pkg/service/metrics"
	"github.com/secmon-lab/medmatch/pkg/usecase"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
	"github.com/secmon-lab/medmatch/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// runtimeConfig groups the configuration shared by every command that
// touches application state
type runtimeConfig struct {
	app       config.App
	repo      config.Repository
	media     config.Media
	analyzer  config.Analyzer
	gemini    config.Gemini
	dashboard config.DashboardService
	slack     config.Slack
}

func (x *runtimeConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.app.Flags()...)
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.media.Flags()...)
	flags = append(flags, x.analyzer.Flags()...)
	flags = append(flags, x.gemini.Flags()...)
	flags = append(flags, x.dashboard.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	return flags
}

// runtime is a fully wired application with loaded state
type runtime struct {
	uc      *usecase.UseCases
	media   *media.Store
	metrics *metrics.Collector
	store   interfaces.KVStore
	loc     *time.Location
}

func (r *runtime) Close(ctx context.Context) {
	safe.Close(ctx, r.store)
}

// setup builds the use cases and loads persisted state
func (x *runtimeConfig) setup(ctx context.Context) (*runtime, error) {
	appCfg, err := x.app.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load app configuration")
	}

	store, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}
	rt := &runtime{store: store}

	rt.media, err = x.media.Configure()
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}

	verifier, extractor, err := x.analyzer.Configure(ctx, appCfg)
	if err != nil {
		rt.Close(ctx)
		return nil, goerr.Wrap(err, "failed to configure analyzer")
	}

	rt.metrics = metrics.New(metrics.DefaultNamespace)
	loc := appCfg.Location()
	rt.loc = loc
	opts := []usecase.Option{
		usecase.WithMetrics(rt.metrics),
		usecase.WithUserID(appCfg.Dashboard.UserID),
		usecase.WithLocation(loc),
	}

	// only attach configured services
	checker, err := x.gemini.Configure(ctx)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	if checker != nil {
		opts = append(opts, usecase.WithInteractionChecker(checker))
		logging.Default().LogAttrs(ctx, slog.LevelInfo, "Drug interaction check enabled", x.gemini.LogAttrs()...)
	}

	client, err := x.dashboard.Configure()
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	if client != nil {
		opts = append(opts, usecase.WithDashboardClient(client))
	}

	notifier, err := x.slack.Configure(loc)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
		logging.Default().Info("Slack notification enabled")
	}

	state := usecase.NewAppState(store, usecase.WithStateKeys(appCfg.StateKeys()))
	if err := state.Load(ctx); err != nil {
		rt.Close(ctx)
		return nil, goerr.Wrap(err, "failed to load application state")
	}

	rt.uc = usecase.New(state, verifier, extractor, rt.media, opts...)
	logging.Default().Info("Application state loaded",
		"prescriptions", len(state.Prescriptions()),
		"logs", len(state.Logs()),
		"repository", x.repo,
		"analyzer", x.analyzer,
	)
	return rt, nil
}
