package cli

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/secmon-lab/medmatch/pkg/cli/config"
	"github.com/secmon-lab/medmatch/pkg/utils/async"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// pendingTaskTimeout bounds how long a finished command waits for background
// tasks such as Slack alerts before the process exits
const pendingTaskTimeout = 10 * time.Second

func Run(ctx context.Context, args []string, version string) error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Default().Warn("failed to load .env", "error", err)
	}

	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "medmatch",
		Usage:   "Medication photo compliance checker",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting medmatch", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pendingTaskTimeout)
			defer cancel()
			if err := async.Wait(waitCtx); err != nil {
				logging.Default().Warn("background tasks did not finish", "error", err)
			}

			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdPrescription(),
			cmdCapture(),
			cmdHistory(),
			cmdDashboard(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
