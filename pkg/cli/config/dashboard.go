package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/service/dashboard"
	"github.com/urfave/cli/v3"
)

// DashboardService holds the remote dashboard endpoint settings
type DashboardService struct {
	endpoint     string
	timeout      time.Duration
	maxFailures  int
	openDuration time.Duration
}

func (d *DashboardService) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dashboard-endpoint",
			Category:    "Dashboard",
			Usage:       "Remote dashboard endpoint. Empty disables the remote fetch",
			Value:       dashboard.DefaultEndpoint,
			Sources:     cli.EnvVars("MEDMATCH_DASHBOARD_ENDPOINT"),
			Destination: &d.endpoint,
		},
		&cli.DurationFlag{
			Name:        "dashboard-timeout",
			Category:    "Dashboard",
			Usage:       "Timeout of a single dashboard fetch",
			Value:       dashboard.DefaultTimeout,
			Sources:     cli.EnvVars("MEDMATCH_DASHBOARD_TIMEOUT"),
			Destination: &d.timeout,
		},
		&cli.IntFlag{
			Name:        "dashboard-max-failures",
			Category:    "Dashboard",
			Usage:       "Consecutive failures before the dashboard fetch is skipped for a while",
			Value:       3,
			Sources:     cli.EnvVars("MEDMATCH_DASHBOARD_MAX_FAILURES"),
			Destination: &d.maxFailures,
		},
		&cli.DurationFlag{
			Name:        "dashboard-open-duration",
			Category:    "Dashboard",
			Usage:       "How long the dashboard fetch is skipped after repeated failures",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("MEDMATCH_DASHBOARD_OPEN_DURATION"),
			Destination: &d.openDuration,
		},
	}
}

// Configure returns nil when no endpoint is set
func (d *DashboardService) Configure() (interfaces.DashboardClient, error) {
	if d.endpoint == "" {
		return nil, nil
	}

	if d.maxFailures < 1 {
		return nil, goerr.Wrap(ErrInvalidConfig, "dashboard-max-failures must be positive", goerr.V("value", d.maxFailures))
	}

	client, err := dashboard.New(d.endpoint,
		dashboard.WithTimeout(d.timeout),
		dashboard.WithBreaker(uint32(d.maxFailures), d.openDuration), // #nosec G115 - checked above, small flag value
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create dashboard client")
	}
	return client, nil
}
