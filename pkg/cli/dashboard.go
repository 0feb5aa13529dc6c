package cli

import (
	"context"
	"fmt"

	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdDashboard() *cli.Command {
	var rtCfg runtimeConfig

	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show today's counters and compliance statistics",
		Flags: rtCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := rtCfg.setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			s := rt.uc.Dashboard.Summary(ctx)
			w := c.Root().Writer

			_, _ = headerColor.Fprintln(w, "Dashboard")
			_, _ = fmt.Fprintf(w, "  active prescriptions: %d\n", s.ActivePrescriptions)
			_, _ = fmt.Fprintf(w, "  taken today:          %d\n", s.TodaysMedication)
			if s.Source == model.DashboardSourceRemote {
				_, _ = dimColor.Fprintf(w, "  (counters from remote dashboard: %s)\n", s.Message)
			}
			_, _ = fmt.Fprintf(w, "  compliance rate:      %d%%\n", s.ComplianceRate)
			_, _ = complianceColor(types.ComplianceCorrect).Fprintf(w, "  correct %d", s.Stats.Correct)
			_, _ = complianceColor(types.ComplianceWarning).Fprintf(w, "  warning %d", s.Stats.Warning)
			_, _ = complianceColor(types.ComplianceIncorrect).Fprintf(w, "  incorrect %d\n", s.Stats.Incorrect)

			if len(s.RecentLogs) > 0 {
				_, _ = headerColor.Fprintln(w, "Recent")
				for _, log := range s.RecentLogs {
					_, _ = complianceColor(log.Compliance).Fprintf(w, "  %-8s", log.Compliance.Label())
					_, _ = fmt.Fprintf(w, " %s %s\n", log.MedicationName, log.Dosage)
				}
			}
			return nil
		},
	}
}
