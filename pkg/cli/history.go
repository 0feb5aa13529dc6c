package cli

import (
	"context"

	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdHistory() *cli.Command {
	var rtCfg runtimeConfig
	var search, compliance string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "search",
			Aliases:     []string{"s"},
			Usage:       "Only show medications whose name contains this text",
			Destination: &search,
		},
		&cli.StringFlag{
			Name:        "compliance",
			Usage:       "Only show one class [all|correct|warning|incorrect]",
			Value:       model.ComplianceFilterAll,
			Destination: &compliance,
		},
	}
	flags = append(flags, rtCfg.Flags()...)

	return &cli.Command{
		Name:  "history",
		Usage: "Show the medication log, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			class, err := model.ParseComplianceFilter(compliance)
			if err != nil {
				return err
			}

			rt, err := rtCfg.setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			w := c.Root().Writer
			entries := rt.uc.History.List(ctx, model.LogFilter{Search: search, Compliance: class})
			if len(entries) == 0 {
				_, _ = dimColor.Fprintln(w, "No medication logs")
				return nil
			}
			for _, e := range entries {
				printHistoryEntry(w, e, rt.loc)
			}
			return nil
		},
	}
}
