package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdCapture() *cli.Command {
	var rtCfg runtimeConfig
	var confirm bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "confirm",
			Usage:       "Record the verdict in the medication log",
			Destination: &confirm,
		},
	}
	flags = append(flags, rtCfg.Flags()...)

	return &cli.Command{
		Name:      "capture",
		Usage:     "Check a medication photo against the prescriptions",
		ArgsUsage: "<photo>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.New("photo file is required")
			}

			rt, err := rtCfg.setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			photo, err := readPhoto(path)
			if err != nil {
				return err
			}
			if photo.URL, err = rt.media.Put(ctx, photo.Data, photo.ContentType); err != nil {
				return goerr.Wrap(err, "failed to store photo")
			}

			verdict, err := rt.uc.Capture.Evaluate(ctx, photo)
			if err != nil {
				return goerr.Wrap(err, "failed to analyze photo")
			}

			w := c.Root().Writer
			printVerdict(w, verdict)
			if !confirm {
				return nil
			}

			conf, err := rt.uc.Capture.ConfirmVerdict(ctx, verdict, photo.URL)
			if err != nil {
				return goerr.Wrap(err, "failed to record medication log")
			}
			_, _ = dimColor.Fprintf(w, "Logged as %s\n", conf.Log.ID)
			if conf.AlreadyTaken {
				_, _ = complianceColor(conf.Log.Compliance).Fprint(w, "Note: ")
				_, _ = fmt.Fprintf(w, "%s was already logged this %s\n",
					conf.Log.MedicationName, conf.Log.TimeOfDay(rt.loc))
			}
			return nil
		},
	}
}
