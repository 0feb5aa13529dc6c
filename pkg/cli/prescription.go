package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdPrescription() *cli.Command {
	return &cli.Command{
		Name:    "prescription",
		Aliases: []string{"rx"},
		Usage:   "Manage prescriptions",
		Commands: []*cli.Command{
			cmdPrescriptionAdd(),
			cmdPrescriptionList(),
			cmdPrescriptionDelete(),
			cmdPrescriptionExtract(),
		},
	}
}

func cmdPrescriptionAdd() *cli.Command {
	var rtCfg runtimeConfig
	var input model.PrescriptionInput
	var imagePath string
	var extract bool

	flags := []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Medication name", Destination: &input.Name},
		&cli.StringFlag{Name: "dosage", Usage: "Dosage, e.g. 10mg", Destination: &input.Dosage},
		&cli.StringFlag{Name: "frequency", Usage: "Frequency, e.g. Once daily", Destination: &input.Frequency},
		&cli.StringFlag{Name: "instructions", Usage: "Instructions for use", Destination: &input.Instructions},
		&cli.StringFlag{Name: "image", Usage: "Prescription image file", Required: true, Destination: &imagePath},
		&cli.BoolFlag{Name: "extract", Usage: "Prefill empty fields from the image", Destination: &extract},
	}
	flags = append(flags, rtCfg.Flags()...)

	return &cli.Command{
		Name:  "add",
		Usage: "Add a prescription from an image and its details",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := rtCfg.setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			photo, err := readPhoto(imagePath)
			if err != nil {
				return err
			}

			if extract {
				draft, err := rt.uc.Prescription.Extract(ctx, photo)
				if err != nil {
					return goerr.Wrap(err, "failed to extract prescription")
				}
				input = mergeDraft(draft, input)
			} else {
				url, err := rt.media.Put(ctx, photo.Data, photo.ContentType)
				if err != nil {
					return goerr.Wrap(err, "failed to store prescription image")
				}
				input.ImageURL = url
			}

			result, err := rt.uc.Prescription.Commit(ctx, &input)
			if err != nil {
				if fields := model.MissingFields(err); len(fields) > 0 {
					return goerr.Wrap(err, "prescription is incomplete", goerr.V("missing", fields))
				}
				return err
			}

			w := c.Root().Writer
			printPrescription(w, result.Prescription, rt.loc)
			printInteractions(w, result.Interactions)
			return nil
		},
	}
}

// mergeDraft fills fields the user left empty with extracted values
func mergeDraft(draft *model.PrescriptionDraft, input model.PrescriptionInput) model.PrescriptionInput {
	merged := *draft.ToInput()
	if input.Name != "" {
		merged.Name = input.Name
	}
	if input.Dosage != "" {
		merged.Dosage = input.Dosage
	}
	if input.Frequency != "" {
		merged.Frequency = input.Frequency
	}
	if input.Instructions != "" {
		merged.Instructions = input.Instructions
	}
	return merged
}

func cmdPrescriptionList() *cli.Command {
	var rtCfg runtimeConfig

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List prescriptions",
		Flags:   rtCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := rtCfg.setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			w := c.Root().Writer
			prescriptions := rt.uc.Prescription.List(ctx)
			if len(prescriptions) == 0 {
				_, _ = dimColor.Fprintln(w, "No prescriptions")
				return nil
			}
			for _, p := range prescriptions {
				printPrescription(w, p, rt.loc)
			}
			return nil
		},
	}
}

func cmdPrescriptionDelete() *cli.Command {
	var rtCfg runtimeConfig

	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a prescription",
		ArgsUsage: "<id>",
		Flags:     rtCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("prescription id is required")
			}

			rt, err := rtCfg.setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if err := rt.uc.Prescription.Delete(ctx, model.PrescriptionID(id)); err != nil {
				return err
			}
			_, _ = headerColor.Fprintf(c.Root().Writer, "Deleted %s\n", id)
			return nil
		},
	}
}

func cmdPrescriptionExtract() *cli.Command {
	var rtCfg runtimeConfig

	return &cli.Command{
		Name:      "extract",
		Usage:     "Read prescription fields from an image without saving",
		ArgsUsage: "<image>",
		Flags:     rtCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.New("image file is required")
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
			draft, err := rt.uc.Prescription.Extract(ctx, photo)
			if err != nil {
				return err
			}

			printDraft(c.Root().Writer, draft)
			return nil
		},
	}
}
