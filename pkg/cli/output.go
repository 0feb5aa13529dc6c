package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

var (
	headerColor = color.New(color.Bold)
	dimColor    = color.New(color.Faint)
)

func complianceColor(c types.Compliance) *color.Color {
	switch c {
	case types.ComplianceCorrect:
		return color.New(color.FgGreen, color.Bold)
	case types.ComplianceWarning:
		return color.New(color.FgYellow, color.Bold)
	case types.ComplianceIncorrect:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.Reset)
	}
}

// readPhoto loads an image file for analysis
func readPhoto(path string) (*model.Photo, error) {
	// #nosec G304 - path is provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read image file", goerr.V("path", path))
	}
	return &model.Photo{Data: data, ContentType: http.DetectContentType(data)}, nil
}

func printPrescription(w io.Writer, p *model.Prescription, loc *time.Location) {
	_, _ = headerColor.Fprintf(w, "%s %s\n", p.Name, p.Dosage)
	_, _ = fmt.Fprintf(w, "  id:           %s\n", p.ID)
	_, _ = fmt.Fprintf(w, "  frequency:    %s\n", p.Frequency)
	if p.Instructions != "" {
		_, _ = fmt.Fprintf(w, "  instructions: %s\n", p.Instructions)
	}
	_, _ = dimColor.Fprintf(w, "  uploaded %s\n", p.UploadedAt.In(loc).Format(time.DateTime))
}

func printDraft(w io.Writer, d *model.PrescriptionDraft) {
	_, _ = headerColor.Fprintf(w, "%s %s\n", d.Name, d.Dosage)
	_, _ = fmt.Fprintf(w, "  frequency:    %s\n", d.Frequency)
	_, _ = fmt.Fprintf(w, "  instructions: %s\n", d.Instructions)
	_, _ = dimColor.Fprintf(w, "  image %s\n", d.ImageURL)
}

func printVerdict(w io.Writer, v *model.Verdict) {
	c := complianceColor(v.Compliance)
	_, _ = c.Fprintf(w, "[%s]", v.Compliance.Label())
	_, _ = fmt.Fprintf(w, " %s %s (confidence %.0f%%)\n", v.MedicationName, v.Dosage, v.Confidence*100)
	if v.Notes != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", v.Notes)
	}
}

func printHistoryEntry(w io.Writer, e *model.HistoryEntry, loc *time.Location) {
	c := complianceColor(e.Log.Compliance)
	_, _ = c.Fprintf(w, "%-9s", e.Badge)
	_, _ = fmt.Fprintf(w, " %s  %-9s %s %s",
		e.Log.TimeTaken.In(loc).Format("2006-01-02 15:04"),
		e.TimeOfDay,
		e.Log.MedicationName,
		e.Log.Dosage,
	)
	_, _ = dimColor.Fprintf(w, "  (%s)\n", e.PrescriptionLabel)
	if e.Log.Notes != "" {
		_, _ = fmt.Fprintf(w, "          %s\n", e.Log.Notes)
	}
}

func printInteractions(w io.Writer, interactions []*model.Interaction) {
	for _, ia := range interactions {
		if ia.Safe {
			_, _ = fmt.Fprintf(w, "  %s + %s: ok\n", ia.Existing, ia.New)
			continue
		}
		_, _ = color.New(color.FgRed).Fprintf(w, "  %s + %s: do not combine", ia.Existing, ia.New)
		if ia.Reason != "" {
			_, _ = fmt.Fprintf(w, " (%s)", ia.Reason)
		}
		_, _ = fmt.Fprintln(w)
	}
}
