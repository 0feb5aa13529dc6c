package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
)

func TestPrescriptionInput_Validate(t *testing.T) {
	t.Run("complete input", func(t *testing.T) {
		in := &model.PrescriptionInput{
			Name:      "Lisinopril",
			Dosage:    "10mg",
			Frequency: "Once daily",
			ImageURL:  "blob:1",
		}
		gt.NoError(t, in.Validate())
	})

	t.Run("missing fields are reported by json name", func(t *testing.T) {
		in := &model.PrescriptionInput{Name: "Lisinopril", Instructions: "with food"}
		err := in.Validate()
		gt.Error(t, err).Is(model.ErrIncompleteInput)

		fields := model.MissingFields(err)
		gt.Array(t, fields).Length(3)
		gt.Array(t, fields).Has("dosage")
		gt.Array(t, fields).Has("frequency")
		gt.Array(t, fields).Has("imageUrl")
	})

	t.Run("instructions are optional", func(t *testing.T) {
		in := &model.PrescriptionInput{Name: "a", Dosage: "b", Frequency: "c", ImageURL: "d"}
		gt.NoError(t, in.Validate())
	})
}

func TestPrescriptionInput_ToPrescription(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	in := &model.PrescriptionInput{Name: "a", Dosage: "b", Frequency: "c", Instructions: "i", ImageURL: "d"}
	p := in.ToPrescription(now)

	gt.Value(t, p.ID).NotEqual(model.PrescriptionID(""))
	gt.Value(t, p.Name).Equal("a")
	gt.Value(t, p.Instructions).Equal("i")
	gt.Bool(t, p.UploadedAt.Equal(now)).True()

	p2 := in.ToPrescription(now)
	gt.Value(t, p2.ID).NotEqual(p.ID)
}

func TestPrescriptionDraft_ToInput(t *testing.T) {
	d := &model.PrescriptionDraft{
		ExtractedPrescription: model.ExtractedPrescription{Name: "Lisinopril", Dosage: "10mg"},
		ImageURL:              "blob:1",
	}
	in := d.ToInput()
	gt.Value(t, in.Name).Equal("Lisinopril")
	gt.Value(t, in.ImageURL).Equal("blob:1")
	gt.Error(t, in.Validate()).Is(model.ErrIncompleteInput)
}
