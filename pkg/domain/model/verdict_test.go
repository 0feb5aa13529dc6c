package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

func newPrescription(name, dosage string) *model.Prescription {
	return &model.Prescription{
		ID:        model.NewPrescriptionID(),
		Name:      name,
		Dosage:    dosage,
		Frequency: "Once daily",
	}
}

func TestNoPrescriptionsVerdict(t *testing.T) {
	v := model.NoPrescriptionsVerdict()
	gt.Value(t, v.MedicationName).Equal(model.UnknownMedication)
	gt.Value(t, v.Dosage).Equal(model.UnknownDosage)
	gt.Value(t, v.Confidence).Equal(model.ConfidenceNoPrescription)
	gt.Value(t, v.Compliance).Equal(types.ComplianceIncorrect)
	gt.Value(t, v.MatchedPrescriptionID).Equal(model.PrescriptionID(""))
	gt.String(t, v.Notes).Contains("No prescriptions")
}

func TestMatchVerdict(t *testing.T) {
	p := newPrescription("Lisinopril", "10mg")
	v := model.MatchVerdict(p)
	gt.Value(t, v.MedicationName).Equal("Lisinopril")
	gt.Value(t, v.Dosage).Equal("10mg")
	gt.Value(t, v.Confidence).Equal(0.95)
	gt.Value(t, v.Compliance).Equal(types.ComplianceCorrect)
	gt.Value(t, v.MatchedPrescriptionID).Equal(p.ID)
}

func TestDosageMismatchVerdict(t *testing.T) {
	t.Run("target dosage is 5mg", func(t *testing.T) {
		p := newPrescription("Metformin", "5mg")
		v := model.DosageMismatchVerdict(p, model.MismatchDosage(p.Dosage))
		gt.Value(t, v.Dosage).NotEqual("5mg")
		gt.Value(t, v.Dosage).Equal("10mg")
		gt.Value(t, v.MedicationName).Equal("Metformin")
		gt.Value(t, v.Compliance).Equal(types.ComplianceIncorrect)
		gt.Value(t, v.Confidence).Equal(0.87)
		gt.String(t, v.Notes).Contains("calls for 5mg but detected 10mg")
	})

	t.Run("detected equal to target is substituted", func(t *testing.T) {
		p := newPrescription("Metformin", "500mg")
		v := model.DosageMismatchVerdict(p, "500 MG")
		gt.Value(t, v.Dosage).Equal("5mg")
	})

	t.Run("nothing detected is reported as unknown", func(t *testing.T) {
		p := newPrescription("Lisinopril", "10mg")
		v := model.DosageMismatchVerdict(p, "")
		gt.Value(t, v.Dosage).Equal(model.UnknownDosage)
		gt.String(t, v.Notes).Contains("calls for 10mg but detected Unknown Dosage")
		gt.Bool(t, strings.Contains(v.Notes, "5mg")).False()
	})

	t.Run("detected value is kept when different", func(t *testing.T) {
		p := newPrescription("Metformin", "500mg")
		v := model.DosageMismatchVerdict(p, "850mg")
		gt.Value(t, v.Dosage).Equal("850mg")
	})
}

func TestNameMismatchVerdict(t *testing.T) {
	p := newPrescription("Atorvastatin", "20mg")
	v := model.NameMismatchVerdict(p, model.MismatchName(p.Name))
	gt.Value(t, v.MedicationName).Equal(model.SimilarMedication)
	gt.Value(t, v.Dosage).Equal("20mg")
	gt.Value(t, v.Compliance).Equal(types.ComplianceWarning)
	gt.Value(t, v.Confidence).Equal(0.72)
	gt.Value(t, v.MatchedPrescriptionID).Equal(p.ID)

	same := newPrescription("similar medication", "20mg")
	v = model.NameMismatchVerdict(same, model.SimilarMedication)
	gt.Bool(t, model.SameValue(v.MedicationName, same.Name)).False()

	v = model.NameMismatchVerdict(p, "")
	gt.Value(t, v.MedicationName).Equal(model.UnknownMedication)
	gt.Value(t, v.Compliance).Equal(types.ComplianceWarning)
}

func TestMismatchDosage(t *testing.T) {
	targets := []string{"", "5mg", "5 MG", "10mg", "2.5mg", "Unknown Dosage", "unknowndosage", "100mg"}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			got := model.MismatchDosage(target)
			gt.Bool(t, model.SameValue(got, target)).False()
		})
	}
}

func TestClassify(t *testing.T) {
	p := newPrescription("Lisinopril", "10mg")

	tests := []struct {
		name       string
		detName    string
		detDosage  string
		compliance types.Compliance
		wantName   string
		wantDosage string
	}{
		{"exact", "Lisinopril", "10mg", types.ComplianceCorrect, "Lisinopril", "10mg"},
		{"case and spacing", " lisinopril ", "10 MG", types.ComplianceCorrect, "Lisinopril", "10mg"},
		{"dosage differs", "Lisinopril", "20mg", types.ComplianceIncorrect, "Lisinopril", "20mg"},
		{"name differs", "Losartan", "10mg", types.ComplianceWarning, "Losartan", "10mg"},
		{"both differ", "Losartan", "50mg", types.ComplianceIncorrect, "Losartan", "50mg"},
		{"nothing detected", "", "", types.ComplianceIncorrect, model.UnknownMedication, model.UnknownDosage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := model.Classify(p, tt.detName, tt.detDosage, 0.5)
			gt.Value(t, v.Compliance).Equal(tt.compliance)
			gt.Value(t, v.MedicationName).Equal(tt.wantName)
			gt.Value(t, v.Dosage).Equal(tt.wantDosage)
			gt.Value(t, v.Confidence).Equal(0.5)
			gt.Value(t, v.MatchedPrescriptionID).Equal(p.ID)
		})
	}

	t.Run("unread dosage is not invented", func(t *testing.T) {
		v := model.Classify(p, "Lisinopril", "", 0.6)
		gt.Value(t, v.Compliance).Equal(types.ComplianceIncorrect)
		gt.Value(t, v.Dosage).Equal(model.UnknownDosage)
		gt.Bool(t, strings.Contains(v.Notes, "5mg")).False()
	})

	t.Run("unread name is not invented", func(t *testing.T) {
		v := model.Classify(p, "", "10mg", 0.6)
		gt.Value(t, v.Compliance).Equal(types.ComplianceWarning)
		gt.Value(t, v.MedicationName).Equal(model.UnknownMedication)
	})

	t.Run("zero confidence without any match uses incorrect default", func(t *testing.T) {
		v := model.Classify(p, "Losartan", "50mg", 0)
		gt.Value(t, v.Compliance).Equal(types.ComplianceIncorrect)
		gt.Value(t, v.Confidence).Equal(model.ConfidenceDosageMismatch)
	})

	t.Run("zero confidence keeps class default", func(t *testing.T) {
		v := model.Classify(p, "Lisinopril", "10mg", 0)
		gt.Value(t, v.Confidence).Equal(model.ConfidenceMatch)
	})

	t.Run("confidence is clamped", func(t *testing.T) {
		v := model.Classify(p, "Lisinopril", "10mg", 3)
		gt.Value(t, v.Confidence).Equal(1.0)
	})
}

func TestNewLogFromVerdict(t *testing.T) {
	p := newPrescription("Lisinopril", "10mg")
	v := model.DosageMismatchVerdict(p, "")
	now := mustTime(t, "2024-05-01T09:30:00Z")

	log := model.NewLogFromVerdict(v, "blob:abc", now)
	gt.Value(t, log.ID).NotEqual(model.MedicationLogID(""))
	gt.Value(t, log.PrescriptionID).Equal(p.ID)
	gt.Value(t, log.MedicationName).Equal(v.MedicationName)
	gt.Value(t, log.Dosage).Equal(v.Dosage)
	gt.Value(t, log.Compliance).Equal(v.Compliance)
	gt.Value(t, log.Notes).Equal(v.Notes)
	gt.Value(t, log.PhotoURL).Equal("blob:abc")
	gt.Bool(t, log.Verified).True()
	gt.Bool(t, log.TimeTaken.Equal(now)).True()

	other := model.NewLogFromVerdict(v, "blob:abc", now)
	gt.Value(t, other.ID).NotEqual(log.ID)
}
