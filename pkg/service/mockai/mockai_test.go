package mockai_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
	"github.com/secmon-lab/medmatch/pkg/service/mockai"
)

func prescriptions() []*model.Prescription {
	return []*model.Prescription{
		{ID: "p1", Name: "Lisinopril", Dosage: "10mg"},
		{ID: "p2", Name: "Metformin", Dosage: "5mg"},
		{ID: "p3", Name: "Similar medication", Dosage: "2.5 mg"},
	}
}

func TestVerifier_Contract(t *testing.T) {
	v := mockai.NewVerifier(mockai.WithVerifyDelay(0), mockai.WithRand(rand.New(rand.NewPCG(1, 2))))
	list := prescriptions()

	seen := map[types.Compliance]int{}
	targets := map[model.PrescriptionID]int{}

	for range 600 {
		verdict, err := v.Verify(context.Background(), &model.Photo{}, list)
		gt.NoError(t, err).Required()

		var target *model.Prescription
		for _, p := range list {
			if p.ID == verdict.MatchedPrescriptionID {
				target = p
			}
		}
		gt.Value(t, target).NotNil().Required()
		seen[verdict.Compliance]++
		targets[target.ID]++

		switch verdict.Compliance {
		case types.ComplianceCorrect:
			gt.Value(t, verdict.Confidence).Equal(0.95)
			gt.Value(t, verdict.MedicationName).Equal(target.Name)
			gt.Value(t, verdict.Dosage).Equal(target.Dosage)
		case types.ComplianceIncorrect:
			gt.Value(t, verdict.Confidence).Equal(0.87)
			gt.Value(t, verdict.MedicationName).Equal(target.Name)
			gt.Bool(t, model.SameValue(verdict.Dosage, target.Dosage)).False()
		case types.ComplianceWarning:
			gt.Value(t, verdict.Confidence).Equal(0.72)
			gt.Value(t, verdict.Dosage).Equal(target.Dosage)
			gt.Bool(t, model.SameValue(verdict.MedicationName, target.Name)).False()
		default:
			t.Fatalf("unexpected compliance %q", verdict.Compliance)
		}
	}

	// every class and every target is reachable
	gt.Number(t, len(seen)).Equal(3)
	gt.Number(t, len(targets)).Equal(3)
	for _, n := range seen {
		gt.Bool(t, n > 100).True()
	}
}

func TestVerifier_EmptyList(t *testing.T) {
	v := mockai.NewVerifier(mockai.WithVerifyDelay(time.Hour))
	verdict, err := v.Verify(context.Background(), &model.Photo{}, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, verdict.MedicationName).Equal(model.UnknownMedication)
}

func TestVerifier_Cancelled(t *testing.T) {
	v := mockai.NewVerifier(mockai.WithVerifyDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Verify(ctx, &model.Photo{}, prescriptions())
	gt.Error(t, err).Is(interfaces.ErrTimeout)
}

func TestExtractor(t *testing.T) {
	e := mockai.NewExtractor(mockai.WithExtractDelay(time.Millisecond))
	got, err := e.Extract(context.Background(), &model.Photo{})
	gt.NoError(t, err).Required()
	gt.Value(t, *got).Equal(mockai.DefaultExtraction())
	gt.Value(t, got.Name).Equal("Lisinopril")
	gt.Value(t, got.Frequency).Equal("Once daily")

	custom := model.ExtractedPrescription{Name: "Metformin", Dosage: "500mg"}
	e = mockai.NewExtractor(mockai.WithExtractDelay(0), mockai.WithExtraction(custom))
	got, err = e.Extract(context.Background(), &model.Photo{})
	gt.NoError(t, err).Required()
	gt.Value(t, got.Name).Equal("Metformin")
}
