package model

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

// Confidence scores reported for each outcome class
const (
	ConfidenceMatch          = 0.95
	ConfidenceDosageMismatch = 0.87
	ConfidenceNameMismatch   = 0.72
	ConfidenceNoPrescription = 0.1
)

// Placeholder values used when nothing can be matched
const (
	UnknownMedication   = "Unknown Medication"
	UnknownDosage       = "Unknown Dosage"
	UnknownPrescription = "Unknown Prescription"
	SimilarMedication   = "Similar medication"
)

// mismatchDosages are tried in order; the first one that differs from the
// target dosage is reported. They are pairwise distinct after normalization.
var mismatchDosages = []string{"5mg", "10mg", "2.5mg", UnknownDosage}

// mismatchNames follow the same rule for the detected medication name.
var mismatchNames = []string{SimilarMedication, "Unidentified medication"}

// Verdict is the outcome of checking one captured photo against the prescriptions
type Verdict struct {
	MedicationName        string           `json:"medicationName"`
	Dosage                string           `json:"dosage"`
	Confidence            float64          `json:"confidence"`
	Compliance            types.Compliance `json:"compliance"`
	Notes                 string           `json:"notes"`
	MatchedPrescriptionID PrescriptionID   `json:"matchedPrescriptionId"`
}

// Copy returns a shallow copy of the verdict
func (x *Verdict) Copy() *Verdict {
	if x == nil {
		return nil
	}
	c := *x
	return &c
}

// NoPrescriptionsVerdict is returned when there is nothing to compare against
func NoPrescriptionsVerdict() *Verdict {
	return &Verdict{
		MedicationName:        UnknownMedication,
		Dosage:                UnknownDosage,
		Confidence:            ConfidenceNoPrescription,
		Compliance:            types.ComplianceIncorrect,
		Notes:                 "No prescriptions uploaded to compare against. Please upload prescriptions first.",
		MatchedPrescriptionID: "",
	}
}

// MatchVerdict reports an exact match with the target prescription
func MatchVerdict(target *Prescription) *Verdict {
	return &Verdict{
		MedicationName:        target.Name,
		Dosage:                target.Dosage,
		Confidence:            ConfidenceMatch,
		Compliance:            types.ComplianceCorrect,
		Notes:                 "Medication and dosage match prescription exactly. Good compliance!",
		MatchedPrescriptionID: target.ID,
	}
}

// DosageMismatchVerdict reports the right medication at a wrong dosage.
// An empty detected dosage is reported as UnknownDosage; a value equal to the
// target is replaced with MismatchDosage(target.Dosage).
func DosageMismatchVerdict(target *Prescription, detected string) *Verdict {
	if detected == "" {
		detected = UnknownDosage
	}
	if SameValue(detected, target.Dosage) {
		detected = MismatchDosage(target.Dosage)
	}
	return &Verdict{
		MedicationName:        target.Name,
		Dosage:                detected,
		Confidence:            ConfidenceDosageMismatch,
		Compliance:            types.ComplianceIncorrect,
		Notes:                 fmt.Sprintf("Dosage mismatch detected. Prescription calls for %s but detected %s.", target.Dosage, detected),
		MatchedPrescriptionID: target.ID,
	}
}

// NameMismatchVerdict reports a medication whose name could not be confirmed.
// An empty detected name is reported as UnknownMedication; a value equal to
// the target is replaced with MismatchName(target.Name).
func NameMismatchVerdict(target *Prescription, detected string) *Verdict {
	if detected == "" {
		detected = UnknownMedication
	}
	if SameValue(detected, target.Name) {
		detected = MismatchName(target.Name)
	}
	return &Verdict{
		MedicationName:        detected,
		Dosage:                target.Dosage,
		Confidence:            ConfidenceNameMismatch,
		Compliance:            types.ComplianceWarning,
		Notes:                 "Medication name doesn't exactly match prescription. Please verify you're taking the correct medication.",
		MatchedPrescriptionID: target.ID,
	}
}

// Classify maps a detected name and dosage onto the outcome classes for target.
// Values are compared with SameValue. When neither name nor dosage matches the
// result is incorrect and carries the detected values as-is. A positive
// confidence overrides the class default.
func Classify(target *Prescription, detectedName, detectedDosage string, confidence float64) *Verdict {
	nameMatch := SameValue(detectedName, target.Name)
	dosageMatch := SameValue(detectedDosage, target.Dosage)

	var v *Verdict
	switch {
	case nameMatch && dosageMatch:
		v = MatchVerdict(target)
	case nameMatch:
		v = DosageMismatchVerdict(target, detectedDosage)
	case dosageMatch:
		v = NameMismatchVerdict(target, detectedName)
	default:
		name := detectedName
		if name == "" {
			name = UnknownMedication
		}
		dosage := detectedDosage
		if dosage == "" {
			dosage = UnknownDosage
		}
		v = &Verdict{
			MedicationName:        name,
			Dosage:                dosage,
			Confidence:            ConfidenceDosageMismatch,
			Compliance:            types.ComplianceIncorrect,
			Notes:                 fmt.Sprintf("Neither medication nor dosage match prescription. Expected %s %s, detected %s %s.", target.Name, target.Dosage, name, dosage),
			MatchedPrescriptionID: target.ID,
		}
	}

	if confidence > 0 {
		v.Confidence = clampConfidence(confidence)
	}
	return v
}

// MismatchDosage returns a placeholder dosage guaranteed to differ from target
func MismatchDosage(target string) string {
	return firstDifferent(mismatchDosages, target)
}

// MismatchName returns a placeholder medication name guaranteed to differ from target
func MismatchName(target string) string {
	return firstDifferent(mismatchNames, target)
}

func firstDifferent(candidates []string, target string) string {
	for _, c := range candidates {
		if !SameValue(c, target) {
			return c
		}
	}
	// unreachable while candidates hold two or more distinct values
	return candidates[0] + " (unverified)"
}

// SameValue compares free-text medication fields ignoring case and whitespace,
// so "10 mg" and "10MG" are the same dosage.
func SameValue(a, b string) bool {
	return normalizeValue(a) == normalizeValue(b)
}

func normalizeValue(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
