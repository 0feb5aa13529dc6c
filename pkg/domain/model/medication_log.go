package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

// MedicationLogID is a time-ordered UUID identifier for MedicationLog
type MedicationLogID string

// NewMedicationLogID generates a new UUID v7 MedicationLogID
func NewMedicationLogID() MedicationLogID {
	return MedicationLogID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the ID
func (x MedicationLogID) String() string {
	return string(x)
}

// MedicationLog is one recorded instance of taking medication. Logs are
// append-only; PrescriptionID may point to a prescription deleted later.
type MedicationLog struct {
	ID             MedicationLogID  `json:"id"`
	PrescriptionID PrescriptionID   `json:"prescriptionId"`
	MedicationName string           `json:"medicationName"`
	Dosage         string           `json:"dosage"`
	TimeTaken      time.Time        `json:"timeTaken"`
	PhotoURL       string           `json:"photoUrl"`
	Verified       bool             `json:"verified"`
	Compliance     types.Compliance `json:"compliance"`
	Notes          string           `json:"notes,omitempty"`
}

// Copy returns a shallow copy of the log
func (x *MedicationLog) Copy() *MedicationLog {
	if x == nil {
		return nil
	}
	c := *x
	return &c
}

// TimeOfDay returns the part of the day the medication was taken in loc
func (x *MedicationLog) TimeOfDay(loc *time.Location) types.TimeOfDay {
	return types.TimeOfDayOf(x.TimeTaken.In(loc))
}

// NewLogFromVerdict commits a verdict into a medication log. TimeTaken is the
// confirmation instant, not the capture instant.
func NewLogFromVerdict(v *Verdict, photoURL string, confirmedAt time.Time) *MedicationLog {
	return &MedicationLog{
		ID:             NewMedicationLogID(),
		PrescriptionID: v.MatchedPrescriptionID,
		MedicationName: v.MedicationName,
		Dosage:         v.Dosage,
		TimeTaken:      confirmedAt,
		PhotoURL:       photoURL,
		Verified:       true,
		Compliance:     v.Compliance,
		Notes:          v.Notes,
	}
}
