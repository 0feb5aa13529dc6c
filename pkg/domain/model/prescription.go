package model

import (
	"time"

	"github.com/google/uuid"
)

// PrescriptionID is a time-ordered UUID identifier for Prescription
type PrescriptionID string

// NewPrescriptionID generates a new UUID v7 PrescriptionID
func NewPrescriptionID() PrescriptionID {
	return PrescriptionID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the ID
func (x PrescriptionID) String() string {
	return string(x)
}

// Prescription is a user-declared medication regimen. The JSON shape is the
// persisted record shape and must stay stable across versions.
type Prescription struct {
	ID           PrescriptionID `json:"id"`
	Name         string         `json:"name"`
	Dosage       string         `json:"dosage"`
	Frequency    string         `json:"frequency"`
	Instructions string         `json:"instructions"`
	UploadedAt   time.Time      `json:"uploadedAt"`
	ImageURL     string         `json:"imageUrl"`
}

// Copy returns a shallow copy of the prescription
func (x *Prescription) Copy() *Prescription {
	if x == nil {
		return nil
	}
	c := *x
	return &c
}

// PrescriptionInput is the user-editable form submitted to create a prescription
type PrescriptionInput struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage" validate:"required"`
	Frequency    string `json:"frequency" validate:"required"`
	Instructions string `json:"instructions"`
	ImageURL     string `json:"imageUrl" validate:"required"`
}

// Validate checks that every required field is present
func (x *PrescriptionInput) Validate() error {
	return validateStruct(x)
}

// ToPrescription materializes the input into a new Prescription record
func (x *PrescriptionInput) ToPrescription(now time.Time) *Prescription {
	return &Prescription{
		ID:           NewPrescriptionID(),
		Name:         x.Name,
		Dosage:       x.Dosage,
		Frequency:    x.Frequency,
		Instructions: x.Instructions,
		UploadedAt:   now,
		ImageURL:     x.ImageURL,
	}
}

// ExtractedPrescription holds best-effort field values read from a prescription image
type ExtractedPrescription struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Instructions string `json:"instructions"`
}

// PrescriptionDraft is an extraction result offered to the user as editable defaults
type PrescriptionDraft struct {
	ExtractedPrescription
	ImageURL string `json:"imageUrl"`
}

// ToInput converts the draft into a form input before the user edits it
func (x *PrescriptionDraft) ToInput() *PrescriptionInput {
	return &PrescriptionInput{
		Name:         x.Name,
		Dosage:       x.Dosage,
		Frequency:    x.Frequency,
		Instructions: x.Instructions,
		ImageURL:     x.ImageURL,
	}
}
