package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

// CaptureID identifies one photo capture session
type CaptureID string

// NewCaptureID generates a new UUID v4 CaptureID
func NewCaptureID() CaptureID {
	return CaptureID(uuid.New().String())
}

// String returns the string representation of the ID
func (x CaptureID) String() string {
	return string(x)
}

// CaptureSession tracks one photo from submission through analysis to confirmation
type CaptureSession struct {
	ID        CaptureID           `json:"id"`
	Status    types.CaptureStatus `json:"status"`
	PhotoURL  string              `json:"photoUrl"`
	Verdict   *Verdict            `json:"verdict,omitempty"`
	Error     string              `json:"error,omitempty"`
	LogID     MedicationLogID     `json:"logId,omitempty"`
	StartedAt time.Time           `json:"startedAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Copy returns a copy of the session including its verdict
func (x *CaptureSession) Copy() *CaptureSession {
	if x == nil {
		return nil
	}
	c := *x
	c.Verdict = x.Verdict.Copy()
	return &c
}
