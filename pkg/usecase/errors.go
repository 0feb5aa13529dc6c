package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrSessionNotFound      = errors.New("capture session not found")

	// State errors
	ErrDuplicateID     = errors.New("record with the same id already exists")
	ErrSessionNotReady = errors.New("capture session is not ready for confirmation")
	ErrMalformedState  = errors.New("persisted state is malformed")

	// Input errors
	ErrEmptyPhoto = errors.New("photo is empty")
)

// Context keys for error values
const (
	PrescriptionIDKey = "prescription_id"
	LogIDKey          = "log_id"
	CaptureIDKey      = "capture_id"
	StateKeyKey       = "state_key"
)
