package types

// CaptureStatus is the lifecycle state of a medication capture session
type CaptureStatus string

const (
	CaptureStatusAnalyzing CaptureStatus = "analyzing"
	CaptureStatusReady     CaptureStatus = "ready"
	CaptureStatusFailed    CaptureStatus = "failed"
	CaptureStatusConfirmed CaptureStatus = "confirmed"
)

// IsTerminal reports whether no further transition is possible
func (s CaptureStatus) IsTerminal() bool {
	return s == CaptureStatusFailed || s == CaptureStatusConfirmed
}

// String returns the string representation of the capture status
func (s CaptureStatus) String() string {
	return string(s)
}
