package types_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

func TestCompliance_IsValid(t *testing.T) {
	tests := []struct {
		name       string
		compliance types.Compliance
		want       bool
	}{
		{name: "correct", compliance: types.ComplianceCorrect, want: true},
		{name: "incorrect", compliance: types.ComplianceIncorrect, want: true},
		{name: "warning", compliance: types.ComplianceWarning, want: true},
		{name: "upper case is not accepted", compliance: types.Compliance("CORRECT"), want: false},
		{name: "empty", compliance: types.Compliance(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.compliance.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseCompliance(t *testing.T) {
	c, err := types.ParseCompliance("warning")
	gt.NoError(t, err).Required()
	gt.Value(t, c).Equal(types.ComplianceWarning)

	_, err = types.ParseCompliance("all")
	gt.Value(t, err).NotNil()
}

func TestCompliance_Label(t *testing.T) {
	gt.Value(t, types.ComplianceCorrect.Label()).Equal("Verified")
	gt.Value(t, types.ComplianceWarning.Label()).Equal("Warning")
	gt.Value(t, types.ComplianceIncorrect.Label()).Equal("Error")
	gt.Value(t, types.Compliance("other").Label()).Equal("Unknown")
}

func TestAllCompliances(t *testing.T) {
	all := types.AllCompliances()
	gt.Array(t, all).Length(3)
	for _, c := range all {
		gt.Bool(t, c.IsValid()).True()
	}
}

func TestTimeOfDayOf(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 10, 19, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		time time.Time
		want types.TimeOfDay
	}{
		{name: "early morning boundary", time: at(6, 0), want: types.TimeOfDayMorning},
		{name: "late morning", time: at(11, 59), want: types.TimeOfDayMorning},
		{name: "noon", time: at(12, 0), want: types.TimeOfDayAfternoon},
		{name: "afternoon end", time: at(15, 59), want: types.TimeOfDayAfternoon},
		{name: "evening start", time: at(16, 0), want: types.TimeOfDayEvening},
		{name: "evening end", time: at(21, 59), want: types.TimeOfDayEvening},
		{name: "night start", time: at(22, 0), want: types.TimeOfDayNight},
		{name: "after midnight", time: at(3, 30), want: types.TimeOfDayNight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.TimeOfDayOf(tt.time)).Equal(tt.want)
		})
	}
}

func TestCaptureStatus_IsTerminal(t *testing.T) {
	gt.Bool(t, types.CaptureStatusAnalyzing.IsTerminal()).False()
	gt.Bool(t, types.CaptureStatusReady.IsTerminal()).False()
	gt.Bool(t, types.CaptureStatusFailed.IsTerminal()).True()
	gt.Bool(t, types.CaptureStatusConfirmed.IsTerminal()).True()
}
