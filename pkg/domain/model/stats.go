package model

import (
	"math"
	"time"

	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

// ComplianceStats counts logs by compliance class
type ComplianceStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Warning   int `json:"warning"`
	Total     int `json:"total"`
}

// CountCompliance tallies logs by compliance class
func CountCompliance(logs []*MedicationLog) ComplianceStats {
	var s ComplianceStats
	for _, log := range logs {
		switch log.Compliance {
		case types.ComplianceCorrect:
			s.Correct++
		case types.ComplianceIncorrect:
			s.Incorrect++
		case types.ComplianceWarning:
			s.Warning++
		}
		s.Total++
	}
	return s
}

// Rate is the share of correct logs as a rounded percentage, 0 when empty
func (s ComplianceStats) Rate() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
}

// TodaysLogs returns the logs taken on the same calendar date as now in loc
func TodaysLogs(logs []*MedicationLog, now time.Time, loc *time.Location) []*MedicationLog {
	y, m, d := now.In(loc).Date()
	var out []*MedicationLog
	for _, log := range logs {
		ly, lm, ld := log.TimeTaken.In(loc).Date()
		if ly == y && lm == m && ld == d {
			out = append(out, log)
		}
	}
	return out
}

// AlreadyTaken reports whether logs hold another intake of the same medication
// on the same date and in the same part of the day as at.
func AlreadyTaken(logs []*MedicationLog, medicationName string, at time.Time, loc *time.Location) bool {
	bucket := types.TimeOfDayOf(at.In(loc))
	for _, log := range TodaysLogs(logs, at, loc) {
		if SameValue(log.MedicationName, medicationName) && log.TimeOfDay(loc) == bucket {
			return true
		}
	}
	return false
}
