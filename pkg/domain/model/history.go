package model

import (
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

// ComplianceFilterAll matches every compliance class
const ComplianceFilterAll = "all"

// LogFilter narrows the medication history. Zero value matches everything.
type LogFilter struct {
	// Search is matched case-insensitively as a substring of MedicationName
	Search string
	// Compliance restricts results to one class; empty means any
	Compliance types.Compliance
}

// ParseComplianceFilter accepts "", "all" or a compliance class name
func ParseComplianceFilter(s string) (types.Compliance, error) {
	if s == "" || s == ComplianceFilterAll {
		return "", nil
	}
	c, err := types.ParseCompliance(s)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidInput, "unknown compliance filter", goerr.V("compliance", s))
	}
	return c, nil
}

// Match reports whether log passes both conditions of the filter
func (f LogFilter) Match(log *MedicationLog) bool {
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(log.MedicationName), strings.ToLower(f.Search)) {
		return false
	}
	if f.Compliance != "" && log.Compliance != f.Compliance {
		return false
	}
	return true
}

// FilterLogs returns copies of the logs matching f, newest first.
// Logs with equal TimeTaken keep their original relative order.
func FilterLogs(logs []*MedicationLog, f LogFilter) []*MedicationLog {
	out := make([]*MedicationLog, 0, len(logs))
	for _, log := range logs {
		if f.Match(log) {
			out = append(out, log.Copy())
		}
	}
	slices.SortStableFunc(out, func(a, b *MedicationLog) int {
		return b.TimeTaken.Compare(a.TimeTaken)
	})
	return out
}

// PrescriptionLabel resolves a log's prescription reference to a display name.
// Dangling references resolve to UnknownPrescription.
func PrescriptionLabel(prescriptions []*Prescription, id PrescriptionID) string {
	for _, p := range prescriptions {
		if p.ID == id {
			return p.Name
		}
	}
	return UnknownPrescription
}

// HistoryEntry is one row of the medication history view
type HistoryEntry struct {
	Log               *MedicationLog  `json:"log"`
	PrescriptionLabel string          `json:"prescriptionLabel"`
	TimeOfDay         types.TimeOfDay `json:"timeOfDay"`
	Badge             string          `json:"badge"`
}
