package model

import (
	"slices"
	"time"
)

// Dashboard preview sizes
const (
	DashboardPrescriptionPreview = 3
	DashboardLogPreview          = 3
)

// DashboardSource tells where the two headline counters came from
type DashboardSource string

const (
	DashboardSourceLocal  DashboardSource = "local"
	DashboardSourceRemote DashboardSource = "remote"
)

// RemoteDashboard is the wire shape of the optional dashboard endpoint
type RemoteDashboard struct {
	UserID              int    `json:"user_id"`
	ActivePrescriptions int    `json:"active_prescriptions"`
	TodaysMedication    int    `json:"todays_medication"`
	Message             string `json:"message"`
}

// CountResponse is the wire shape of the single-counter endpoints
type CountResponse struct {
	UserID  int    `json:"user_id"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// DashboardSummary is the overview shown on the dashboard screen
type DashboardSummary struct {
	ActivePrescriptions int              `json:"activePrescriptions"`
	TodaysMedication    int              `json:"todaysMedication"`
	Stats               ComplianceStats  `json:"stats"`
	ComplianceRate      int              `json:"complianceRate"`
	Prescriptions       []*Prescription  `json:"prescriptions"`
	RecentLogs          []*MedicationLog `json:"recentLogs"`
	Source              DashboardSource  `json:"source"`
	Message             string           `json:"message,omitempty"`
}

// NewDashboardSummary computes the summary from local state only
func NewDashboardSummary(prescriptions []*Prescription, logs []*MedicationLog, now time.Time, loc *time.Location) *DashboardSummary {
	stats := CountCompliance(logs)

	preview := make([]*Prescription, 0, DashboardPrescriptionPreview)
	for _, p := range prescriptions[:min(len(prescriptions), DashboardPrescriptionPreview)] {
		preview = append(preview, p.Copy())
	}

	recent := make([]*MedicationLog, 0, DashboardLogPreview)
	for _, log := range logs[max(0, len(logs)-DashboardLogPreview):] {
		recent = append(recent, log.Copy())
	}
	slices.Reverse(recent)

	return &DashboardSummary{
		ActivePrescriptions: len(prescriptions),
		TodaysMedication:    len(TodaysLogs(logs, now, loc)),
		Stats:               stats,
		ComplianceRate:      stats.Rate(),
		Prescriptions:       preview,
		RecentLogs:          recent,
		Source:              DashboardSourceLocal,
	}
}

// ApplyRemote overrides the two headline counters with remote values.
// Everything else stays local.
func (x *DashboardSummary) ApplyRemote(r *RemoteDashboard) {
	if r == nil {
		return
	}
	x.ActivePrescriptions = r.ActivePrescriptions
	x.TodaysMedication = r.TodaysMedication
	x.Message = r.Message
	x.Source = DashboardSourceRemote
}
