package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

func TestNewDashboardSummary(t *testing.T) {
	prescriptions := []*model.Prescription{
		newPrescription("A", "1mg"),
		newPrescription("B", "2mg"),
		newPrescription("C", "3mg"),
		newPrescription("D", "4mg"),
	}
	logs := []*model.MedicationLog{
		newLog(t, "A", types.ComplianceCorrect, "2024-04-30T08:00:00Z"),
		newLog(t, "B", types.ComplianceIncorrect, "2024-05-01T08:00:00Z"),
		newLog(t, "C", types.ComplianceCorrect, "2024-05-01T09:00:00Z"),
		newLog(t, "D", types.ComplianceWarning, "2024-05-01T10:00:00Z"),
	}
	now := mustTime(t, "2024-05-01T12:00:00Z")

	s := model.NewDashboardSummary(prescriptions, logs, now, time.UTC)
	gt.Number(t, s.ActivePrescriptions).Equal(4)
	gt.Number(t, s.TodaysMedication).Equal(3)
	gt.Number(t, s.ComplianceRate).Equal(50)
	gt.Value(t, s.Source).Equal(model.DashboardSourceLocal)

	gt.Array(t, s.Prescriptions).Length(3)
	gt.Value(t, s.Prescriptions[0].Name).Equal("A")
	gt.Value(t, s.Prescriptions[2].Name).Equal("C")

	gt.Array(t, s.RecentLogs).Length(3)
	gt.Value(t, s.RecentLogs[0].MedicationName).Equal("D")
	gt.Value(t, s.RecentLogs[2].MedicationName).Equal("B")
}

func TestNewDashboardSummary_Empty(t *testing.T) {
	s := model.NewDashboardSummary(nil, nil, time.Now(), time.UTC)
	gt.Number(t, s.ActivePrescriptions).Equal(0)
	gt.Number(t, s.TodaysMedication).Equal(0)
	gt.Number(t, s.ComplianceRate).Equal(0)
	gt.Array(t, s.Prescriptions).Length(0)
	gt.Array(t, s.RecentLogs).Length(0)
}

func TestDashboardSummary_ApplyRemote(t *testing.T) {
	s := model.NewDashboardSummary([]*model.Prescription{newPrescription("A", "1mg")}, nil, time.Now(), time.UTC)
	s.ApplyRemote(&model.RemoteDashboard{
		UserID:              123,
		ActivePrescriptions: 7,
		TodaysMedication:    2,
		Message:             "Dashboard updated successfully",
	})

	gt.Number(t, s.ActivePrescriptions).Equal(7)
	gt.Number(t, s.TodaysMedication).Equal(2)
	gt.Value(t, s.Source).Equal(model.DashboardSourceRemote)
	gt.Array(t, s.Prescriptions).Length(1)

	s.ApplyRemote(nil)
	gt.Number(t, s.ActivePrescriptions).Equal(7)
}
