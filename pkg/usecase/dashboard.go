package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
)

const (
	remoteDashboardMessage     = "Dashboard updated successfully"
	activePrescriptionsMessage = "Active prescriptions retrieved successfully"
	todaysMedicationMessage    = "Today's medication count retrieved successfully"
)

type DashboardUseCase struct {
	state   *AppState
	client  interfaces.DashboardClient
	metrics interfaces.Metrics
	userID  int
	loc     *time.Location
	now     func() time.Time
}

func NewDashboardUseCase(state *AppState, client interfaces.DashboardClient, metrics interfaces.Metrics, userID int, loc *time.Location, now func() time.Time) *DashboardUseCase {
	return &DashboardUseCase{
		state:   state,
		client:  client,
		metrics: metrics,
		userID:  userID,
		loc:     loc,
		now:     now,
	}
}

// Summary computes the dashboard from local state. When a remote endpoint is
// configured its two counters replace the local ones; any failure keeps the
// local values. The fetch is attempted once.
func (uc *DashboardUseCase) Summary(ctx context.Context) *model.DashboardSummary {
	summary := model.NewDashboardSummary(uc.state.Prescriptions(), uc.state.Logs(), uc.now(), uc.loc)
	if uc.client == nil {
		return summary
	}

	remote, err := uc.client.Fetch(ctx)
	if uc.metrics != nil {
		uc.metrics.ObserveDashboardFetch(err == nil)
	}
	if err != nil {
		logging.From(ctx).Warn("Dashboard service unavailable, using local counters", "error", err)
		return summary
	}

	summary.ApplyRemote(remote)
	return summary
}

// RemoteView renders local state in the remote dashboard wire shape
func (uc *DashboardUseCase) RemoteView(ctx context.Context) *model.RemoteDashboard {
	return &model.RemoteDashboard{
		UserID:              uc.userID,
		ActivePrescriptions: len(uc.state.Prescriptions()),
		TodaysMedication:    len(model.TodaysLogs(uc.state.Logs(), uc.now(), uc.loc)),
		Message:             remoteDashboardMessage,
	}
}

// ActivePrescriptions reports the number of prescriptions on record
func (uc *DashboardUseCase) ActivePrescriptions(ctx context.Context) *model.CountResponse {
	return &model.CountResponse{
		UserID:  uc.userID,
		Count:   len(uc.state.Prescriptions()),
		Message: activePrescriptionsMessage,
	}
}

// TodaysMedication reports the number of logs taken on the current local day
func (uc *DashboardUseCase) TodaysMedication(ctx context.Context) *model.CountResponse {
	return &model.CountResponse{
		UserID:  uc.userID,
		Count:   len(model.TodaysLogs(uc.state.Logs(), uc.now(), uc.loc)),
		Message: todaysMedicationMessage,
	}
}
