package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/medmatch/pkg/domain/model"
)

type HistoryUseCase struct {
	state *AppState
	loc   *time.Location
}

func NewHistoryUseCase(state *AppState, loc *time.Location) *HistoryUseCase {
	return &HistoryUseCase{state: state, loc: loc}
}

// List returns the medication history matching filter, newest first
func (uc *HistoryUseCase) List(ctx context.Context, filter model.LogFilter) []*model.HistoryEntry {
	prescriptions := uc.state.Prescriptions()
	logs := model.FilterLogs(uc.state.Logs(), filter)

	entries := make([]*model.HistoryEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, &model.HistoryEntry{
			Log:               log,
			PrescriptionLabel: model.PrescriptionLabel(prescriptions, log.PrescriptionID),
			TimeOfDay:         log.TimeOfDay(uc.loc),
			Badge:             log.Compliance.Label(),
		})
	}
	return entries
}
