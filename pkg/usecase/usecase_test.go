package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/repository/memory"
	"github.com/secmon-lab/medmatch/pkg/usecase"
)

func TestNew(t *testing.T) {
	state := usecase.NewAppState(memory.New())
	client := &mockDashboardClient{
		fetchFn: func(ctx context.Context) (*model.RemoteDashboard, error) {
			return &model.RemoteDashboard{ActivePrescriptions: 5}, nil
		},
	}
	uc := usecase.New(state, &mockVerifier{}, &mockExtractor{}, newMockMediaStore(),
		usecase.WithDashboardClient(client),
		usecase.WithUserID(7),
		usecase.WithLocation(time.UTC),
		usecase.WithClock(fixedClock),
	)

	gt.Value(t, uc.State()).Equal(state)
	gt.Value(t, uc.Capture).NotNil()
	gt.Value(t, uc.Prescription).NotNil()
	gt.Value(t, uc.History).NotNil()

	gt.Number(t, uc.Dashboard.RemoteView(context.Background()).UserID).Equal(7)
	gt.Number(t, uc.Dashboard.Summary(context.Background()).ActivePrescriptions).Equal(5)
}
