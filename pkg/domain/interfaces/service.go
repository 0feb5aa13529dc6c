package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/medmatch/pkg/domain/model"
)

// DashboardClient fetches the optional remote dashboard summary
type DashboardClient interface {
	Fetch(ctx context.Context) (*model.RemoteDashboard, error)
}

// Notifier delivers alerts about non-compliant medication logs
type Notifier interface {
	NotifyLog(ctx context.Context, log *model.MedicationLog) error
}

// MediaStore keeps captured images and hands out opaque locators for them
type MediaStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Open(ctx context.Context, url string) (io.ReadCloser, string, error)
}

// Metrics records domain events
type Metrics interface {
	ObserveVerdict(v *model.Verdict)
	ObserveLogConfirmed(log *model.MedicationLog)
	ObserveDashboardFetch(ok bool)
}
