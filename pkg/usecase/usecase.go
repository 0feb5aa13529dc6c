package usecase

import (
	"time"

	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
)

// DefaultUserID is the single user the remote dashboard reports for
const DefaultUserID = 123

type UseCases struct {
	state     *AppState
	verifier  interfaces.Verifier
	extractor interfaces.Extractor
	media     interfaces.MediaStore
	checker   interfaces.InteractionChecker
	dashboard interfaces.DashboardClient
	notifier  interfaces.Notifier
	metrics   interfaces.Metrics
	userID    int
	loc       *time.Location
	now       func() time.Time

	Capture      *CaptureUseCase
	Prescription *PrescriptionUseCase
	History      *HistoryUseCase
	Dashboard    *DashboardUseCase
}

type Option func(*UseCases)

func WithInteractionChecker(checker interfaces.InteractionChecker) Option {
	return func(uc *UseCases) {
		uc.checker = checker
	}
}

func WithDashboardClient(client interfaces.DashboardClient) Option {
	return func(uc *UseCases) {
		uc.dashboard = client
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithMetrics(metrics interfaces.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = metrics
	}
}

func WithUserID(id int) Option {
	return func(uc *UseCases) {
		uc.userID = id
	}
}

// WithLocation sets the time zone used for "today" and time-of-day buckets
func WithLocation(loc *time.Location) Option {
	return func(uc *UseCases) {
		if loc != nil {
			uc.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(state *AppState, verifier interfaces.Verifier, extractor interfaces.Extractor, media interfaces.MediaStore, opts ...Option) *UseCases {
	uc := &UseCases{
		state:     state,
		verifier:  verifier,
		extractor: extractor,
		media:     media,
		userID:    DefaultUserID,
		loc:       time.Local,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Capture = NewCaptureUseCase(state, verifier, media, uc.notifier, uc.metrics, uc.loc, uc.now)
	uc.Prescription = NewPrescriptionUseCase(state, extractor, media, uc.checker, uc.now)
	uc.History = NewHistoryUseCase(state, uc.loc)
	uc.Dashboard = NewDashboardUseCase(state, uc.dashboard, uc.metrics, uc.userID, uc.loc, uc.now)

	return uc
}

// State returns the application state shared by all use cases
func (uc *UseCases) State() *AppState {
	return uc.state
}
