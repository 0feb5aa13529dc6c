package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
	"github.com/secmon-lab/medmatch/pkg/utils/async"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
)

// finished capture sessions are forgotten after this long
const captureSessionTTL = time.Hour

// Confirmation is the outcome of committing a verdict to the medication log
type Confirmation struct {
	Log *model.MedicationLog `json:"log"`
	// AlreadyTaken is set when the same medication was already logged in the
	// same part of the same day. It is informational only.
	AlreadyTaken bool `json:"alreadyTaken"`
}

type CaptureUseCase struct {
	state    *AppState
	verifier interfaces.Verifier
	media    interfaces.MediaStore
	notifier interfaces.Notifier
	metrics  interfaces.Metrics
	loc      *time.Location
	now      func() time.Time

	mu       sync.Mutex
	sessions map[model.CaptureID]*model.CaptureSession
}

func NewCaptureUseCase(state *AppState, verifier interfaces.Verifier, media interfaces.MediaStore, notifier interfaces.Notifier, metrics interfaces.Metrics, loc *time.Location, now func() time.Time) *CaptureUseCase {
	return &CaptureUseCase{
		state:    state,
		verifier: verifier,
		media:    media,
		notifier: notifier,
		metrics:  metrics,
		loc:      loc,
		now:      now,
		sessions: make(map[model.CaptureID]*model.CaptureSession),
	}
}

// Evaluate produces a verdict for photo against the current prescriptions.
// With no prescriptions the verifier is not called. State is never modified.
func (uc *CaptureUseCase) Evaluate(ctx context.Context, photo *model.Photo) (*model.Verdict, error) {
	prescriptions := uc.state.Prescriptions()

	var verdict *model.Verdict
	if len(prescriptions) == 0 {
		logging.From(ctx).Info("No prescriptions to compare against")
		verdict = model.NoPrescriptionsVerdict()
	} else {
		v, err := uc.verifier.Verify(ctx, photo, prescriptions)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to verify medication photo",
				goerr.V("prescriptions", len(prescriptions)))
		}
		verdict = v
	}

	if uc.metrics != nil {
		uc.metrics.ObserveVerdict(verdict)
	}
	return verdict, nil
}

// ConfirmVerdict appends one medication log built from verdict and persists
// the state. A non-nil Confirmation means the log was appended even if the
// returned error reports a persistence failure.
func (uc *CaptureUseCase) ConfirmVerdict(ctx context.Context, verdict *model.Verdict, photoURL string) (*Confirmation, error) {
	log := model.NewLogFromVerdict(verdict, photoURL, uc.now())
	taken := model.AlreadyTaken(uc.state.Logs(), log.MedicationName, log.TimeTaken, uc.loc)

	if err := uc.state.AddLog(log); err != nil {
		return nil, goerr.Wrap(err, "failed to add medication log")
	}
	conf := &Confirmation{Log: log.Copy(), AlreadyTaken: taken}

	if uc.metrics != nil {
		uc.metrics.ObserveLogConfirmed(log)
	}
	logging.From(ctx).Info("Medication log confirmed",
		"log_id", log.ID,
		"compliance", log.Compliance,
		"already_taken", taken,
	)

	if log.Compliance != types.ComplianceCorrect && uc.notifier != nil {
		notified := log.Copy()
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyLog(ctx, notified)
		})
	}

	if err := uc.state.Persist(ctx); err != nil {
		return conf, goerr.Wrap(err, "failed to persist medication log", goerr.V(LogIDKey, log.ID))
	}
	return conf, nil
}

// Start stores photo and begins analysing it in the background. The returned
// session is in the analyzing state.
func (uc *CaptureUseCase) Start(ctx context.Context, photo *model.Photo) (*model.CaptureSession, error) {
	if photo.IsEmpty() {
		return nil, goerr.Wrap(ErrEmptyPhoto, "no photo data")
	}

	url, err := uc.media.Put(ctx, photo.Data, photo.ContentType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store photo")
	}
	photo.URL = url

	now := uc.now()
	session := &model.CaptureSession{
		ID:        model.NewCaptureID(),
		Status:    types.CaptureStatusAnalyzing,
		PhotoURL:  url,
		StartedAt: now,
		UpdatedAt: now,
	}

	uc.mu.Lock()
	uc.pruneLocked(now)
	uc.sessions[session.ID] = session
	snapshot := session.Copy()
	uc.mu.Unlock()

	id := session.ID
	async.Dispatch(ctx, func(ctx context.Context) error {
		verdict, err := uc.Evaluate(ctx, photo)
		uc.complete(ctx, id, verdict, err)
		return err
	})

	return snapshot, nil
}

// complete stores the analysis result unless the session was reset meanwhile
func (uc *CaptureUseCase) complete(ctx context.Context, id model.CaptureID, verdict *model.Verdict, err error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, ok := uc.sessions[id]
	if !ok || session.Status != types.CaptureStatusAnalyzing {
		logging.From(ctx).Info("Discarding analysis result of reset capture", "capture_id", id)
		return
	}

	session.UpdatedAt = uc.now()
	if err != nil {
		session.Status = types.CaptureStatusFailed
		session.Error = err.Error()
		return
	}
	session.Status = types.CaptureStatusReady
	session.Verdict = verdict
}

func (uc *CaptureUseCase) pruneLocked(now time.Time) {
	for id, s := range uc.sessions {
		if s.Status.IsTerminal() && now.Sub(s.UpdatedAt) > captureSessionTTL {
			delete(uc.sessions, id)
		}
	}
}

func (uc *CaptureUseCase) Get(ctx context.Context, id model.CaptureID) (*model.CaptureSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, ok := uc.sessions[id]
	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "capture session not found", goerr.V(CaptureIDKey, id))
	}
	return session.Copy(), nil
}

// Reset abandons the session. An analysis still running keeps running and
// its result is dropped when it arrives.
func (uc *CaptureUseCase) Reset(ctx context.Context, id model.CaptureID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.sessions[id]; !ok {
		return goerr.Wrap(ErrSessionNotFound, "capture session not found", goerr.V(CaptureIDKey, id))
	}
	delete(uc.sessions, id)
	return nil
}

// Confirm commits the verdict of a ready session. A session is confirmed at most once.
func (uc *CaptureUseCase) Confirm(ctx context.Context, id model.CaptureID) (*Confirmation, error) {
	uc.mu.Lock()
	session, ok := uc.sessions[id]
	if !ok {
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrSessionNotFound, "capture session not found", goerr.V(CaptureIDKey, id))
	}
	if session.Status != types.CaptureStatusReady {
		status := session.Status
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrSessionNotReady, "capture session cannot be confirmed",
			goerr.V(CaptureIDKey, id),
			goerr.V("status", status))
	}
	session.Status = types.CaptureStatusConfirmed
	verdict := session.Verdict.Copy()
	photoURL := session.PhotoURL
	uc.mu.Unlock()

	conf, err := uc.ConfirmVerdict(ctx, verdict, photoURL)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if conf == nil {
		session.Status = types.CaptureStatusReady
		return nil, err
	}
	session.LogID = conf.Log.ID
	session.UpdatedAt = uc.now()
	return conf, err
}
