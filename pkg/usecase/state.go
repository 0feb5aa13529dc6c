package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"golang.org/x/sync/errgroup"
)

// Default persistence keys, shared with the browser client's local storage
const (
	DefaultPrescriptionsKey = "prescriptions"
	DefaultLogsKey          = "medicationLogs"
)

// StateKeys names the two keys the application state is persisted under
type StateKeys struct {
	Prescriptions string
	Logs          string
}

// DefaultStateKeys returns the keys used when nothing else is configured
func DefaultStateKeys() StateKeys {
	return StateKeys{
		Prescriptions: DefaultPrescriptionsKey,
		Logs:          DefaultLogsKey,
	}
}

// AppState owns the prescription list and the medication log. AddPrescription,
// DeletePrescription and AddLog are its only mutators; none of them persists.
// Callers trigger Persist explicitly after a change.
type AppState struct {
	store interfaces.KVStore
	keys  StateKeys

	mu            sync.RWMutex
	prescriptions []*model.Prescription
	logs          []*model.MedicationLog

	// serializes Persist so a later call never writes an older snapshot
	persistMu sync.Mutex
}

type StateOption func(*AppState)

func WithStateKeys(keys StateKeys) StateOption {
	return func(s *AppState) {
		if keys.Prescriptions != "" {
			s.keys.Prescriptions = keys.Prescriptions
		}
		if keys.Logs != "" {
			s.keys.Logs = keys.Logs
		}
	}
}

func NewAppState(store interfaces.KVStore, opts ...StateOption) *AppState {
	s := &AppState{
		store:         store,
		keys:          DefaultStateKeys(),
		prescriptions: []*model.Prescription{},
		logs:          []*model.MedicationLog{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collections with the persisted ones. A key
// that was never saved yields an empty collection.
func (s *AppState) Load(ctx context.Context) error {
	var (
		prescriptions []*model.Prescription
		logs          []*model.MedicationLog
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.loadKey(ctx, s.keys.Prescriptions, &prescriptions)
	})
	eg.Go(func() error {
		return s.loadKey(ctx, s.keys.Logs, &logs)
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	if prescriptions == nil {
		prescriptions = []*model.Prescription{}
	}
	if logs == nil {
		logs = []*model.MedicationLog{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prescriptions = prescriptions
	s.logs = logs
	return nil
}

func (s *AppState) loadKey(ctx context.Context, key string, dst any) error {
	raw, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return nil
		}
		return goerr.Wrap(err, "failed to load state", goerr.V(StateKeyKey, key))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return goerr.Wrap(ErrMalformedState, err.Error(), goerr.V(StateKeyKey, key))
	}
	return nil
}

// Persist writes both collections in full
func (s *AppState) Persist(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	rawPrescriptions, err := json.Marshal(s.prescriptions)
	if err != nil {
		s.mu.RUnlock()
		return goerr.Wrap(err, "failed to marshal prescriptions")
	}
	rawLogs, err := json.Marshal(s.logs)
	s.mu.RUnlock()
	if err != nil {
		return goerr.Wrap(err, "failed to marshal medication logs")
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := s.store.Save(ctx, s.keys.Prescriptions, rawPrescriptions); err != nil {
			return goerr.Wrap(err, "failed to save prescriptions", goerr.V(StateKeyKey, s.keys.Prescriptions))
		}
		return nil
	})
	eg.Go(func() error {
		if err := s.store.Save(ctx, s.keys.Logs, rawLogs); err != nil {
			return goerr.Wrap(err, "failed to save medication logs", goerr.V(StateKeyKey, s.keys.Logs))
		}
		return nil
	})
	return eg.Wait()
}

// AddPrescription appends p to the end of the prescription list
func (s *AppState) AddPrescription(p *model.Prescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.prescriptions {
		if existing.ID == p.ID {
			return goerr.Wrap(ErrDuplicateID, "prescription already exists", goerr.V(PrescriptionIDKey, p.ID))
		}
	}
	s.prescriptions = append(s.prescriptions, p.Copy())
	return nil
}

// DeletePrescription removes the prescription with id. Logs referencing it
// are left untouched.
func (s *AppState) DeletePrescription(id model.PrescriptionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.prescriptions {
		if p.ID == id {
			s.prescriptions = append(s.prescriptions[:i:i], s.prescriptions[i+1:]...)
			return nil
		}
	}
	return goerr.Wrap(ErrPrescriptionNotFound, "prescription not found", goerr.V(PrescriptionIDKey, id))
}

// AddLog appends log to the medication log. Logs are never edited or removed.
func (s *AppState) AddLog(log *model.MedicationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.logs {
		if existing.ID == log.ID {
			return goerr.Wrap(ErrDuplicateID, "medication log already exists", goerr.V(LogIDKey, log.ID))
		}
	}
	s.logs = append(s.logs, log.Copy())
	return nil
}

// Prescriptions returns a copy of the prescription list in insertion order
func (s *AppState) Prescriptions() []*model.Prescription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Prescription, len(s.prescriptions))
	for i, p := range s.prescriptions {
		out[i] = p.Copy()
	}
	return out
}

// Logs returns a copy of the medication log in insertion order
func (s *AppState) Logs() []*model.MedicationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.MedicationLog, len(s.logs))
	for i, log := range s.logs {
		out[i] = log.Copy()
	}
	return out
}

func (s *AppState) Prescription(id model.PrescriptionID) (*model.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.prescriptions {
		if p.ID == id {
			return p.Copy(), nil
		}
	}
	return nil, goerr.Wrap(ErrPrescriptionNotFound, "prescription not found", goerr.V(PrescriptionIDKey, id))
}
