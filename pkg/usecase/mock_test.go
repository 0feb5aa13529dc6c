package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
)

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type mockVerifier struct {
	verifyFn func(ctx context.Context, photo *model.Photo, prescriptions []*model.Prescription) (*model.Verdict, error)
	mu       sync.Mutex
	calls    int
}

func (m *mockVerifier) Verify(ctx context.Context, photo *model.Photo, prescriptions []*model.Prescription) (*model.Verdict, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.verifyFn != nil {
		return m.verifyFn(ctx, photo, prescriptions)
	}
	return model.MatchVerdict(prescriptions[0]), nil
}

func (m *mockVerifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockExtractor struct {
	extractFn func(ctx context.Context, photo *model.Photo) (*model.ExtractedPrescription, error)
}

func (m *mockExtractor) Extract(ctx context.Context, photo *model.Photo) (*model.ExtractedPrescription, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, photo)
	}
	return &model.ExtractedPrescription{
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "Once daily",
	}, nil
}

type mockMediaStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMockMediaStore() *mockMediaStore {
	return &mockMediaStore{blobs: make(map[string][]byte)}
}

func (m *mockMediaStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := fmt.Sprintf("blob:%d", len(m.blobs)+1)
	m.blobs[url] = data
	return url, nil
}

func (m *mockMediaStore) Open(ctx context.Context, url string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[url]
	if !ok {
		return nil, "", goerr.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "image/jpeg", nil
}

type mockNotifier struct {
	ch chan *model.MedicationLog
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{ch: make(chan *model.MedicationLog, 8)}
}

func (m *mockNotifier) NotifyLog(ctx context.Context, log *model.MedicationLog) error {
	m.ch <- log
	return nil
}

type mockDashboardClient struct {
	fetchFn func(ctx context.Context) (*model.RemoteDashboard, error)
	calls   int
}

func (m *mockDashboardClient) Fetch(ctx context.Context) (*model.RemoteDashboard, error) {
	m.calls++
	return m.fetchFn(ctx)
}

type mockChecker struct {
	checkFn func(ctx context.Context, existing []*model.Prescription, newMed *model.Prescription) ([]*model.Interaction, error)
}

func (m *mockChecker) Check(ctx context.Context, existing []*model.Prescription, newMed *model.Prescription) ([]*model.Interaction, error) {
	return m.checkFn(ctx, existing, newMed)
}

// failingKV accepts loads but rejects every save
type failingKV struct {
	interfaces.KVStore
}

func (f *failingKV) Save(ctx context.Context, key string, data []byte) error {
	return goerr.New("disk full")
}

var (
	_ interfaces.Verifier           = &mockVerifier{}
	_ interfaces.Extractor          = &mockExtractor{}
	_ interfaces.MediaStore         = &mockMediaStore{}
	_ interfaces.Notifier           = &mockNotifier{}
	_ interfaces.DashboardClient    = &mockDashboardClient{}
	_ interfaces.InteractionChecker = &mockChecker{}
)
