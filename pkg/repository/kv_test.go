package repository_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
	"github.com/secmon-lab/medmatch/pkg/repository/file"
	"github.com/secmon-lab/medmatch/pkg/repository/firestore"
	"github.com/secmon-lab/medmatch/pkg/repository/gcs"
	"github.com/secmon-lab/medmatch/pkg/repository/memory"
)

func uniqueKey(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func runKVStoreTest(t *testing.T, newStore func(t *testing.T) interfaces.KVStore) {
	t.Helper()

	t.Run("Load of unknown key returns ErrKeyNotFound", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Load(context.Background(), uniqueKey("missing"))
		gt.Error(t, err).Is(interfaces.ErrKeyNotFound)
	})

	t.Run("Save then Load returns same bytes", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		key := uniqueKey("prescriptions")

		gt.NoError(t, store.Save(ctx, key, []byte(`[{"id":"1"}]`))).Required()

		got, err := store.Load(ctx, key)
		gt.NoError(t, err).Required()
		gt.Value(t, string(got)).Equal(`[{"id":"1"}]`)
	})

	t.Run("Save replaces value in full", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		key := uniqueKey("medicationLogs")

		gt.NoError(t, store.Save(ctx, key, []byte(`[1,2,3,4,5]`))).Required()
		gt.NoError(t, store.Save(ctx, key, []byte(`[]`))).Required()

		got, err := store.Load(ctx, key)
		gt.NoError(t, err).Required()
		gt.Value(t, string(got)).Equal(`[]`)
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		k1, k2 := uniqueKey("a"), uniqueKey("b")

		gt.NoError(t, store.Save(ctx, k1, []byte("one"))).Required()
		gt.NoError(t, store.Save(ctx, k2, []byte("two"))).Required()

		v1, err := store.Load(ctx, k1)
		gt.NoError(t, err).Required()
		v2, err := store.Load(ctx, k2)
		gt.NoError(t, err).Required()
		gt.Value(t, string(v1)).Equal("one")
		gt.Value(t, string(v2)).Equal("two")
	})

	t.Run("records survive a round trip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		key := uniqueKey("roundtrip")

		uploaded := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
		prescriptions := []*model.Prescription{
			{
				ID:           model.NewPrescriptionID(),
				Name:         "Lisinopril",
				Dosage:       "10mg",
				Frequency:    "Once daily",
				Instructions: "Take with or without food.",
				UploadedAt:   uploaded,
				ImageURL:     "blob:1",
			},
		}
		logs := []*model.MedicationLog{
			{
				ID:             model.NewMedicationLogID(),
				PrescriptionID: prescriptions[0].ID,
				MedicationName: "Lisinopril",
				Dosage:         "5mg",
				TimeTaken:      uploaded.Add(time.Hour),
				PhotoURL:       "blob:2",
				Verified:       true,
				Compliance:     types.ComplianceIncorrect,
				Notes:          "Dosage mismatch detected.",
			},
		}
		type snapshot struct {
			Prescriptions []*model.Prescription
			Logs          []*model.MedicationLog
		}
		want := snapshot{Prescriptions: prescriptions, Logs: logs}

		raw, err := json.Marshal(want)
		gt.NoError(t, err).Required()
		gt.NoError(t, store.Save(ctx, key, raw)).Required()

		loaded, err := store.Load(ctx, key)
		gt.NoError(t, err).Required()

		var got snapshot
		gt.NoError(t, json.Unmarshal(loaded, &got)).Required()
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMemoryKVStore(t *testing.T) {
	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		return memory.New()
	})
}

func TestFileKVStore(t *testing.T) {
	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		store, err := file.New(t.TempDir())
		gt.NoError(t, err).Required()
		return store
	})

	t.Run("rejects path-like keys", func(t *testing.T) {
		store, err := file.New(t.TempDir())
		gt.NoError(t, err).Required()

		err = store.Save(context.Background(), "../escape", []byte("x"))
		gt.Error(t, err).Is(file.ErrInvalidKey)
	})
}

func TestFirestoreKVStore(t *testing.T) {
	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		t.Helper()

		projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
		if projectID == "" {
			t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
		}
		databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

		store, err := firestore.New(context.Background(), projectID, databaseID,
			firestore.WithCollectionPrefix("test_"))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return store
	})
}

func TestGCSKVStore(t *testing.T) {
	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		t.Helper()

		bucket := os.Getenv("TEST_GCS_BUCKET")
		if bucket == "" {
			t.Skip("TEST_GCS_BUCKET not set")
		}

		store, err := gcs.New(context.Background(), bucket,
			gcs.WithPrefix("medmatch-test"),
			gcs.WithEndpoint(os.Getenv("TEST_GCS_ENDPOINT")),
		)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return store
	})
}
