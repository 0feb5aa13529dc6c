package cli_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/cli"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

type testWorkspace struct {
	dataDir string
	config  string
	image   string
}

func newWorkspace(t *testing.T) *testWorkspace {
	t.Helper()
	dir := t.TempDir()
	ws := &testWorkspace{
		dataDir: filepath.Join(dir, "data"),
		config:  filepath.Join(dir, "medmatch.toml"),
		image:   filepath.Join(dir, "photo.jpg"),
	}
	gt.NoError(t, os.WriteFile(ws.config, []byte(`
time_zone = "UTC"

[analysis]
verify_delay = "0s"
extract_delay = "0s"
`), 0600)).Required()
	gt.NoError(t, os.WriteFile(ws.image, []byte("not really a jpeg"), 0600)).Required()
	return ws
}

// run invokes the command path with the workspace flags placed before args
func (ws *testWorkspace) run(t *testing.T, command []string, args ...string) error {
	t.Helper()
	full := []string{"medmatch", "--log-level", "error"}
	full = append(full, command...)
	full = append(full,
		"--config", ws.config,
		"--repository-backend", "file",
		"--data-dir", ws.dataDir,
		"--dashboard-endpoint", "",
	)
	full = append(full, args...)
	return cli.Run(context.Background(), full, "test")
}

var (
	rxAdd     = []string{"prescription", "add"}
	rxList    = []string{"prescription", "list"}
	rxDelete  = []string{"prescription", "delete"}
	rxExtract = []string{"prescription", "extract"}
	capture   = []string{"capture"}
	history   = []string{"history"}
	dashboard = []string{"dashboard"}
)

func (ws *testWorkspace) prescriptions(t *testing.T) []*model.Prescription {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ws.dataDir, "prescriptions.json"))
	gt.NoError(t, err).Required()
	var list []*model.Prescription
	gt.NoError(t, json.Unmarshal(data, &list)).Required()
	return list
}

func (ws *testWorkspace) logs(t *testing.T) []*model.MedicationLog {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ws.dataDir, "medicationLogs.json"))
	gt.NoError(t, err).Required()
	var list []*model.MedicationLog
	gt.NoError(t, json.Unmarshal(data, &list)).Required()
	return list
}

func TestPrescriptionCommands(t *testing.T) {
	ws := newWorkspace(t)

	gt.NoError(t, ws.run(t, rxAdd,
		"--name", "Atorvastatin",
		"--dosage", "20mg",
		"--frequency", "Once daily at bedtime",
		"--image", ws.image,
	))

	t.Run("extract fills missing fields", func(t *testing.T) {
		gt.NoError(t, ws.run(t, rxAdd, "--extract", "--dosage", "5mg", "--image", ws.image))
		list := ws.prescriptions(t)
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[1].Name).Equal("Lisinopril")
		gt.Value(t, list[1].Dosage).Equal("5mg")
	})

	t.Run("incomplete prescription is rejected", func(t *testing.T) {
		gt.Error(t, ws.run(t, rxAdd, "--name", "Aspirin", "--image", ws.image))
		gt.Array(t, ws.prescriptions(t)).Length(2)
	})

	t.Run("list and extract run", func(t *testing.T) {
		gt.NoError(t, ws.run(t, rxList))
		gt.NoError(t, ws.run(t, rxExtract, ws.image))
	})

	t.Run("delete", func(t *testing.T) {
		id := ws.prescriptions(t)[0].ID.String()
		gt.NoError(t, ws.run(t, rxDelete, id))
		gt.Array(t, ws.prescriptions(t)).Length(1)
		gt.Error(t, ws.run(t, rxDelete, id))
	})
}

func TestCaptureAndHistoryCommands(t *testing.T) {
	ws := newWorkspace(t)
	gt.NoError(t, ws.run(t, rxAdd,
		"--name", "Metformin",
		"--dosage", "500mg",
		"--frequency", "Twice daily",
		"--image", ws.image,
	)).Required()

	gt.NoError(t, ws.run(t, capture, ws.image))
	_, err := os.Stat(filepath.Join(ws.dataDir, "medicationLogs.json"))
	gt.Bool(t, os.IsNotExist(err) || len(ws.logs(t)) == 0).True()

	gt.NoError(t, ws.run(t, capture, "--confirm", ws.image))
	logs := ws.logs(t)
	gt.Array(t, logs).Length(1).Required()
	gt.Bool(t, logs[0].Compliance.IsValid()).True()
	gt.Value(t, logs[0].PrescriptionID).Equal(ws.prescriptions(t)[0].ID)

	gt.NoError(t, ws.run(t, history))
	gt.NoError(t, ws.run(t, history, "--compliance", "warning", "--search", "met"))
	gt.Error(t, ws.run(t, history, "--compliance", "maybe"))
	gt.NoError(t, ws.run(t, dashboard))
}

func TestCaptureConfirmWaitsForAlert(t *testing.T) {
	var delivered atomic.Int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		delivered.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	ws := newWorkspace(t)
	gt.NoError(t, ws.run(t, rxAdd,
		"--name", "Metformin",
		"--dosage", "500mg",
		"--frequency", "Twice daily",
		"--image", ws.image,
	)).Required()

	// the mock verdict is random; repeat until an alerting outcome was logged
	var alerted int32
	for range 20 {
		gt.NoError(t, ws.run(t, capture, "--slack-webhook-url", webhook.URL, "--confirm", ws.image)).Required()

		alerted = 0
		for _, log := range ws.logs(t) {
			if log.Compliance != types.ComplianceCorrect {
				alerted++
			}
		}
		gt.Number(t, delivered.Load()).Equal(alerted)
		if alerted > 0 {
			break
		}
	}
	gt.Bool(t, alerted > 0).True()
}
