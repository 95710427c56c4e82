package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/eulerode/internal/ode"
	"github.com/san-kum/eulerode/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times:      []float64{0, 0.5, 1},
		States:     []ode.State{{1, 0}, {0.5, -0.25}, {0.25, 0.125}},
		Status:     ode.StatusFinished,
		Success:    true,
		Message:    sim.SuccessMessage,
		StepsTaken: 2,
		NFev:       2,
		Metrics:    map[string]float64{"max_error": 0.1},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{Model: "decay", Method: "euler", T0: 0, TBound: 1, H: 0.5, Y0: []float64{1, 0}}, sampleResult())
	require.NoError(t, err)

	_, err = uuid.Parse(runID)
	assert.NoError(t, err, "run ids are uuids")

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "decay", meta.Model)
	assert.Equal(t, "euler", meta.Method)
	assert.Equal(t, "finished", meta.Status)
	assert.Equal(t, sim.SuccessMessage, meta.Message)
	assert.Equal(t, 2, meta.Steps)
	assert.Equal(t, 0.1, meta.Metrics["max_error"])
	assert.False(t, meta.Timestamp.IsZero())

	states, times, err := st.LoadStates(runID)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, times)
	require.Len(t, states, 3)
	assert.Equal(t, ode.State{0.5, -0.25}, states[1])
}

func TestStoreSaveFailureRemovesRunDir(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	result := sampleResult()
	result.Metrics = map[string]float64{"energy_drift": math.NaN()}

	_, err := st.Save(RunMetadata{ID: "broken", Model: "decay", Method: "euler"}, result)
	require.Error(t, err, "NaN metrics cannot be encoded")

	_, statErr := os.Stat(filepath.Join(dir, "broken"))
	assert.True(t, os.IsNotExist(statErr), "partial run directory is removed")

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreCSVFormat(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(RunMetadata{ID: "fixed", Model: "decay"}, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "fixed", runID)

	data, err := os.ReadFile(filepath.Join(dir, runID, "states.csv"))
	require.NoError(t, err)

	want := "time,x0,x1\n" +
		"0.000000,1.000000,0.000000\n" +
		"0.500000,0.500000,-0.250000\n" +
		"1.000000,0.250000,0.125000\n"
	assert.Equal(t, want, string(data))
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = st.Save(RunMetadata{ID: "b", Model: "decay", Timestamp: base.Add(time.Hour)}, sampleResult())
	require.NoError(t, err)
	_, err = st.Save(RunMetadata{ID: "a", Model: "oscillator", Timestamp: base}, sampleResult())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(st.baseDir, "stray.txt"), []byte("x"), 0644))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, _, err = st.LoadStates("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStoreEmptyResult(t *testing.T) {
	st := New(t.TempDir())

	runID, err := st.Save(RunMetadata{Model: "decay"}, &sim.Result{Status: ode.StatusFailed, Message: "Step failed: boom"})
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "failed", meta.Status)

	states, times, err := st.LoadStates(runID)
	require.NoError(t, err)
	assert.Empty(t, states)
	assert.Empty(t, times)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewExportData("decay", "euler", 0, 1, sampleResult())))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "decay", got.Model)
	assert.Equal(t, "finished", got.Status)
	assert.True(t, got.Success)
	assert.Equal(t, 2, got.Steps)
	assert.Equal(t, [][]float64{{1, 0}, {0.5, -0.25}, {0.25, 0.125}}, got.States)
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ExportJSON(path, NewExportData("decay", "euler", 0, 1, sampleResult())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"method": "euler"`)
}
