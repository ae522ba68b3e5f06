// Package testutil provides shared test infrastructure for the scheduling simulator.
// It consolidates golden dataset types and assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden_schedules.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one hand-verified schedule: inputs, the exact timeline
// and the per-process results a correct engine must produce.
type GoldenTestCase struct {
	Name          string                `json:"name"`
	Discipline    string                `json:"discipline"`
	Quantum       int64                 `json:"quantum"`
	ContextSwitch int64                 `json:"context_switch"`
	Processes     []GoldenProcess       `json:"processes"`
	Timeline      []GoldenInterval      `json:"timeline"`
	Expected      []GoldenProcessResult `json:"expected"`
	AvgTurnaround float64               `json:"avg_turnaround"`
	AvgWaiting    float64               `json:"avg_waiting"`
}

// GoldenProcess is a process input.
type GoldenProcess struct {
	PID         int   `json:"pid"`
	ArrivalTime int64 `json:"arrival_time"`
	BurstTime   int64 `json:"burst_time"`
	Priority    int   `json:"priority"`
}

// GoldenInterval is one expected timeline entry.
type GoldenInterval struct {
	PID   int   `json:"pid"`
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// GoldenProcessResult holds the expected derived times of one process.
type GoldenProcessResult struct {
	PID            int   `json:"pid"`
	CompletionTime int64 `json:"completion_time"`
	TurnaroundTime int64 `json:"turnaround_time"`
	WaitingTime    int64 `json:"waiting_time"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_schedules.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
