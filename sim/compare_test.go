package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_AllDisciplines_SampleSet(t *testing.T) {
	// GIVEN the sample set and an empty config
	procs := sampleProcesses()

	// WHEN all disciplines are compared
	cmp, err := Compare(context.Background(), procs, &RunConfig{})

	// THEN one result per discipline arrives in canonical order
	require.NoError(t, err)
	require.Len(t, cmp.Results, 5)
	want := map[Discipline][2]float64{
		DisciplineFCFS:       {11.25, 5.75},
		DisciplineSJF:        {10.75, 5.25},
		DisciplineSRTF:       {10.5, 5.0},
		DisciplinePriority:   {10.75, 5.25},
		DisciplineRoundRobin: {15.25, 9.75},
	}
	for i, d := range AllDisciplines() {
		r := cmp.Results[i]
		assert.Equal(t, d, r.Discipline)
		assert.InDelta(t, want[d][0], r.Metrics.AvgTurnaround, 1e-9, d)
		assert.InDelta(t, want[d][1], r.Metrics.AvgWaiting, 1e-9, d)
	}
	assert.Equal(t, int64(2), cmp.Results[4].Quantum)

	// AND SRTF has the lowest average waiting time
	assert.Equal(t, DisciplineSRTF, cmp.Best().Discipline)
}

func TestCompare_DoesNotMutateInput(t *testing.T) {
	procs := sampleProcesses()

	_, err := Compare(context.Background(), procs, &RunConfig{ContextSwitch: int64Ptr(2)})

	require.NoError(t, err)
	for _, p := range procs {
		assert.Equal(t, Unset, p.StartTime, "P%d", p.PID)
		assert.Equal(t, p.BurstTime, p.RemainingTime, "P%d", p.PID)
	}
}

func TestCompare_MatchesSequentialRuns(t *testing.T) {
	cfg := &RunConfig{TimeQuantum: int64Ptr(3), ContextSwitch: int64Ptr(1)}
	cmp, err := Compare(context.Background(), sampleProcesses(), cfg)
	require.NoError(t, err)

	for i, d := range AllDisciplines() {
		seq := NewScheduler(sampleProcesses(), 1).Run(mustPolicy(t, string(d), 3))
		assert.Equal(t, seq, cmp.Results[i], "concurrent %s must equal a sequential run", d)
	}
}

func TestCompare_Subset_WithTrace(t *testing.T) {
	cfg := &RunConfig{Algorithms: []string{"rr", "fcfs"}, TraceLevel: "decisions"}

	cmp, err := Compare(context.Background(), sampleProcesses(), cfg)

	require.NoError(t, err)
	require.Len(t, cmp.Results, 2)
	assert.Equal(t, DisciplineFCFS, cmp.Results[0].Discipline)
	assert.Equal(t, DisciplineRoundRobin, cmp.Results[1].Discipline)
	require.Len(t, cmp.Traces, 2)
	for i, tr := range cmp.Traces {
		require.NotNil(t, tr)
		assert.Len(t, tr.Dispatches, len(cmp.Results[i].Timeline))
	}
}

func TestCompare_InvalidConfig_ReturnsError(t *testing.T) {
	_, err := Compare(context.Background(), sampleProcesses(), &RunConfig{Algorithms: []string{"nope"}})
	assert.Error(t, err)
}

func TestCompare_CanceledContext_ReturnsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compare(ctx, sampleProcesses(), &RunConfig{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare_HorizonOverflow_ReturnsErrorBeforeRunning(t *testing.T) {
	// GIVEN an arrival so late that its completion would wrap the clock
	procs := []*Process{NewProcess(1, math.MaxInt64-5, 100, 1)}

	// WHEN compared
	cmp, err := Compare(context.Background(), procs, &RunConfig{})

	// THEN no run is attempted
	assert.ErrorIs(t, err, ErrHorizonOverflow)
	assert.Nil(t, cmp)
}

func TestCompare_DeadlineStopsLongRun(t *testing.T) {
	// GIVEN a round robin run with millions of one-tick dispatches and a short deadline
	procs := []*Process{NewProcess(1, 0, 50_000_000, 1), NewProcess(2, 0, 50_000_000, 1)}
	q := int64(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// WHEN compared
	_, err := Compare(ctx, procs, &RunConfig{Algorithms: []string{"rr"}, TimeQuantum: &q})

	// THEN the deadline ends the run
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestComparison_Best_TieKeepsEarlier(t *testing.T) {
	a := &Result{Discipline: DisciplineSJF, Metrics: Metrics{AvgWaiting: 5.25}}
	b := &Result{Discipline: DisciplinePriority, Metrics: Metrics{AvgWaiting: 5.25}}
	cmp := &Comparison{Results: []*Result{a, b}}

	assert.Same(t, a, cmp.Best())
	assert.Nil(t, (&Comparison{}).Best())
}
