package sim

import (
	"testing"

	"github.com/schedsim/schedsim/sim/internal/testutil"
)

// sampleProcesses returns the classic four-process set:
// P1(0,5,pr2) P2(1,3,pr1) P3(2,8,pr3) P4(3,6,pr2).
func sampleProcesses() []*Process {
	return []*Process{
		NewProcess(1, 0, 5, 2),
		NewProcess(2, 1, 3, 1),
		NewProcess(3, 2, 8, 3),
		NewProcess(4, 3, 6, 2),
	}
}

func goldenProcesses(tc testutil.GoldenTestCase) []*Process {
	procs := make([]*Process, len(tc.Processes))
	for i, p := range tc.Processes {
		procs[i] = NewProcess(p.PID, p.ArrivalTime, p.BurstTime, p.Priority)
	}
	return procs
}

func goldenTimeline(tc testutil.GoldenTestCase) Timeline {
	tl := make(Timeline, len(tc.Timeline))
	for i, iv := range tc.Timeline {
		tl[i] = Interval{PID: iv.PID, Start: iv.Start, End: iv.End}
	}
	return tl
}

func mustPolicy(t *testing.T, name string, quantum int64) Policy {
	t.Helper()
	p, err := NewPolicy(name, quantum)
	if err != nil {
		t.Fatalf("NewPolicy(%q, %d): %v", name, quantum, err)
	}
	return p
}

func byPID(procs []*Process) map[int]*Process {
	m := make(map[int]*Process, len(procs))
	for _, p := range procs {
		m[p.PID] = p
	}
	return m
}

func timelinePIDs(tl Timeline) []int {
	pids := make([]int, len(tl))
	for i, iv := range tl {
		pids[i] = iv.PID
	}
	return pids
}

// assertScheduleInvariants checks the properties every correct run must satisfy:
// ordered non-overlapping intervals, work conservation, and metric identities.
func assertScheduleInvariants(t *testing.T, name string, procs []*Process, tl Timeline) {
	t.Helper()
	if err := tl.Validate(); err != nil {
		t.Errorf("%s: invalid timeline: %v", name, err)
	}

	served := make(map[int]int64)
	lastEnd := make(map[int]int64)
	for _, iv := range tl {
		served[iv.PID] += iv.Duration()
		lastEnd[iv.PID] = iv.End
	}
	var totalBurst int64
	for _, p := range procs {
		totalBurst += p.BurstTime
		if served[p.PID] != p.BurstTime {
			t.Errorf("%s: P%d served %d ticks, burst is %d", name, p.PID, served[p.PID], p.BurstTime)
		}
		if p.RemainingTime != 0 {
			t.Errorf("%s: P%d left with %d remaining", name, p.PID, p.RemainingTime)
		}
		if p.CompletionTime != lastEnd[p.PID] {
			t.Errorf("%s: P%d completion %d, last interval ends at %d", name, p.PID, p.CompletionTime, lastEnd[p.PID])
		}
		if p.TurnaroundTime != p.CompletionTime-p.ArrivalTime {
			t.Errorf("%s: P%d turnaround %d != completion %d - arrival %d", name, p.PID, p.TurnaroundTime, p.CompletionTime, p.ArrivalTime)
		}
		if p.WaitingTime != p.TurnaroundTime-p.BurstTime {
			t.Errorf("%s: P%d waiting %d != turnaround %d - burst %d", name, p.PID, p.WaitingTime, p.TurnaroundTime, p.BurstTime)
		}
		if p.WaitingTime < 0 || p.TurnaroundTime < p.BurstTime {
			t.Errorf("%s: P%d has negative waiting time %d", name, p.PID, p.WaitingTime)
		}
		if p.StartTime < p.ArrivalTime {
			t.Errorf("%s: P%d started at %d before arriving at %d", name, p.PID, p.StartTime, p.ArrivalTime)
		}
	}
	if tl.Busy() != totalBurst {
		t.Errorf("%s: timeline busy %d, total burst %d", name, tl.Busy(), totalBurst)
	}
}
