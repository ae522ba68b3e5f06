// Tracks per-run and per-process performance metrics such as:
// turnaround, waiting and response times, CPU utilization and throughput.

package sim

import "sort"

// ProcessResult is a read-only copy of one process's inputs and derived times.
type ProcessResult struct {
	PID            int   `json:"pid"`
	ArrivalTime    int64 `json:"arrival_time"`
	BurstTime      int64 `json:"burst_time"`
	Priority       int   `json:"priority"`
	StartTime      int64 `json:"start_time"`
	CompletionTime int64 `json:"completion_time"`
	TurnaroundTime int64 `json:"turnaround_time"`
	WaitingTime    int64 `json:"waiting_time"`
	ResponseTime   int64 `json:"response_time"`
}

func newProcessResult(p *Process) ProcessResult {
	return ProcessResult{
		PID:            p.PID,
		ArrivalTime:    p.ArrivalTime,
		BurstTime:      p.BurstTime,
		Priority:       p.Priority,
		StartTime:      p.StartTime,
		CompletionTime: p.CompletionTime,
		TurnaroundTime: p.TurnaroundTime,
		WaitingTime:    p.WaitingTime,
		ResponseTime:   p.ResponseTime(),
	}
}

// Result is the explicit outcome of one run: the timeline, per-process rows
// sorted by PID, and the aggregate metrics. It shares no memory with the
// Scheduler that produced it.
type Result struct {
	Discipline        Discipline      `json:"discipline"`
	Quantum           int64           `json:"quantum,omitempty"` // round robin only
	ContextSwitchTime int64           `json:"context_switch_time"`
	Timeline          Timeline        `json:"timeline"`
	Processes         []ProcessResult `json:"processes"`
	Metrics           Metrics         `json:"metrics"`
}

// Title returns the presentation title of the run.
func (r *Result) Title() string {
	return r.Discipline.Title(r.Quantum)
}

func (r *Result) averages() (float64, float64) {
	return r.Metrics.AvgTurnaround, r.Metrics.AvgWaiting
}

// Metrics aggregates statistics about one run for final reporting.
type Metrics struct {
	Completed     int     `json:"completed"`
	AvgTurnaround float64 `json:"avg_turnaround"`
	AvgWaiting    float64 `json:"avg_waiting"`
	AvgResponse   float64 `json:"avg_response"`
	MaxWaiting    int64   `json:"max_waiting"`
	P90Waiting    float64 `json:"p90_waiting"`

	Makespan        int64 `json:"makespan"`         // end of the last interval
	BusyTime        int64 `json:"busy_time"`        // ticks spent executing
	IdleTime        int64 `json:"idle_time"`        // ticks with nothing ready
	ContextSwitches int   `json:"context_switches"` // charged switches
	SwitchOverhead  int64 `json:"switch_overhead"`  // ticks spent switching
	Dispatches      int   `json:"dispatches"`       // timeline intervals

	Utilization float64 `json:"utilization"` // BusyTime / Makespan
	Throughput  float64 `json:"throughput"`  // completed processes per tick
}

// NewMetrics computes the aggregate metrics of a finished run.
// An empty process set yields all-zero metrics.
func NewMetrics(procs []*Process, timeline Timeline, idleTicks int64, switches int, switchTicks int64) Metrics {
	m := Metrics{
		Makespan:        timeline.End(),
		BusyTime:        timeline.Busy(),
		IdleTime:        idleTicks,
		ContextSwitches: switches,
		SwitchOverhead:  switchTicks,
		Dispatches:      len(timeline),
	}
	if len(procs) == 0 {
		return m
	}

	turnarounds := make([]int64, 0, len(procs))
	waits := make([]int64, 0, len(procs))
	responses := make([]int64, 0, len(procs))
	for _, p := range procs {
		if p.Completed() {
			m.Completed++
		}
		turnarounds = append(turnarounds, p.TurnaroundTime)
		waits = append(waits, p.WaitingTime)
		responses = append(responses, p.ResponseTime())
		m.MaxWaiting = max(m.MaxWaiting, p.WaitingTime)
	}
	m.AvgTurnaround = CalculateMean(turnarounds)
	m.AvgWaiting = CalculateMean(waits)
	m.AvgResponse = CalculateMean(responses)

	sort.Slice(waits, func(i, j int) bool { return waits[i] < waits[j] })
	m.P90Waiting = CalculatePercentile(waits, 90)

	if m.Makespan > 0 {
		m.Utilization = float64(m.BusyTime) / float64(m.Makespan)
		m.Throughput = float64(m.Completed) / float64(m.Makespan)
	}
	return m
}
