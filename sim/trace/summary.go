package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDispatches  int
	Preemptions      int
	ContextSwitches  int
	SwitchTicks      int64
	IdleTicks        int64
	DispatchesPerPID map[int]int // pid → number of dispatches
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchesPerPID: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDispatches = len(st.Dispatches)
	for _, d := range st.Dispatches {
		summary.DispatchesPerPID[d.PID]++
		if d.Preempted() {
			summary.Preemptions++
		}
	}

	summary.ContextSwitches = len(st.Switches)
	for _, s := range st.Switches {
		summary.SwitchTicks += s.Cost
	}

	for _, idle := range st.Idles {
		summary.IdleTicks += idle.To - idle.From
	}

	return summary
}
