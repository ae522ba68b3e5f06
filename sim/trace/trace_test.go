package trace

import "testing"

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"", true},
		{"none", true},
		{"decisions", true},
		{"detailed", false},
		{"DECISIONS", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.want {
			t.Errorf("IsValidTraceLevel(%q): got %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none level must be disabled")
	}
	if (TraceConfig{}).Enabled() {
		t.Error("zero config must be disabled")
	}
	if !(TraceConfig{Level: TraceLevelDecisions}).Enabled() {
		t.Error("decisions level must be enabled")
	}
}

func TestSimulationTrace_RecordAndClear(t *testing.T) {
	// GIVEN a trace with one record of each kind
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDispatch(DispatchRecord{Clock: 0, PID: 1, Budget: 3, ReadyPIDs: []int{1, 2}, Reason: ReasonArrival, Remaining: 2})
	st.RecordSwitch(SwitchRecord{Clock: 3, FromPID: 1, ToPID: 2, Cost: 1})
	st.RecordIdle(IdleRecord{From: 9, To: 12})

	if len(st.Dispatches) != 1 || len(st.Switches) != 1 || len(st.Idles) != 1 {
		t.Fatalf("expected one record of each kind, got %d/%d/%d", len(st.Dispatches), len(st.Switches), len(st.Idles))
	}
	if got := st.Dispatches[0].ReadyPIDs; len(got) != 2 || got[1] != 2 {
		t.Errorf("ReadyPIDs not preserved: %v", got)
	}

	// WHEN cleared
	st.Clear()

	// THEN records are gone but the config survives
	if len(st.Dispatches) != 0 || len(st.Switches) != 0 || len(st.Idles) != 0 {
		t.Error("expected all records cleared")
	}
	if st.Config.Level != TraceLevelDecisions {
		t.Errorf("config lost on clear: %q", st.Config.Level)
	}
}

func TestDispatchRecord_Preempted(t *testing.T) {
	if (DispatchRecord{Reason: ReasonCompleted}).Preempted() {
		t.Error("a completed dispatch is not a preemption")
	}
	if !(DispatchRecord{Reason: ReasonQuantum, Remaining: 4}).Preempted() {
		t.Error("an unfinished dispatch is a preemption")
	}
}
