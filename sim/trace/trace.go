package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every dispatch, context switch and idle gap.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected at all.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// SimulationTrace collects decision records during one scheduling run.
type SimulationTrace struct {
	Config     TraceConfig
	Dispatches []DispatchRecord
	Switches   []SwitchRecord
	Idles      []IdleRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Dispatches: make([]DispatchRecord, 0),
		Switches:   make([]SwitchRecord, 0),
		Idles:      make([]IdleRecord, 0),
	}
}

// Clear drops all records but keeps the configuration.
func (st *SimulationTrace) Clear() {
	st.Dispatches = st.Dispatches[:0]
	st.Switches = st.Switches[:0]
	st.Idles = st.Idles[:0]
}

// RecordDispatch appends a dispatch decision record.
func (st *SimulationTrace) RecordDispatch(record DispatchRecord) {
	st.Dispatches = append(st.Dispatches, record)
}

// RecordSwitch appends a context switch record.
func (st *SimulationTrace) RecordSwitch(record SwitchRecord) {
	st.Switches = append(st.Switches, record)
}

// RecordIdle appends an idle gap record.
func (st *SimulationTrace) RecordIdle(record IdleRecord) {
	st.Idles = append(st.Idles, record)
}
