// Package trace provides decision-trace recording for scheduling analysis.
// This package has no dependencies on sim/ -- it stores pure data types.
package trace

// DispatchReason explains why a dispatch ended where it did.
type DispatchReason string

const (
	ReasonCompleted DispatchReason = "completed"       // process finished its burst
	ReasonArrival   DispatchReason = "arrival-bound"   // chunk capped at the next arrival
	ReasonQuantum   DispatchReason = "quantum-expired" // round robin slice used up
)

// DispatchRecord captures a single selection decision and the chunk it ran.
type DispatchRecord struct {
	Clock     int64          // tick at which the process took the CPU
	PID       int            // chosen process
	Budget    int64          // ticks granted to this dispatch
	ReadyPIDs []int          // candidates in queue order, chosen one included
	Reason    DispatchReason // why the chunk ended
	Remaining int64          // service left after the chunk
}

// Preempted reports whether the process left the CPU unfinished.
func (r DispatchRecord) Preempted() bool {
	return r.Remaining > 0
}

// SwitchRecord captures one charged context switch.
type SwitchRecord struct {
	Clock   int64 // tick at which the switch started
	FromPID int
	ToPID   int // -1 when the next process is not known yet
	Cost    int64
}

// IdleRecord captures a gap where no process was ready.
type IdleRecord struct {
	From int64
	To   int64
}
