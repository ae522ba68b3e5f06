// Defines the Process struct that models a single schedulable process in the simulation.
// Tracks static inputs (arrival, burst, priority) and the derived timing results of a run.

package sim

import (
	"fmt"
)

// Unset marks a timestamp that has not been assigned yet.
const Unset int64 = -1

// DefaultPriority is the neutral priority used when none is given.
const DefaultPriority = 1

// Process models a single process's lifecycle in the simulation.
// Static inputs are never touched by the engine; derived fields are
// overwritten on every run and restored by Reset.
type Process struct {
	PID         int   // Unique, caller-supplied identifier
	ArrivalTime int64 // Tick at which the process becomes ready (>= 0)
	BurstTime   int64 // Total service required (> 0)
	Priority    int   // Lower value = more urgent

	RemainingTime  int64 // Service still owed; BurstTime after Reset
	StartTime      int64 // Tick of first dispatch, Unset until dispatched
	CompletionTime int64 // Tick at which RemainingTime reached zero
	TurnaroundTime int64 // CompletionTime - ArrivalTime
	WaitingTime    int64 // TurnaroundTime - BurstTime

	// insertion position inside the owning Scheduler, used for stable tie-breaks
	order int
}

// NewProcess creates a process with pristine derived state.
// Inputs are not validated here; rejecting non-positive burst times is the caller's job.
func NewProcess(pid int, arrivalTime, burstTime int64, priority int) *Process {
	p := &Process{
		PID:         pid,
		ArrivalTime: arrivalTime,
		BurstTime:   burstTime,
		Priority:    priority,
	}
	p.Reset()
	return p
}

// Reset restores all derived fields without touching the static inputs.
// Calling it repeatedly is safe.
func (p *Process) Reset() {
	p.RemainingTime = p.BurstTime
	p.StartTime = Unset
	p.CompletionTime = 0
	p.TurnaroundTime = 0
	p.WaitingTime = 0
}

// Clone returns a fresh copy carrying only the static inputs.
func (p *Process) Clone() *Process {
	return NewProcess(p.PID, p.ArrivalTime, p.BurstTime, p.Priority)
}

// Completed reports whether the process has received all of its service.
func (p *Process) Completed() bool {
	return p.RemainingTime == 0
}

// ResponseTime is the delay between arrival and first dispatch, 0 while undispatched.
func (p *Process) ResponseTime() int64 {
	if p.StartTime == Unset {
		return 0
	}
	return p.StartTime - p.ArrivalTime
}

// complete stamps the completion time and derives turnaround and waiting times.
func (p *Process) complete(clock int64) {
	p.CompletionTime = clock
	p.TurnaroundTime = p.CompletionTime - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.BurstTime
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process(pid=%d, arrival=%d, burst=%d, priority=%d)", p.PID, p.ArrivalTime, p.BurstTime, p.Priority)
}

// CloneProcesses returns fresh copies of procs so that independent runs
// never observe each other's derived state.
func CloneProcesses(procs []*Process) []*Process {
	out := make([]*Process, len(procs))
	for i, p := range procs {
		out[i] = p.Clone()
	}
	return out
}
