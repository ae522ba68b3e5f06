package sim

import (
	"fmt"
	"math"
	"sort"
)

// Discipline names a CPU scheduling discipline.
type Discipline string

const (
	DisciplineFCFS       Discipline = "fcfs"
	DisciplineSJF        Discipline = "sjf"
	DisciplineSRTF       Discipline = "srtf"
	DisciplinePriority   Discipline = "priority"
	DisciplineRoundRobin Discipline = "rr"
)

// DefaultTimeQuantum is the round robin quantum used when none (or an invalid one) is given.
const DefaultTimeQuantum int64 = 2

// NoArrival is passed to Policy.Budget when no process is pending arrival.
const NoArrival int64 = math.MaxInt64

// ValidDisciplines is the set of recognized discipline names, aliases included.
// Shared by RunConfig.Validate() and NewPolicy() to avoid duplication.
var ValidDisciplines = map[string]Discipline{
	"fcfs":           DisciplineFCFS,
	"sjf":            DisciplineSJF,
	"srtf":           DisciplineSRTF,
	"sjf-preemptive": DisciplineSRTF,
	"priority":       DisciplinePriority,
	"rr":             DisciplineRoundRobin,
	"round-robin":    DisciplineRoundRobin,
}

// IsValidDiscipline returns true if name is a recognized discipline or alias.
func IsValidDiscipline(name string) bool {
	_, ok := ValidDisciplines[name]
	return ok
}

// AllDisciplines returns every discipline in canonical presentation order.
func AllDisciplines() []Discipline {
	return []Discipline{DisciplineFCFS, DisciplineSJF, DisciplineSRTF, DisciplinePriority, DisciplineRoundRobin}
}

// Title returns a human-readable name; quantum is only shown for round robin.
func (d Discipline) Title(quantum int64) string {
	switch d {
	case DisciplineFCFS:
		return "FCFS - First Come First Serve"
	case DisciplineSJF:
		return "SJF (Non-Preemptive)"
	case DisciplineSRTF:
		return "SJF (Preemptive) - SRTF"
	case DisciplinePriority:
		return "Priority Scheduling"
	case DisciplineRoundRobin:
		return fmt.Sprintf("Round Robin (Quantum=%d)", quantum)
	default:
		return string(d)
	}
}

// SwitchMode controls when the context switch overhead is charged.
type SwitchMode int

const (
	// SwitchAfterDispatch charges the overhead after every dispatch while
	// any work is left (ready or pending).
	SwitchAfterDispatch SwitchMode = iota
	// SwitchOnChange charges the overhead at dispatch time, only when a
	// different process takes the CPU from the last dispatched one.
	SwitchOnChange
)

// Policy decides which ready process runs next and for how long.
// One simulation loop in Scheduler.Run serves every discipline; the policy
// supplies the selection rule, the run budget and the switch-charging mode.
type Policy interface {
	Discipline() Discipline
	// Preemptive reports whether the policy may take the CPU from an unfinished process.
	Preemptive() bool
	// Select returns the index within ready of the process to dispatch.
	// ready is non-empty and in admission order; last is the previously
	// dispatched process if it is still unfinished, nil otherwise.
	Select(ready []*Process, last *Process) int
	// Budget returns how many ticks p may run starting at now.
	// nextArrival is the earliest pending arrival, or NoArrival.
	Budget(p *Process, now, nextArrival int64) int64
	Switch() SwitchMode
}

// selectMin returns the index of the smallest element under less.
// Ties keep the earliest index.
func selectMin(ready []*Process, less func(a, b *Process) bool) int {
	best := 0
	for i := 1; i < len(ready); i++ {
		if less(ready[i], ready[best]) {
			best = i
		}
	}
	return best
}

// FCFSPolicy runs processes in arrival order, each to completion.
type FCFSPolicy struct{}

func (FCFSPolicy) Discipline() Discipline { return DisciplineFCFS }
func (FCFSPolicy) Preemptive() bool       { return false }
func (FCFSPolicy) Switch() SwitchMode     { return SwitchAfterDispatch }

// Select takes the head: the ready queue is already in arrival order.
func (FCFSPolicy) Select(_ []*Process, _ *Process) int { return 0 }

func (FCFSPolicy) Budget(p *Process, _, _ int64) int64 { return p.RemainingTime }

// SJFPolicy picks the shortest burst among ready processes and runs it to completion.
// Ties go to the earlier arrival, then to insertion order.
type SJFPolicy struct{}

func (SJFPolicy) Discipline() Discipline { return DisciplineSJF }
func (SJFPolicy) Preemptive() bool       { return false }
func (SJFPolicy) Switch() SwitchMode     { return SwitchAfterDispatch }

func (SJFPolicy) Select(ready []*Process, _ *Process) int {
	return selectMin(ready, func(a, b *Process) bool {
		if a.BurstTime != b.BurstTime {
			return a.BurstTime < b.BurstTime
		}
		if a.ArrivalTime != b.ArrivalTime {
			return a.ArrivalTime < b.ArrivalTime
		}
		return a.order < b.order
	})
}

func (SJFPolicy) Budget(p *Process, _, _ int64) int64 { return p.RemainingTime }

// SRTFPolicy is preemptive SJF: the process with the least remaining time runs
// until it finishes or the next arrival, whichever comes first.
// Ties favor the process that is already running, then the earlier arrival,
// then insertion order.
type SRTFPolicy struct{}

func (SRTFPolicy) Discipline() Discipline { return DisciplineSRTF }
func (SRTFPolicy) Preemptive() bool       { return true }
func (SRTFPolicy) Switch() SwitchMode     { return SwitchOnChange }

func (SRTFPolicy) Select(ready []*Process, last *Process) int {
	return selectMin(ready, func(a, b *Process) bool {
		if a.RemainingTime != b.RemainingTime {
			return a.RemainingTime < b.RemainingTime
		}
		if last != nil && (a == last) != (b == last) {
			return a == last
		}
		if a.ArrivalTime != b.ArrivalTime {
			return a.ArrivalTime < b.ArrivalTime
		}
		return a.order < b.order
	})
}

// Budget caps the chunk at the next arrival, since that arrival may be shorter.
func (SRTFPolicy) Budget(p *Process, now, nextArrival int64) int64 {
	if nextArrival == NoArrival || nextArrival-now >= p.RemainingTime {
		return p.RemainingTime
	}
	return nextArrival - now
}

// PriorityPolicy picks the lowest priority value and runs it to completion.
// Ties go to insertion order.
type PriorityPolicy struct{}

func (PriorityPolicy) Discipline() Discipline { return DisciplinePriority }
func (PriorityPolicy) Preemptive() bool       { return false }
func (PriorityPolicy) Switch() SwitchMode     { return SwitchAfterDispatch }

func (PriorityPolicy) Select(ready []*Process, _ *Process) int {
	return selectMin(ready, func(a, b *Process) bool {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.order < b.order
	})
}

func (PriorityPolicy) Budget(p *Process, _, _ int64) int64 { return p.RemainingTime }

// RoundRobinPolicy serves the ready queue in FIFO order, one quantum at a time.
// An unfinished process goes back to the tail, behind anything that arrived
// during its quantum.
type RoundRobinPolicy struct {
	Quantum int64 // must be > 0
}

func (RoundRobinPolicy) Discipline() Discipline { return DisciplineRoundRobin }
func (RoundRobinPolicy) Preemptive() bool       { return true }
func (RoundRobinPolicy) Switch() SwitchMode     { return SwitchAfterDispatch }

func (RoundRobinPolicy) Select(_ []*Process, _ *Process) int { return 0 }

func (r RoundRobinPolicy) Budget(p *Process, _, _ int64) int64 {
	return min(r.Quantum, p.RemainingTime)
}

// NewPolicy creates a Policy by name.
// Valid names: "fcfs", "sjf", "srtf" ("sjf-preemptive"), "priority", "rr" ("round-robin").
// quantum is only used by round robin and must be positive there.
func NewPolicy(name string, quantum int64) (Policy, error) {
	d, ok := ValidDisciplines[name]
	if !ok {
		return nil, fmt.Errorf("unknown discipline %q (valid: %v)", name, disciplineNames())
	}
	switch d {
	case DisciplineFCFS:
		return FCFSPolicy{}, nil
	case DisciplineSJF:
		return SJFPolicy{}, nil
	case DisciplineSRTF:
		return SRTFPolicy{}, nil
	case DisciplinePriority:
		return PriorityPolicy{}, nil
	case DisciplineRoundRobin:
		if quantum <= 0 {
			return nil, fmt.Errorf("round robin time quantum must be positive, got %d", quantum)
		}
		return RoundRobinPolicy{Quantum: quantum}, nil
	default:
		return nil, fmt.Errorf("unhandled discipline %q", d)
	}
}

func disciplineNames() []string {
	names := make([]string, 0, len(ValidDisciplines))
	for name := range ValidDisciplines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
