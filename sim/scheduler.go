// sim/scheduler.go
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/schedsim/schedsim/sim/trace"
)

// Scheduler is the core object that holds the simulation clock, the process
// set and the timeline of one run.
//
// The process slice is shared with the caller and mutated in place: after a
// run, derived fields (StartTime, CompletionTime, ...) can be read directly
// off each Process. Run also returns a Result holding copies, for callers
// that must not alias the engine's working set.
//
// A Scheduler is not reentrant: at most one run may be in flight per instance.
type Scheduler struct {
	Processes         []*Process
	ContextSwitchTime int64 // overhead charged between dispatches (>= 0)
	Clock             int64
	Timeline          Timeline
	// Trace records dispatch decisions when non-nil and enabled.
	Trace *trace.SimulationTrace

	ready       ReadyQueue
	pending     []*Process // not yet arrived, ascending arrival time
	idleTicks   int64
	switches    int
	switchTicks int64
}

// NewScheduler creates a Scheduler over processes with the given context switch overhead.
func NewScheduler(processes []*Process, contextSwitchTime int64) *Scheduler {
	return &Scheduler{
		Processes:         processes,
		ContextSwitchTime: contextSwitchTime,
		Timeline:          make(Timeline, 0),
	}
}

// Reset restores every process, clears the timeline and rewinds the clock.
func (s *Scheduler) Reset() {
	for i, p := range s.Processes {
		p.Reset()
		p.order = i
	}
	s.Timeline = make(Timeline, 0)
	s.Clock = 0
	s.ready.Clear()
	s.pending = s.pending[:0]
	s.idleTicks = 0
	s.switches = 0
	s.switchTicks = 0
	if s.Trace != nil {
		s.Trace.Clear()
	}
}

// FCFS runs First-Come-First-Served and returns (avg turnaround, avg waiting).
func (s *Scheduler) FCFS() (float64, float64) {
	return s.Run(FCFSPolicy{}).averages()
}

// SJFNonPreemptive runs non-preemptive Shortest-Job-First.
func (s *Scheduler) SJFNonPreemptive() (float64, float64) {
	return s.Run(SJFPolicy{}).averages()
}

// SJFPreemptive runs Shortest-Remaining-Time-First.
func (s *Scheduler) SJFPreemptive() (float64, float64) {
	return s.Run(SRTFPolicy{}).averages()
}

// Priority runs non-preemptive priority scheduling (lower value first).
func (s *Scheduler) Priority() (float64, float64) {
	return s.Run(PriorityPolicy{}).averages()
}

// RoundRobin runs round robin with the given time quantum.
// Panics if quantum is not positive; defaulting invalid input is the caller's job.
func (s *Scheduler) RoundRobin(quantum int64) (float64, float64) {
	if quantum <= 0 {
		panic(fmt.Sprintf("RoundRobin: time quantum must be positive, got %d", quantum))
	}
	return s.Run(RoundRobinPolicy{Quantum: quantum}).averages()
}

// CalculateMetrics returns the average turnaround and waiting times over all
// owned processes, or (0, 0) for an empty set.
func (s *Scheduler) CalculateMetrics() (float64, float64) {
	if len(s.Processes) == 0 {
		return 0, 0
	}
	var turnaround, waiting int64
	for _, p := range s.Processes {
		turnaround += p.TurnaroundTime
		waiting += p.WaitingTime
	}
	n := float64(len(s.Processes))
	return float64(turnaround) / n, float64(waiting) / n
}

// ErrHorizonOverflow is returned when a process set could drive the clock past math.MaxInt64.
var ErrHorizonOverflow = errors.New("simulation horizon overflows the clock")

// Horizon returns an upper bound on the final clock of any run over procs:
// the latest arrival plus all service plus one switch per tick of service.
// Inputs must already be non-negative.
func Horizon(procs []*Process, contextSwitchTime int64) (int64, error) {
	var latest, work int64
	for _, p := range procs {
		latest = max(latest, p.ArrivalTime)
		if p.BurstTime > math.MaxInt64-work {
			return 0, ErrHorizonOverflow
		}
		work += p.BurstTime
	}
	if contextSwitchTime > 0 && work > (math.MaxInt64-work)/contextSwitchTime {
		return 0, ErrHorizonOverflow
	}
	total := work + work*contextSwitchTime
	if latest > math.MaxInt64-total {
		return 0, ErrHorizonOverflow
	}
	return latest + total, nil
}

// Run simulates the process set under policy and returns the result record.
// Every run starts from a reset state, so repeated runs are independent.
func (s *Scheduler) Run(policy Policy) *Result {
	// Background is never canceled, so RunContext cannot fail here.
	r, _ := s.RunContext(context.Background(), policy)
	return r
}

// RunContext is Run with cancellation: ctx is checked before every dispatch,
// and a canceled run returns ctx.Err() with the scheduler left mid-run.
func (s *Scheduler) RunContext(ctx context.Context, policy Policy) (*Result, error) {
	s.Reset()
	s.pending = append(s.pending, s.Processes...)
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].ArrivalTime < s.pending[j].ArrivalTime
	})
	logrus.Infof("Starting %s with %d processes, context switch=%d", policy.Discipline(), len(s.Processes), s.ContextSwitchTime)

	// last is the most recently dispatched process; nil at start and after an idle gap.
	var last *Process
	for len(s.pending) > 0 || s.ready.Len() > 0 {
		if err := ctx.Err(); err != nil {
			logrus.Warnf("[tick %07d] %s canceled: %v", s.Clock, policy.Discipline(), err)
			return nil, err
		}
		s.admit()
		if s.ready.Len() == 0 {
			s.idleUntil(s.pending[0].ArrivalTime)
			last = nil
			continue
		}

		var running *Process
		if last != nil && !last.Completed() {
			running = last
		}
		var readyPIDs []int
		if s.tracing() {
			readyPIDs = s.ready.PIDs()
		}
		idx := policy.Select(s.ready.Items(), running)
		p := s.ready.Remove(idx)

		if policy.Switch() == SwitchOnChange && last != nil && last != p {
			from := s.Clock
			s.Clock += s.ContextSwitchTime
			// Arrivals during the switch compete for the CPU it hands over.
			if s.admit() > 0 {
				s.ready.Insert(idx, p)
				if s.tracing() {
					readyPIDs = s.ready.PIDs()
				}
				p = s.ready.Remove(policy.Select(s.ready.Items(), running))
			}
			s.recordSwitch(from, last.PID, p.PID)
		}
		if p.StartTime == Unset {
			p.StartTime = s.Clock
		}

		nextArrival := s.nextArrival()
		budget := policy.Budget(p, s.Clock, nextArrival)
		if budget <= 0 || budget > p.RemainingTime {
			panic(fmt.Sprintf("Run: %s granted invalid budget %d to pid %d (remaining %d)",
				policy.Discipline(), budget, p.PID, p.RemainingTime))
		}
		s.Timeline = append(s.Timeline, Interval{PID: p.PID, Start: s.Clock, End: s.Clock + budget})
		logrus.Debugf("[tick %07d] Dispatch P%d for %d ticks, ready=%s", s.Clock, p.PID, budget, s.ready.String())
		s.Clock += budget
		p.RemainingTime -= budget

		// Arrivals during the chunk join the queue ahead of the process being requeued.
		s.admit()
		if p.Completed() {
			p.complete(s.Clock)
			logrus.Debugf("[tick %07d] P%d completed (turnaround=%d, waiting=%d)", s.Clock, p.PID, p.TurnaroundTime, p.WaitingTime)
		} else {
			s.ready.Enqueue(p)
		}
		if s.tracing() {
			s.Trace.RecordDispatch(trace.DispatchRecord{
				Clock:     s.Clock - budget,
				PID:       p.PID,
				Budget:    budget,
				ReadyPIDs: readyPIDs,
				Reason:    dispatchReason(p, s.Clock, nextArrival),
				Remaining: p.RemainingTime,
			})
		}
		last = p

		if policy.Switch() == SwitchAfterDispatch && (s.ready.Len() > 0 || len(s.pending) > 0) {
			s.chargeSwitch(p.PID, -1)
		}
	}

	logrus.Infof("[tick %07d] %s finished", s.Clock, policy.Discipline())
	return s.result(policy), nil
}

// admit moves every pending process that has arrived by the current clock
// into the ready queue, in arrival order, and returns how many it moved.
func (s *Scheduler) admit() int {
	n := 0
	for n < len(s.pending) && s.pending[n].ArrivalTime <= s.Clock {
		s.ready.Enqueue(s.pending[n])
		n++
	}
	s.pending = s.pending[n:]
	return n
}

// nextArrival returns the earliest pending arrival, or NoArrival.
func (s *Scheduler) nextArrival() int64 {
	if len(s.pending) == 0 {
		return NoArrival
	}
	return s.pending[0].ArrivalTime
}

// idleUntil advances the clock to t without recording an interval.
func (s *Scheduler) idleUntil(t int64) {
	if t <= s.Clock {
		return
	}
	logrus.Debugf("[tick %07d] CPU idle until %d", s.Clock, t)
	if s.tracing() {
		s.Trace.RecordIdle(trace.IdleRecord{From: s.Clock, To: t})
	}
	s.idleTicks += t - s.Clock
	s.Clock = t
}

func (s *Scheduler) chargeSwitch(from, to int) {
	at := s.Clock
	s.Clock += s.ContextSwitchTime
	s.recordSwitch(at, from, to)
}

// recordSwitch accounts for a switch that started at clock and has already been added to the clock.
func (s *Scheduler) recordSwitch(clock int64, from, to int) {
	if s.tracing() {
		s.Trace.RecordSwitch(trace.SwitchRecord{Clock: clock, FromPID: from, ToPID: to, Cost: s.ContextSwitchTime})
	}
	s.switches++
	s.switchTicks += s.ContextSwitchTime
}

func (s *Scheduler) tracing() bool {
	return s.Trace != nil && s.Trace.Config.Enabled()
}

func dispatchReason(p *Process, clock, nextArrival int64) trace.DispatchReason {
	switch {
	case p.Completed():
		return trace.ReasonCompleted
	case clock == nextArrival:
		return trace.ReasonArrival
	default:
		return trace.ReasonQuantum
	}
}

// result snapshots the finished run into a Result record.
func (s *Scheduler) result(policy Policy) *Result {
	r := &Result{
		Discipline:        policy.Discipline(),
		ContextSwitchTime: s.ContextSwitchTime,
		Timeline:          append(Timeline(nil), s.Timeline...),
		Processes:         make([]ProcessResult, 0, len(s.Processes)),
	}
	if rr, ok := policy.(RoundRobinPolicy); ok {
		r.Quantum = rr.Quantum
	}
	for _, p := range s.Processes {
		r.Processes = append(r.Processes, newProcessResult(p))
	}
	sort.SliceStable(r.Processes, func(i, j int) bool { return r.Processes[i].PID < r.Processes[j].PID })
	r.Metrics = NewMetrics(s.Processes, s.Timeline, s.idleTicks, s.switches, s.switchTicks)
	return r
}
