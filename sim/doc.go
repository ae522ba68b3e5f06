// Package sim provides the core discrete-event CPU scheduling simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process record (static inputs, derived times, Reset)
//   - policy.go: the Policy interface and the five disciplines
//   - scheduler.go: the single simulation loop shared by every discipline
//
// # Architecture
//
// Time is a unitless integer clock advanced only by the simulation itself.
// A Scheduler owns a process set for the duration of a run: it resets every
// process, admits arrivals into a FIFO ReadyQueue, asks the Policy which
// process to dispatch and for how long, records one Interval per dispatch,
// and charges the context switch overhead according to the policy's
// SwitchMode. With nothing ready the clock jumps to the next arrival.
//
// Sub-packages:
//   - sim/trace/: Decision trace recording (dispatches, switches, idle gaps)
//   - sim/workload/: Process set loading, validation and generation
//
// # Key Interfaces
//
//   - Policy: select-next, run budget, switch charging, preemptibility
//
// Compare runs several disciplines concurrently, each on fresh process
// copies, and returns explicit Result records.
package sim
