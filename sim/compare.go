package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/schedsim/schedsim/sim/trace"
)

// Comparison holds the outcome of running several disciplines over the same
// logical process set.
type Comparison struct {
	Results []*Result                // canonical discipline order
	Traces  []*trace.SimulationTrace // parallel to Results; nil entries when tracing is off
}

// Best returns the result with the lowest average waiting time.
// Ties keep the earlier discipline in canonical order. Nil when empty.
func (c *Comparison) Best() *Result {
	var best *Result
	for _, r := range c.Results {
		if best == nil || r.Metrics.AvgWaiting < best.Metrics.AvgWaiting {
			best = r
		}
	}
	return best
}

// Compare runs every discipline selected by cfg over fresh copies of procs.
// Each run owns its own Scheduler and process copies, so runs execute
// concurrently without sharing state; procs itself is never mutated.
// Process sets whose Horizon overflows are rejected before any run starts,
// and ctx is honored between dispatches.
func Compare(ctx context.Context, procs []*Process, cfg *RunConfig) (*Comparison, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	disciplines := cfg.EffectiveDisciplines()
	quantum := cfg.EffectiveQuantum()
	contextSwitch := cfg.EffectiveContextSwitch()
	if _, err := Horizon(procs, contextSwitch); err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Results: make([]*Result, len(disciplines)),
		Traces:  make([]*trace.SimulationTrace, len(disciplines)),
	}
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range disciplines {
		policy, err := NewPolicy(string(d), quantum)
		if err != nil {
			return nil, err
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := NewScheduler(CloneProcesses(procs), contextSwitch)
			if tc := cfg.TraceConfig(); tc.Enabled() {
				s.Trace = trace.NewSimulationTrace(tc)
			}
			cmp.Results[i] = s.Run(policy)
			cmp.Traces[i] = s.Trace
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cmp, nil
}
