package sim

import "fmt"

// Interval is one contiguous execution span of a single process.
type Interval struct {
	PID   int   `json:"pid"`
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Duration returns the number of ticks covered by the interval.
func (iv Interval) Duration() int64 {
	return iv.End - iv.Start
}

// Timeline is the ordered list of execution intervals produced by one run.
// Intervals are sorted by Start and never overlap. Consecutive intervals of
// the same process are kept as separate entries (one per dispatch).
type Timeline []Interval

// End returns the end of the last interval, or 0 for an empty timeline.
func (tl Timeline) End() int64 {
	if len(tl) == 0 {
		return 0
	}
	return tl[len(tl)-1].End
}

// Busy returns the total number of ticks the CPU spent executing processes.
func (tl Timeline) Busy() int64 {
	var busy int64
	for _, iv := range tl {
		busy += iv.Duration()
	}
	return busy
}

// Merged coalesces back-to-back intervals of the same process that have no
// gap between them. Meant for chart rendering; the raw timeline is not modified.
func (tl Timeline) Merged() Timeline {
	out := make(Timeline, 0, len(tl))
	for _, iv := range tl {
		if n := len(out); n > 0 && out[n-1].PID == iv.PID && out[n-1].End == iv.Start {
			out[n-1].End = iv.End
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Validate checks that every interval has positive length, starts at or after
// zero, and that intervals are sorted by start without overlapping.
func (tl Timeline) Validate() error {
	for i, iv := range tl {
		if iv.Start < 0 {
			return fmt.Errorf("interval %d (pid %d) starts before zero: %d", i, iv.PID, iv.Start)
		}
		if iv.End <= iv.Start {
			return fmt.Errorf("interval %d (pid %d) has non-positive length: [%d, %d)", i, iv.PID, iv.Start, iv.End)
		}
		if i > 0 && iv.Start < tl[i-1].End {
			return fmt.Errorf("interval %d (pid %d) at %d overlaps previous interval ending at %d",
				i, iv.PID, iv.Start, tl[i-1].End)
		}
	}
	return nil
}
