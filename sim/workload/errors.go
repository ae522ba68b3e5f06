package workload

import "fmt"

// ValidationError reports a process specification the engine must not see:
// non-positive burst time, negative arrival time, duplicate PID, and so on.
// Use errors.As to recover it from wrapped errors.
type ValidationError struct {
	Index  int    // position of the offending entry, -1 when not tied to one
	Field  string // offending field name (e.g., "burst_time")
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("process[%d]: invalid %s: %s", e.Index, e.Field, e.Reason)
}
