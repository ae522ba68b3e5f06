package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/schedsim/schedsim/sim"
	"github.com/schedsim/schedsim/sim/trace"
)

// ganttCellWidth is the printed width of one Gantt chart cell.
const ganttCellWidth = 8

// renderResult prints the title, Gantt chart, per-process table and, when a
// trace was collected, its summary.
func renderResult(w io.Writer, r *sim.Result, st *trace.SimulationTrace) {
	outputTitle(w, r.Title())
	outputGantt(w, r.Timeline.Merged())
	outputSchedule(w, r)
	if st != nil && st.Config.Enabled() {
		outputTraceSummary(w, trace.Summarize(st))
	}
}

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

// outputGantt draws one cell per interval. Gaps (idle time or context
// switches) are drawn as a "-" cell so the time row stays aligned.
func outputGantt(w io.Writer, tl sim.Timeline) {
	_, _ = fmt.Fprintln(w, "Gantt chart")
	if len(tl) == 0 {
		_, _ = fmt.Fprintf(w, "(empty)\n\n")
		return
	}

	var labels []string
	var starts []int64
	var prevEnd int64
	for _, iv := range tl {
		if iv.Start > prevEnd {
			labels = append(labels, "-")
			starts = append(starts, prevEnd)
		}
		labels = append(labels, fmt.Sprintf("P%d", iv.PID))
		starts = append(starts, iv.Start)
		prevEnd = iv.End
	}

	_, _ = fmt.Fprint(w, "|")
	for _, label := range labels {
		_, _ = fmt.Fprint(w, centerCell(label, ganttCellWidth), "|")
	}
	_, _ = fmt.Fprintln(w)
	for _, start := range starts {
		_, _ = fmt.Fprint(w, fmt.Sprint(start), "\t")
	}
	_, _ = fmt.Fprintf(w, "%d\n\n", tl.End())
}

func centerCell(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

func outputSchedule(w io.Writer, r *sim.Result) {
	_, _ = fmt.Fprintln(w, "Schedule table")
	rows := make([][]string, len(r.Processes))
	for i, p := range r.Processes {
		rows[i] = []string{
			fmt.Sprintf("P%d", p.PID),
			fmt.Sprint(p.Priority),
			fmt.Sprint(p.BurstTime),
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.StartTime),
			fmt.Sprint(p.CompletionTime),
			fmt.Sprint(p.TurnaroundTime),
			fmt.Sprint(p.WaitingTime),
			fmt.Sprint(p.ResponseTime),
		}
	}
	m := r.Metrics
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Priority", "Burst", "Arrival", "Start", "Exit", "Turnaround", "Wait", "Response"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", m.AvgTurnaround),
		fmt.Sprintf("Average\n%.2f", m.AvgWaiting),
		fmt.Sprintf("Average\n%.2f", m.AvgResponse)})
	table.Render()

	_, _ = fmt.Fprintf(w, "Makespan: %d  Busy: %d  Idle: %d  Context switches: %d (%d ticks)\n",
		m.Makespan, m.BusyTime, m.IdleTime, m.ContextSwitches, m.SwitchOverhead)
	_, _ = fmt.Fprintf(w, "CPU utilization: %.2f%%  Throughput: %.3f/t\n\n", m.Utilization*100, m.Throughput)
}

func outputTraceSummary(w io.Writer, s *trace.TraceSummary) {
	_, _ = fmt.Fprintln(w, "Decision trace")
	_, _ = fmt.Fprintf(w, "Dispatches: %d  Preemptions: %d  Switches: %d (%d ticks)  Idle: %d ticks\n\n",
		s.TotalDispatches, s.Preemptions, s.ContextSwitches, s.SwitchTicks, s.IdleTicks)
}

// renderComparison prints one row per discipline and marks the lowest
// average waiting time with "*".
func renderComparison(w io.Writer, cmp *sim.Comparison) {
	best := cmp.Best()
	_, _ = fmt.Fprintln(w, "Comparison")
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Algorithm", "Avg Turnaround", "Avg Waiting", "Avg Response", "Utilization", "Switches", "Makespan"})
	for _, r := range cmp.Results {
		name := r.Title()
		if r == best {
			name += " *"
		}
		m := r.Metrics
		table.Append([]string{
			name,
			fmt.Sprintf("%.2f", m.AvgTurnaround),
			fmt.Sprintf("%.2f", m.AvgWaiting),
			fmt.Sprintf("%.2f", m.AvgResponse),
			fmt.Sprintf("%.1f%%", m.Utilization*100),
			fmt.Sprint(m.ContextSwitches),
			fmt.Sprint(m.Makespan),
		})
	}
	table.Render()
	if best != nil {
		_, _ = fmt.Fprintf(w, "Best average waiting time: %s (%.2f)\n", best.Title(), best.Metrics.AvgWaiting)
	}
}
