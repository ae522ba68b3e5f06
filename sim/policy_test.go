package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolicy_ValidNames(t *testing.T) {
	tests := []struct {
		name       string
		want       Discipline
		preemptive bool
		switchMode SwitchMode
	}{
		{"fcfs", DisciplineFCFS, false, SwitchAfterDispatch},
		{"sjf", DisciplineSJF, false, SwitchAfterDispatch},
		{"srtf", DisciplineSRTF, true, SwitchOnChange},
		{"sjf-preemptive", DisciplineSRTF, true, SwitchOnChange},
		{"priority", DisciplinePriority, false, SwitchAfterDispatch},
		{"rr", DisciplineRoundRobin, true, SwitchAfterDispatch},
		{"round-robin", DisciplineRoundRobin, true, SwitchAfterDispatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPolicy(tt.name, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Discipline())
			assert.Equal(t, tt.preemptive, p.Preemptive())
			assert.Equal(t, tt.switchMode, p.Switch())
		})
	}
}

func TestNewPolicy_UnknownName_ReturnsError(t *testing.T) {
	_, err := NewPolicy("lottery", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lottery")
	assert.Contains(t, err.Error(), "fcfs")
}

func TestNewPolicy_RoundRobinNonPositiveQuantum_ReturnsError(t *testing.T) {
	for _, q := range []int64{0, -3} {
		_, err := NewPolicy("rr", q)
		assert.Error(t, err, "quantum %d", q)
	}
	// Other disciplines ignore the quantum entirely
	_, err := NewPolicy("fcfs", 0)
	assert.NoError(t, err)
}

func TestNewPolicy_RoundRobinCarriesQuantum(t *testing.T) {
	p, err := NewPolicy("rr", 4)
	require.NoError(t, err)
	assert.Equal(t, RoundRobinPolicy{Quantum: 4}, p)
}

func TestValidDisciplines_CoverAllDisciplines(t *testing.T) {
	for _, d := range AllDisciplines() {
		assert.True(t, IsValidDiscipline(string(d)), "%s must be a valid name", d)
	}
	assert.False(t, IsValidDiscipline(""))
	assert.False(t, IsValidDiscipline("FCFS"))
}

func TestDiscipline_Title(t *testing.T) {
	assert.Equal(t, "FCFS - First Come First Serve", DisciplineFCFS.Title(0))
	assert.Equal(t, "SJF (Non-Preemptive)", DisciplineSJF.Title(0))
	assert.Equal(t, "SJF (Preemptive) - SRTF", DisciplineSRTF.Title(0))
	assert.Equal(t, "Priority Scheduling", DisciplinePriority.Title(0))
	assert.Equal(t, "Round Robin (Quantum=3)", DisciplineRoundRobin.Title(3))
}

// readyWithOrder builds a ready list with insertion order set as a Scheduler would.
func readyWithOrder(procs ...*Process) []*Process {
	for i, p := range procs {
		p.order = i
	}
	return procs
}

func TestSJFPolicy_Select(t *testing.T) {
	tests := []struct {
		name  string
		ready []*Process
		want  int
	}{
		{
			name:  "shortest burst wins",
			ready: readyWithOrder(NewProcess(1, 0, 8, 1), NewProcess(2, 1, 3, 1), NewProcess(3, 2, 5, 1)),
			want:  1,
		},
		{
			name:  "tie goes to earlier arrival",
			ready: readyWithOrder(NewProcess(1, 3, 4, 1), NewProcess(2, 1, 4, 1)),
			want:  1,
		},
		{
			name:  "full tie goes to insertion order",
			ready: readyWithOrder(NewProcess(5, 1, 4, 1), NewProcess(2, 1, 4, 1)),
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SJFPolicy{}.Select(tt.ready, nil))
		})
	}
}

func TestSJFPolicy_Select_IgnoresRemainingTime(t *testing.T) {
	// GIVEN a process with a long burst but little remaining work
	long := NewProcess(1, 0, 10, 1)
	long.RemainingTime = 1
	ready := readyWithOrder(long, NewProcess(2, 0, 4, 1))

	// THEN non-preemptive SJF still ranks by burst time
	assert.Equal(t, 1, SJFPolicy{}.Select(ready, nil))
}

func TestSRTFPolicy_Select(t *testing.T) {
	running := NewProcess(1, 0, 8, 1)
	running.RemainingTime = 2
	challenger := NewProcess(2, 2, 2, 1)
	ready := readyWithOrder(challenger, running)

	// Equal remaining time: the process already on the CPU keeps it
	assert.Equal(t, 1, SRTFPolicy{}.Select(ready, running))
	// Without a running process the earlier arrival wins
	assert.Equal(t, 1, SRTFPolicy{}.Select(ready, nil))

	challenger.RemainingTime = 1
	assert.Equal(t, 0, SRTFPolicy{}.Select(ready, running))
}

func TestSRTFPolicy_Budget_CapsAtNextArrival(t *testing.T) {
	p := NewProcess(1, 0, 8, 1)

	assert.Equal(t, int64(3), SRTFPolicy{}.Budget(p, 2, 5))
	assert.Equal(t, int64(8), SRTFPolicy{}.Budget(p, 2, 10), "completes before the arrival")
	assert.Equal(t, int64(8), SRTFPolicy{}.Budget(p, 2, NoArrival))
}

func TestPriorityPolicy_Select(t *testing.T) {
	ready := readyWithOrder(
		NewProcess(1, 0, 4, 2),
		NewProcess(2, 0, 3, 1),
		NewProcess(3, 0, 2, 1),
	)
	// Lowest value wins; tie between P2 and P3 goes to insertion order
	assert.Equal(t, 1, PriorityPolicy{}.Select(ready, nil))
}

func TestRoundRobinPolicy_Budget(t *testing.T) {
	rr := RoundRobinPolicy{Quantum: 3}
	p := NewProcess(1, 0, 7, 1)

	assert.Equal(t, int64(3), rr.Budget(p, 0, NoArrival))
	p.RemainingTime = 2
	assert.Equal(t, int64(2), rr.Budget(p, 0, 1), "arrivals do not shorten a quantum")
}

func TestHeadPolicies_SelectFront(t *testing.T) {
	ready := readyWithOrder(NewProcess(3, 5, 1, 9), NewProcess(1, 0, 9, 0))
	assert.Equal(t, 0, FCFSPolicy{}.Select(ready, nil))
	assert.Equal(t, 0, RoundRobinPolicy{Quantum: 2}.Select(ready, nil))
}
