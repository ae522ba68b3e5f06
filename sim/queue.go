// Implements the ReadyQueue, which holds all processes that have arrived and still need CPU time.
// Processes are enqueued on arrival, in arrival order.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue represents the FIFO set of processes eligible for dispatch.
// Policies see its contents in admission order; round robin takes the head,
// the other disciplines scan it for their best candidate.
type ReadyQueue struct {
	queue []*Process // FIFO queue of ready processes
}

// Enqueue adds a process to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	rq.queue = append(rq.queue, p)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(fmt.Sprintf("P%d", p.PID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Insert puts p back at index i, shifting later entries toward the tail.
func (rq *ReadyQueue) Insert(i int, p *Process) {
	if i < 0 || i > len(rq.queue) {
		panic(fmt.Sprintf("Insert: index %d out of range for queue of length %d", i, len(rq.queue)))
	}
	rq.queue = append(rq.queue, nil)
	copy(rq.queue[i+1:], rq.queue[i:])
	rq.queue[i] = p
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers may read it
// but MUST NOT append to or reslice it.
func (rq *ReadyQueue) Items() []*Process {
	return rq.queue
}

// PIDs returns the identifiers of the queued processes in queue order.
func (rq *ReadyQueue) PIDs() []int {
	pids := make([]int, len(rq.queue))
	for i, p := range rq.queue {
		pids[i] = p.PID
	}
	return pids
}

// Remove takes the process at index i out of the queue, preserving the order
// of the remaining entries.
func (rq *ReadyQueue) Remove(i int) *Process {
	if i < 0 || i >= len(rq.queue) {
		panic(fmt.Sprintf("Remove: index %d out of range for queue of length %d", i, len(rq.queue)))
	}
	p := rq.queue[i]
	rq.queue = append(rq.queue[:i], rq.queue[i+1:]...)
	return p
}

// Clear empties the queue.
func (rq *ReadyQueue) Clear() {
	rq.queue = rq.queue[:0]
}
