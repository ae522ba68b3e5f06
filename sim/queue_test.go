package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadyQueue_Insert_RestoresRemovedPosition(t *testing.T) {
	// GIVEN P1 P2 P3 queued and P2 taken out
	rq := &ReadyQueue{}
	for pid := 1; pid <= 3; pid++ {
		rq.Enqueue(NewProcess(pid, 0, 1, 1))
	}
	p := rq.Remove(1)
	rq.Enqueue(NewProcess(4, 0, 1, 1))

	// WHEN P2 is put back where it was
	rq.Insert(1, p)

	// THEN it sits between P1 and P3, ahead of the later arrival
	assert.Equal(t, []int{1, 2, 3, 4}, rq.PIDs())
}

func TestReadyQueue_Insert_AtEnds(t *testing.T) {
	rq := &ReadyQueue{}
	rq.Insert(0, NewProcess(2, 0, 1, 1))
	rq.Insert(0, NewProcess(1, 0, 1, 1))
	rq.Insert(2, NewProcess(3, 0, 1, 1))

	assert.Equal(t, []int{1, 2, 3}, rq.PIDs())
	assert.Panics(t, func() { rq.Insert(4, NewProcess(9, 0, 1, 1)) })
	assert.Panics(t, func() { rq.Insert(-1, NewProcess(9, 0, 1, 1)) })
}

func TestReadyQueue_Remove_PreservesOrder(t *testing.T) {
	// GIVEN P1 P2 P3 queued
	rq := &ReadyQueue{}
	for pid := 1; pid <= 3; pid++ {
		rq.Enqueue(NewProcess(pid, 0, 1, 1))
	}

	// WHEN the middle entry is removed
	p := rq.Remove(1)

	// THEN P2 is returned and the rest keep their order
	assert.Equal(t, 2, p.PID)
	assert.Equal(t, []int{1, 3}, rq.PIDs())
}

func TestReadyQueue_Remove_OutOfRange_Panics(t *testing.T) {
	rq := &ReadyQueue{}
	rq.Enqueue(NewProcess(1, 0, 1, 1))

	assert.Panics(t, func() { rq.Remove(1) })
	assert.Panics(t, func() { rq.Remove(-1) })
}

func TestReadyQueue_String(t *testing.T) {
	rq := &ReadyQueue{}
	assert.Equal(t, "[]", rq.String())

	rq.Enqueue(NewProcess(4, 0, 1, 1))
	rq.Enqueue(NewProcess(2, 0, 1, 1))
	assert.Equal(t, "[P4 P2]", rq.String())
}

func TestReadyQueue_Clear(t *testing.T) {
	rq := &ReadyQueue{}
	rq.Enqueue(NewProcess(1, 0, 1, 1))

	rq.Clear()

	assert.Equal(t, 0, rq.Len())
	assert.Empty(t, rq.Items())
}
