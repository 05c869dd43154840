package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/sramsim/sim/timing"
)

type interval struct {
	start, end timing.VTimeInCycle
}

// BusyTimeTracer counts the cycles during which at least one task is in
// flight. Overlapping tasks are counted once.
type BusyTimeTracer struct {
	lock       sync.Mutex
	timeTeller timing.TimeTeller
	filter     TaskFilter
	inflight   map[string]timing.VTimeInCycle
	done       []interval
	busyTime   timing.VTimeInCycle
}

// NewBusyTimeTracer creates a new BusyTimeTracer. A nil filter accepts all
// tasks.
func NewBusyTimeTracer(
	timeTeller timing.TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]timing.VTimeInCycle),
	}
}

// BusyTime returns the busy cycles of the tasks that have completed.
func (t *BusyTimeTracer) BusyTime() timing.VTimeInCycle {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.busyTime
}

// TerminateAllTasks ends every in-flight task at now.
func (t *BusyTimeTracer) TerminateAllTasks(now timing.VTimeInCycle) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for id, start := range t.inflight {
		t.done = append(t.done, interval{start: start, end: now})
		delete(t.inflight, id)
	}

	t.collapse()
}

// StartTask records the task start time.
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	t.inflight[task.ID] = now
}

// StepTask does nothing.
func (t *BusyTimeTracer) StepTask(_ Task) {}

// EndTask closes the interval of the task.
func (t *BusyTimeTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	delete(t.inflight, task.ID)
	t.done = append(t.done, interval{start: start, end: now})

	if len(t.inflight) == 0 {
		t.collapse()
	}
}

// collapse merges the completed intervals into busyTime. It must only run
// when no task is in flight, so that later tasks cannot overlap them.
func (t *BusyTimeTracer) collapse() {
	if len(t.done) == 0 {
		return
	}

	sort.Slice(t.done, func(i, j int) bool {
		return t.done[i].start < t.done[j].start
	})

	cur := t.done[0]
	for _, iv := range t.done[1:] {
		if iv.start <= cur.end {
			if iv.end > cur.end {
				cur.end = iv.end
			}

			continue
		}

		t.busyTime += cur.end - cur.start
		cur = iv
	}

	t.busyTime += cur.end - cur.start
	t.done = t.done[:0]
}
