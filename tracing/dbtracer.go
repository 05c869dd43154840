package tracing

import (
	"fmt"
	"sync"

	"github.com/sarchlab/sramsim/datarecording"
	"github.com/sarchlab/sramsim/sim/timing"
)

// OpTableName is the table DBTracer writes to.
const OpTableName = "sram_ops"

type taskTableEntry struct {
	ID         string
	ParentID   string
	Kind       string
	What       string
	Location   string
	StartCycle uint64
	EndCycle   uint64
	Detail     string
}

// DBTracer is a tracer that stores completed tasks into a database.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller timing.TimeTeller
	backend    datarecording.DataRecorder

	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(
	timeTeller timing.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(OpTableName, taskTableEntry{})

	return &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	startingTaskMustBeValid(task)

	task.StartTime = t.timeTeller.CurrentTime()
	t.tracingTasks[task.ID] = task
}

func startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task location must be set")
	}
}

// StepTask does nothing.
func (t *DBTracer) StepTask(_ Task) {
	// Do nothing for now.
}

// EndTask writes the task.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	originalTask.EndTime = t.timeTeller.CurrentTime()
	delete(t.tracingTasks, task.ID)

	entry := taskTableEntry{
		ID:         originalTask.ID,
		ParentID:   originalTask.ParentID,
		Kind:       originalTask.Kind,
		What:       originalTask.What,
		Location:   originalTask.Where,
		StartCycle: uint64(originalTask.StartTime),
		EndCycle:   uint64(originalTask.EndTime),
	}

	if originalTask.Detail != nil {
		entry.Detail = fmt.Sprint(originalTask.Detail)
	}

	t.backend.InsertData(OpTableName, entry)
}

// Terminate drops unfinished tasks and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracingTasks = make(map[string]Task)
	t.backend.Flush()
}
