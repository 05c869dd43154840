package tracing

import (
	"fmt"
	"sync"

	"github.com/sarchlab/sramsim/datarecording"
	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
	"github.com/sarchlab/sramsim/mem/sram/fsm"
	"github.com/sarchlab/sramsim/sim/hooking"
	"github.com/sarchlab/sramsim/sim/id"
	"github.com/sarchlab/sramsim/sim/timing"
)

// ViolationTableName is the table violations are written to.
const ViolationTableName = "sram_violations"

// ViolationKind tells what the caller did wrong.
type ViolationKind int

// The kinds of violations.
const (
	// ViolationEarlyDisable means enable dropped before ready. The access
	// still runs to completion.
	ViolationEarlyDisable ViolationKind = iota

	// ViolationInputChanged means the address moved before SENSE.
	ViolationInputChanged

	// ViolationCorruptedWrite means the commit stored another address or
	// another value than the one presented when the write started.
	ViolationCorruptedWrite

	// ViolationResetDuringAccess means reset cut an access short. A write
	// cut this way is lost.
	ViolationResetDuringAccess
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationEarlyDisable:
		return "early-disable"
	case ViolationInputChanged:
		return "input-changed"
	case ViolationCorruptedWrite:
		return "corrupted-write"
	case ViolationResetDuringAccess:
		return "reset-during-access"
	default:
		return "unknown"
	}
}

// OpDetail is the request presented when an access starts.
type OpDetail struct {
	Mode fsm.Mode
	Addr decoder.Address
	Data uint8
}

func (d OpDetail) String() string {
	if d.Mode == fsm.ModeWrite {
		return fmt.Sprintf("write %s 0x%X", d.Addr, d.Data)
	}

	return fmt.Sprintf("%s %s", d.Mode, d.Addr)
}

// A Violation is a caller timing violation.
type Violation struct {
	OpID  string
	Where string
	Kind  ViolationKind
	Cycle timing.VTimeInCycle

	Want OpDetail
	Seen OpDetail
}

func (v Violation) String() string {
	return fmt.Sprintf("%s@%d %s: %s, saw %s",
		v.Where, v.Cycle, v.Kind, v.Want, v.Seen)
}

type violationEntry struct {
	OpID     string
	Location string
	Kind     string
	Cycle    uint64
	Want     string
	Seen     string
}

type access struct {
	id      string
	detail  OpDetail
	flagged map[ViolationKind]bool
}

// ViolationDetector watches SRAM macros for inputs that break the access
// protocol. It also reports every access as a task on the macro, so that
// tracers attached with CollectTrace see one task per access.
type ViolationDetector struct {
	lock       sync.Mutex
	backend    datarecording.DataRecorder
	inflight   map[string]*access
	violations []Violation
}

// NewViolationDetector creates a detector that keeps violations in memory.
func NewViolationDetector() *ViolationDetector {
	return &ViolationDetector{
		inflight: make(map[string]*access),
	}
}

// WithRecorder also writes the violations into a table.
func (d *ViolationDetector) WithRecorder(
	recorder datarecording.DataRecorder,
) *ViolationDetector {
	recorder.CreateTable(ViolationTableName, violationEntry{})
	d.backend = recorder

	return d
}

// Violations returns the violations seen so far.
func (d *ViolationDetector) Violations() []Violation {
	d.lock.Lock()
	defer d.lock.Unlock()

	return append([]Violation(nil), d.violations...)
}

// Func handles the edge and commit notifications.
func (d *ViolationDetector) Func(ctx hooking.HookCtx) {
	domain, ok := ctx.Domain.(NamedHookable)
	if !ok {
		return
	}

	switch ctx.Pos {
	case sram.HookPosCommit:
		d.checkCommit(domain, ctx.Item.(sram.Commit))
	case sram.HookPosEdge:
		d.handleEdge(domain, ctx.Item.(sram.Sample))
	}
}

func (d *ViolationDetector) checkCommit(domain NamedHookable, c sram.Commit) {
	d.lock.Lock()
	defer d.lock.Unlock()

	a := d.inflight[domain.Name()]
	if a == nil {
		return
	}

	seen := OpDetail{Mode: fsm.ModeWrite, Addr: c.Addr, Data: c.Data}
	if seen != a.detail {
		d.report(domain, a, ViolationCorruptedWrite, c.Cycle, seen)
	}
}

func (d *ViolationDetector) handleEdge(domain NamedHookable, s sram.Sample) {
	name := domain.Name()

	d.lock.Lock()
	a := d.inflight[name]
	seen := OpDetail{Mode: a.mode(), Addr: s.Pins.Addr, Data: s.Pins.DataIn}

	var ended *access
	switch {
	case a == nil:
	case !s.Pins.ResetN && s.From.Phase != fsm.Idle:
		d.report(domain, a, ViolationResetDuringAccess, s.Cycle, seen)
		ended = a
	case s.From.Phase == fsm.Precharge || s.From.Phase == fsm.Develop:
		d.checkInFlight(domain, a, s, seen)
	case s.From.Phase == fsm.Sense:
		ended = a
	}

	if ended != nil {
		delete(d.inflight, name)
	}

	var started *access
	if s.To.Phase == fsm.Precharge {
		started = &access{
			id: id.Generate(),
			detail: OpDetail{
				Mode: s.To.Mode,
				Addr: s.Pins.Addr,
				Data: s.Pins.DataIn,
			},
			flagged: make(map[ViolationKind]bool),
		}
		if started.detail.Mode == fsm.ModeRead {
			started.detail.Data = 0
		}

		d.inflight[name] = started
	}
	d.lock.Unlock()

	if ended != nil {
		EndTask(ended.id, domain)
	}

	if started != nil {
		StartTask(started.id, "", domain, "sram",
			started.detail.Mode.String(), started.detail)
	}

	if a != nil && ended == nil &&
		(s.To.Phase == fsm.Develop || s.To.Phase == fsm.Sense) {
		AddTaskStep(a.id, domain, s.To.Phase.String())
	}
}

func (d *ViolationDetector) checkInFlight(
	domain NamedHookable,
	a *access,
	s sram.Sample,
	seen OpDetail,
) {
	if !s.Pins.Enable {
		d.report(domain, a, ViolationEarlyDisable, s.Cycle, seen)
	}

	if s.Pins.Addr != a.detail.Addr {
		d.report(domain, a, ViolationInputChanged, s.Cycle, seen)
	}
}

func (d *ViolationDetector) report(
	domain NamedHookable,
	a *access,
	kind ViolationKind,
	cycle timing.VTimeInCycle,
	seen OpDetail,
) {
	if a.flagged[kind] {
		return
	}

	a.flagged[kind] = true

	v := Violation{
		OpID:  a.id,
		Where: domain.Name(),
		Kind:  kind,
		Cycle: cycle,
		Want:  a.detail,
		Seen:  seen,
	}
	d.violations = append(d.violations, v)

	if d.backend != nil {
		d.backend.InsertData(ViolationTableName, violationEntry{
			OpID:     v.OpID,
			Location: v.Where,
			Kind:     v.Kind.String(),
			Cycle:    uint64(v.Cycle),
			Want:     v.Want.String(),
			Seen:     v.Seen.String(),
		})
	}
}

func (a *access) mode() fsm.Mode {
	if a == nil {
		return fsm.ModeNone
	}

	return a.detail.Mode
}
