package sram

import (
	"log"

	"github.com/sarchlab/sramsim/mem/sram/array"
	"github.com/sarchlab/sramsim/mem/sram/fsm"
	"github.com/sarchlab/sramsim/sim/timing"
)

// Builder constructs a Comp either from a Spec or per-field setters.
type Builder struct {
	spec   Spec
	engine timing.Engine
	array  *array.Array
}

// MakeBuilder returns a new Builder with the default Spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithEngine sets the engine that clocks the macro.
func (b Builder) WithEngine(engine timing.Engine) Builder {
	b.engine = engine
	return b
}

// WithSpec replaces the whole Spec.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(freq timing.Freq) Builder {
	b.spec.Freq = freq
	return b
}

// WithFreeRunning keeps the clock ticking while idle.
func (b Builder) WithFreeRunning() Builder {
	b.spec.FreeRunning = true
	return b
}

// WithResetCycles sets how long test benches hold reset.
func (b Builder) WithResetCycles(n int) Builder {
	b.spec.ResetCycles = n
	return b
}

// WithArray lets the macro use existing cells.
func (b Builder) WithArray(a *array.Array) Builder {
	b.array = a
	return b
}

// Build creates the macro. It comes out of reset with all inputs low except
// rst_n.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	c := &Comp{Spec: b.spec}
	c.TickingComponent = timing.NewTickingComponent(name, b.engine, b.spec.Freq, c)

	c.array = b.array
	if c.array == nil {
		c.array = array.New()
	}

	c.State = State{Reg: fsm.ResetRegister()}
	c.pins = IdlePins()
	c.settle()

	if b.spec.FreeRunning {
		c.TickLater()
	}

	return c
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		log.Panic("engine is not set")
	}

	if err := b.spec.Validate(); err != nil {
		log.Panic(err)
	}
}
