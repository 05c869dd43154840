package fsm

// A Machine holds a Register and steps it.
type Machine struct {
	reg Register
}

// NewMachine returns a machine in the reset state.
func NewMachine() *Machine {
	return &Machine{reg: ResetRegister()}
}

// Register returns the current state.
func (m *Machine) Register() Register {
	return m.reg
}

// Controls returns the strobes of the current state.
func (m *Machine) Controls() Controls {
	return Outputs(m.reg)
}

// Step applies one rising edge.
func (m *Machine) Step(in Inputs) Transition {
	t := Next(m.reg, in)
	m.reg = t.Next

	return t
}

// Restore overwrites the state.
func (m *Machine) Restore(r Register) {
	m.reg = r
}
