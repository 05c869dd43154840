// Package simulation puts the engine, the recorder, the monitor, and the
// tracers of one run together.
package simulation

import (
	"fmt"

	"github.com/sarchlab/sramsim/datarecording"
	"github.com/sarchlab/sramsim/monitoring"
	"github.com/sarchlab/sramsim/sim/timing"
	"github.com/sarchlab/sramsim/tracing"
)

// A Component is anything that can be registered with a simulation.
type Component interface {
	monitoring.Component
}

// A Simulation provides the services required to run one simulation.
type Simulation struct {
	id     string
	engine timing.Engine

	dataRecorder   datarecording.DataRecorder
	monitor        *monitoring.Monitor
	monitorURL     string
	opTracer       *tracing.DBTracer
	waveformTracer *tracing.WaveformTracer
	violations     *tracing.ViolationDetector

	components    []Component
	compNameIndex map[string]int
}

// ID returns the unique ID of the run.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() timing.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation. It is
// nil when recording is turned off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is turned off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address the monitor listens on.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Violations returns the protocol violations seen on all the registered
// components.
func (s *Simulation) Violations() []tracing.Violation {
	return s.violations.Violations()
}

// RegisterComponent registers a component with the simulation and attaches
// the tracers to it.
func (s *Simulation) RegisterComponent(c Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if s.dataRecorder != nil {
		tracing.CollectTrace(c, s.opTracer)
		c.AcceptHook(s.waveformTracer)
	}

	c.AcceptHook(s.violations)

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// GetComponentByName returns the component with the given name.
func (s *Simulation) GetComponentByName(name string) Component {
	i, found := s.compNameIndex[name]
	if !found {
		panic(fmt.Sprintf("component %s not registered", name))
	}

	return s.components[i]
}

// Components returns all the registered components.
func (s *Simulation) Components() []Component {
	return append([]Component(nil), s.components...)
}

// Terminate writes the unfinished records and closes the database.
func (s *Simulation) Terminate() {
	if s.dataRecorder == nil {
		return
	}

	s.opTracer.Terminate()

	err := s.dataRecorder.Close()
	if err != nil {
		panic(err)
	}
}
