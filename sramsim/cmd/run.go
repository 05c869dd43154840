package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/fsm"
	"github.com/sarchlab/sramsim/mem/sram/sramtest"
	"github.com/sarchlab/sramsim/mem/sram/sramtest/script"
	"github.com/sarchlab/sramsim/monitoring"
	"github.com/sarchlab/sramsim/sim/hooking"
	"github.com/sarchlab/sramsim/sim/timing"
	"github.com/sarchlab/sramsim/simulation"
	"github.com/sarchlab/sramsim/tracing"
)

// errExpectFailed is returned when a read does not return the expected word.
var errExpectFailed = errors.New("expectation failed")

type runConfig struct {
	freq        timing.Freq
	monitor     bool
	monitorPort int
	traceDB     string
	verbose     bool
	logEvents   bool
	wait        bool
}

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a stimulus script against a fresh SRAM macro.",
	Long: `Run a stimulus script against a fresh SRAM macro. Without a ` +
		`script, the built-in end-to-end scenario runs. The command fails ` +
		`if any read misses its expected value.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}

		src, err := readScript(args)
		if err != nil {
			return err
		}

		cmds, err := script.ParseString(src)
		if err != nil {
			return err
		}

		return runScript(cmd.OutOrStdout(), cfg, cmds)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64("freq-mhz", 50,
		"clock frequency used to report wall-clock time, env "+envFreqMHz)
	runCmd.Flags().Bool("monitor", false,
		"serve the monitoring dashboard while running")
	runCmd.Flags().Int("monitor-port", 0,
		"port of the monitoring dashboard, env "+envMonitorPort)
	runCmd.Flags().String("trace-db", "",
		"record accesses, edges and violations into this SQLite file "+
			"(without .sqlite3), env "+envTraceDB)
	runCmd.Flags().Bool("verbose", false,
		"print one line per rising edge")
	runCmd.Flags().Bool("log-events", false,
		"print every event the engine handles")
	runCmd.Flags().Bool("wait", false,
		"keep the monitor up after the run until interrupted")
}

func loadRunConfig(cmd *cobra.Command) (runConfig, error) {
	var cfg runConfig

	freqMHz, err := floatFlag(cmd, "freq-mhz", envFreqMHz)
	if err != nil {
		return cfg, err
	}

	cfg.freq = timing.Freq(freqMHz) * timing.MHz
	if err := cfg.freq.Validate(); err != nil {
		return cfg, err
	}

	cfg.monitorPort, err = intFlag(cmd, "monitor-port", envMonitorPort)
	if err != nil {
		return cfg, err
	}

	err = boolFlags(cmd,
		[]string{"monitor", "verbose", "log-events", "wait"},
		&cfg.monitor, &cfg.verbose, &cfg.logEvents, &cfg.wait)
	if err != nil {
		return cfg, err
	}

	cfg.traceDB = stringFlag(cmd, "trace-db", envTraceDB)

	if !cfg.monitor {
		cfg.monitorPort = 0
	}

	return cfg, nil
}

func readScript(args []string) (string, error) {
	if len(args) == 0 {
		return script.EndToEnd, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func buildSimulation(cfg runConfig) *simulation.Simulation {
	b := simulation.MakeBuilder()

	if cfg.monitor {
		b = b.WithMonitorPort(cfg.monitorPort)
	} else {
		b = b.WithoutMonitoring()
	}

	if cfg.traceDB == "" {
		b = b.WithoutRecording()
	} else {
		b = b.WithOutputFileName(cfg.traceDB)
	}

	return b.Build()
}

func runScript(out io.Writer, cfg runConfig, cmds []script.Command) error {
	s := buildSimulation(cfg)
	defer s.Terminate()

	macro := sram.MakeBuilder().
		WithEngine(s.GetEngine()).
		WithFreq(cfg.freq).
		Build("SRAM")
	s.RegisterComponent(macro)

	if cfg.verbose {
		macro.AcceptHook(sram.NewSignalLogger(log.New(out, "", 0)))
	}

	if cfg.logEvents {
		s.GetEngine().AcceptHook(timing.NewEventLogger(log.New(os.Stderr, "", 0)))
	}

	if m := s.GetMonitor(); m != nil {
		bar := m.CreateProgressBar("Accesses", countAccesses(cmds))
		defer m.CompleteProgressBar(bar)

		macro.AcceptHook(&progressHook{bar: bar})
	}

	stats := attachStats(s.GetEngine(), macro)
	bench := sramtest.NewBench(s.GetEngine(), macro)

	report, err := script.Run(bench, cmds)
	if err != nil {
		return err
	}

	printReport(out, cfg.freq, report, stats, s)

	if cfg.wait && s.GetMonitor() != nil {
		waitForInterrupt(out, s.MonitorURL())
	}

	if !report.Passed() {
		return fmt.Errorf("%w: %d of %d accesses",
			errExpectFailed, len(report.Failures), report.Accesses)
	}

	return nil
}

func countAccesses(cmds []script.Command) uint64 {
	var n uint64

	for _, c := range cmds {
		if c.Op == script.OpWrite || c.Op == script.OpRead {
			n++
		}
	}

	return n
}

// accessStats measures the accesses of one macro.
type accessStats struct {
	busy  *tracing.BusyTimeTracer
	total *tracing.TotalTimeTracer
}

func attachStats(engine timing.Engine, macro *sram.Comp) accessStats {
	stats := accessStats{
		busy: tracing.NewBusyTimeTracer(engine, nil),
		total: tracing.NewTotalTimeTracer(engine,
			func(tracing.Task) bool { return true }),
	}

	tracing.CollectTrace(macro, stats.busy)
	tracing.CollectTrace(macro, stats.total)

	return stats
}

func printReport(
	out io.Writer,
	freq timing.Freq,
	report script.Report,
	stats accessStats,
	s *simulation.Simulation,
) {
	elapsed := freq.Elapsed(timing.VTimeInCycle(report.Cycles))

	fmt.Fprintf(out, "%d accesses in %d cycles (%s at %s)\n",
		report.Accesses, report.Cycles, elapsed, freq)
	fmt.Fprintf(out, "busy %d of %d cycles, %.1f cycles per access\n",
		stats.busy.BusyTime(), report.Cycles, stats.total.AverageTime())

	for _, f := range report.Failures {
		fmt.Fprintf(out, "FAIL %s\n", f)
	}

	for _, v := range s.Violations() {
		fmt.Fprintf(out, "VIOLATION %s\n", v)
	}

	if report.Passed() {
		fmt.Fprintln(out, "PASS")
	}
}

func waitForInterrupt(out io.Writer, url string) {
	fmt.Fprintf(out, "Monitor still serving at %s, press Ctrl+C to exit\n", url)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

// progressHook shows an access as in progress from PRECHARGE on and as
// finished once it reaches SENSE.
type progressHook struct {
	bar *monitoring.ProgressBar
}

func (h *progressHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != sram.HookPosEdge {
		return
	}

	s, ok := ctx.Item.(sram.Sample)
	if !ok {
		return
	}

	switch s.To.Phase {
	case fsm.Precharge:
		h.bar.IncrementInProgress(1)
	case fsm.Sense:
		h.bar.MoveInProgressToFinished(1)
	}
}
