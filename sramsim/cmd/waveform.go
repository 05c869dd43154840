package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/sramsim/datarecording"
	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/datapath"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
	"github.com/sarchlab/sramsim/mem/sram/fsm"
	"github.com/sarchlab/sramsim/mem/sram/sramtest"
	"github.com/sarchlab/sramsim/sim/hooking"
	"github.com/sarchlab/sramsim/sim/timing"
	"github.com/sarchlab/sramsim/tracing"
)

var waveformCmd = &cobra.Command{
	Use:   "waveform",
	Short: "Print the cycle log of the control FSM.",
	Long: `Print one line per rising edge with the FSM phase and its ` +
		`strobes. By default a fresh macro runs alternating writes and ` +
		`reads. With --from-db, the edges recorded by "run --trace-db" ` +
		`are printed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ops, _ := cmd.Flags().GetInt("ops")
		dbPath, _ := cmd.Flags().GetString("from-db")
		withPins, _ := cmd.Flags().GetBool("pins")

		p := &edgePrinter{out: cmd.OutOrStdout(), withPins: withPins}

		if dbPath != "" {
			return p.printRecorded(cmd.Context(), dbPath)
		}

		return p.printLive(ops)
	},
}

func init() {
	rootCmd.AddCommand(waveformCmd)

	waveformCmd.Flags().Int("ops", 4,
		"number of accesses, alternating write and read")
	waveformCmd.Flags().String("from-db", "",
		"print the waveform stored in this SQLite file")
	waveformCmd.Flags().Bool("pins", false,
		"also print the packed ui_in, uio_in and uo_out buses")
}

// edgePrinter writes cycle-log lines.
type edgePrinter struct {
	out      io.Writer
	withPins bool
}

func (p *edgePrinter) Func(ctx hooking.HookCtx) {
	if ctx.Pos != sram.HookPosEdge {
		return
	}

	if s, ok := ctx.Item.(sram.Sample); ok {
		p.print(s)
	}
}

func (p *edgePrinter) print(s sram.Sample) {
	line := sram.FormatSample(s)

	if p.withPins {
		uiIn, uioIn := sram.PackPins(s.Pins)
		uoOut := sram.PackOutputs(s.Signals.DataOut, s.Signals.Ready)
		line += fmt.Sprintf(" | ui=0x%02X uio=0x%02X uo=0x%02X",
			uiIn, uioIn, uoOut)
	}

	fmt.Fprintln(p.out, line)
}

func (p *edgePrinter) printLive(ops int) error {
	if ops < 0 {
		return fmt.Errorf("ops must be >= 0, got %d", ops)
	}

	bench := sramtest.New()
	if err := bench.Reset(sram.Defaults().ResetCycles); err != nil {
		return err
	}

	bench.DUT.AcceptHook(p)

	for i := 0; i < ops; i++ {
		addr := decoder.Address(i / 2)
		data := uint8(i/2+1) & datapath.WordMask

		var err error
		if i%2 == 0 {
			err = bench.Write(addr, data)
		} else {
			err = bench.Expect(addr, data)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (p *edgePrinter) printRecorded(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	reader := datarecording.NewReader(path)
	defer reader.Close()

	reader.MapTable(tracing.WaveformTableName, tracing.WaveformEntry{})

	rows, _, err := reader.Query(ctx, tracing.WaveformTableName,
		datarecording.QueryParams{OrderBy: "Cycle"})
	if err != nil {
		return err
	}

	for _, row := range rows {
		p.print(sampleOf(row.(*tracing.WaveformEntry)))
	}

	return nil
}

// sampleOf rebuilds the part of a sample that a waveform row keeps.
func sampleOf(e *tracing.WaveformEntry) sram.Sample {
	return sram.Sample{
		Cycle: timing.VTimeInCycle(e.Cycle),
		Pins: sram.Pins{
			Enable:       e.Enable,
			ReadNotWrite: e.ReadNotWr,
			Addr:         decoder.Address(e.Addr),
			DataIn:       e.DataIn,
			ResetN:       e.ResetN,
		},
		Signals: sram.Signals{
			Phase: fsm.Phase(e.State),
			Controls: fsm.Controls{
				PrechargeEnable: e.Precharge,
				RowEnable:       e.RowEnable,
				ReadEnable:      e.ReadEn,
				WriteEnable:     e.WriteEn,
				Ready:           e.Ready,
			},
			DataOut: e.DataOut,
		},
	}
}
