package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func execute(args ...string) (string, error) {
	resetFlags(runCmd)
	resetFlags(waveformCmd)

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

var _ = Describe("run", func() {
	It("should pass the built-in scenario", func() {
		out, err := execute("run")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(
			"8 accesses in 37 cycles (740ns at 50MHz)"))
		Expect(out).To(ContainSubstring(
			"busy 24 of 37 cycles, 3.0 cycles per access"))
		Expect(out).To(ContainSubstring("PASS"))
		Expect(out).NotTo(ContainSubstring("VIOLATION"))
	})

	It("should take the frequency from the environment", func() {
		GinkgoT().Setenv(envFreqMHz, "100")

		out, err := execute("run")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("(370ns at 100MHz)"))
	})

	It("should prefer the flag over the environment", func() {
		GinkgoT().Setenv(envFreqMHz, "100")

		out, err := execute("run", "--freq-mhz", "25")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("(1.48µs at 25MHz)"))
	})

	It("should reject a zero frequency", func() {
		_, err := execute("run", "--freq-mhz", "0")

		Expect(err).To(HaveOccurred())
	})

	It("should ignore the monitor port without the monitor", func() {
		resetFlags(runCmd)
		Expect(runCmd.Flags().Set("monitor-port", "8080")).To(Succeed())
		Expect(runCmd.Flags().Set("wait", "true")).To(Succeed())

		cfg, err := loadRunConfig(runCmd)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.monitor).To(BeFalse())
		Expect(cfg.monitorPort).To(BeZero())
		Expect(cfg.wait).To(BeTrue())
	})

	It("should report a missing boolean flag", func() {
		c := &cobra.Command{Use: "partial"}
		c.Flags().Float64("freq-mhz", 50, "")
		c.Flags().Int("monitor-port", 0, "")
		c.Flags().Bool("monitor", false, "")

		_, err := loadRunConfig(c)

		Expect(err).To(MatchError(ContainSubstring("verbose")))
	})

	It("should fail on a wrong expectation", func() {
		path := filepath.Join(GinkgoT().TempDir(), "fail.sram")
		Expect(os.WriteFile(path, []byte(
			"reset 1\nwrite 0x005 0x3\nread 0x005 expect 0x4\n"), 0o600)).
			To(Succeed())

		out, err := execute("run", path)

		Expect(err).To(MatchError(errExpectFailed))
		Expect(out).To(ContainSubstring(
			"FAIL line 3: read 0x005 got 0x3, want 0x4"))
		Expect(out).NotTo(ContainSubstring("PASS"))
	})

	It("should report a bad script", func() {
		path := filepath.Join(GinkgoT().TempDir(), "bad.sram")
		Expect(os.WriteFile(path, []byte("jump 0x005\n"), 0o600)).
			To(Succeed())

		_, err := execute("run", path)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("line 1"))
	})

	It("should print edges when verbose", func() {
		out, err := execute("run", "--verbose")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(
			"| SENSE | pre=0 row=1 rd=1 wr=0 rdy=1 | dout=0xA"))
	})
})

var _ = Describe("waveform", func() {
	It("should print a write and a read", func() {
		out, err := execute("waveform", "--ops", "2")

		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(out), "\n")
		Expect(lines).To(HaveLen(8))
		Expect(lines[0]).To(ContainSubstring(
			"| PRECH | pre=1 row=0 rd=0 wr=0 rdy=0 | dout=0x0"))
		Expect(lines[1]).To(ContainSubstring("| DEVLP | pre=0 row=1"))
		Expect(lines[2]).To(ContainSubstring(
			"| SENSE | pre=0 row=1 rd=0 wr=1 rdy=1 | dout=0x0"))
		Expect(lines[3]).To(ContainSubstring("| IDLE  |"))
		Expect(lines[6]).To(ContainSubstring(
			"| SENSE | pre=0 row=1 rd=1 wr=0 rdy=1 | dout=0x1"))
	})

	It("should print the packed buses", func() {
		out, err := execute("waveform", "--ops", "1", "--pins")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("| ui=0x00 uio=0x11 uo=0x10"))
	})

	It("should print a recorded waveform", func() {
		db := filepath.Join(GinkgoT().TempDir(), "trace")

		_, err := execute("run", "--trace-db", db)
		Expect(err).NotTo(HaveOccurred())

		out, err := execute("waveform", "--from-db", db+".sqlite3")

		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(out, "| SENSE |")).To(Equal(8))
	})

	It("should fail on a missing database", func() {
		_, err := execute("waveform", "--from-db",
			filepath.Join(GinkgoT().TempDir(), "none.sqlite3"))

		Expect(err).To(HaveOccurred())
	})
})
