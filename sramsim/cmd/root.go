// Package cmd provides the command-line interface for sramsim.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// The environment variables that provide flag defaults. They can also be set
// in a .env file in the working directory.
const (
	envFreqMHz     = "SRAMSIM_FREQ_MHZ"
	envMonitorPort = "SRAMSIM_MONITOR_PORT"
	envTraceDB     = "SRAMSIM_TRACE_DB"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sramsim",
	Short: "Sramsim simulates a 64x64 SRAM macro cycle by cycle.",
	Long: `Sramsim simulates a 4096-bit SRAM macro cycle by cycle. It runs ` +
		`stimulus scripts against the macro, prints the control FSM ` +
		`waveform, and records traces into SQLite databases.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadEnv(_ *cobra.Command, _ []string) error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	return nil
}

// stringFlag returns the flag value, or the environment variable when the
// flag is not given on the command line.
func stringFlag(cmd *cobra.Command, name, env string) string {
	value, _ := cmd.Flags().GetString(name)
	if cmd.Flags().Changed(name) {
		return value
	}

	if v, ok := os.LookupEnv(env); ok {
		return v
	}

	return value
}

func intFlag(cmd *cobra.Command, name, env string) (int, error) {
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, err
	}

	if cmd.Flags().Changed(name) {
		return value, nil
	}

	v, ok := os.LookupEnv(env)
	if !ok {
		return value, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", env, err)
	}

	return n, nil
}

func floatFlag(cmd *cobra.Command, name, env string) (float64, error) {
	value, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return 0, err
	}

	if cmd.Flags().Changed(name) {
		return value, nil
	}

	v, ok := os.LookupEnv(env)
	if !ok {
		return value, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", env, err)
	}

	return f, nil
}

// boolFlags reads several boolean flags, stopping at the first unknown one.
func boolFlags(cmd *cobra.Command, names []string, dst ...*bool) error {
	for i, name := range names {
		v, err := cmd.Flags().GetBool(name)
		if err != nil {
			return err
		}

		*dst[i] = v
	}

	return nil
}
