package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Urethramancer/rv32i/cpu"
)

var (
	verbose bool
	memsize int
	steps   int64
)

var rootCmd = &cobra.Command{
	Use:   "rvrun image",
	Short: "Run a flat RV32I image",
	Long: `rvrun loads a flat RV32I image at address 0 and executes it until an
ecall or ebreak halts the hart, then prints the register file.`,

	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log execution details")
	rootCmd.Flags().IntVarP(&memsize, "memory", "m", 1<<20, "memory size in bytes")
	rootCmd.Flags().Int64VarP(&steps, "steps", "s", 1_000_000, "stop after this many instructions (0 for no limit)")
}

func run(input string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	code, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	c := cpu.New(memsize)
	if err := c.LoadCode(0, code); err != nil {
		return err
	}
	log.Debug("loaded image", "bytes", len(code), "memory", memsize)

	err = c.Run(steps)
	log.Debug("stopped", "pc", fmt.Sprintf("0x%08x", c.PC), "instructions", c.Cycles, "trap", c.Trap)
	printRegisters(c)
	return err
}

func printRegisters(c *cpu.CPU) {
	fmt.Printf("pc   %08x\n", c.PC)
	for i := range cpu.NumRegisters {
		r := cpu.Register(i)
		fmt.Printf("%-4s %08x", r, c.X[r])
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("  ")
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rvrun: %v\n", err)
		os.Exit(1)
	}
}
