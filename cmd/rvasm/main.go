package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/Urethramancer/rv32i/assembler"
)

var (
	verbose bool
	dump    bool
	workers int
)

var rootCmd = &cobra.Command{
	Use:   "rvasm input output",
	Short: "Assemble RV32I source into a flat binary image",
	Long: `rvasm reads an RV32I assembly source file and writes the encoded
program as a flat little-endian image with no header.

The output file is only written when the whole source assembled without
errors.`,

	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], args[1])
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every assembler pass")
	rootCmd.Flags().BoolVar(&dump, "dump", false, "print the resolved program and labels to stderr")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", runtime.GOMAXPROCS(0), "goroutines used for encoding")
}

func run(input, output string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	asm := assembler.New(assembler.WithLogger(log), assembler.WithWorkers(workers))
	code, err := asm.Assemble(string(data))
	if err != nil {
		return err
	}

	if dump {
		pp.Fprintln(os.Stderr, asm.Program())
		pp.Fprintln(os.Stderr, asm.Labels())
	}

	if err := os.WriteFile(output, code, 0644); err != nil {
		return err
	}
	log.Debug("wrote image", "file", output, "bytes", len(code))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rvasm: %v\n", err)
		os.Exit(1)
	}
}
