package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Urethramancer/rv32i/disassembler"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "rvdis input [output]",
	Short: "Disassemble a flat RV32I image",
	Long: `rvdis decodes a flat little-endian RV32I image and prints source that
rvasm assembles back into the same bytes. Words that are not instructions
are written as pack directives and trailing bytes as a blob.`,

	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var output string
		if len(args) == 2 {
			output = args[1]
		}
		return run(args[0], output)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log a summary of the image")
}

func run(input, output string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Read the binary file directly. Do NOT modify it.
	code, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	listing := disassembler.Analyze(code)
	log.Debug("analysed image",
		"bytes", len(code),
		"words", len(listing.Instructions),
		"instructions", listing.CodeWords(),
		"labels", len(listing.Labels),
		"trailing", len(listing.Trailing),
	)

	text := listing.String()
	if output == "" {
		fmt.Print(text)
		return nil
	}

	if err := os.WriteFile(output, []byte(text), 0644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	log.Info("disassembly written", "file", output)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rvdis: %v\n", err)
		os.Exit(1)
	}
}
