// Package main provides the entry point for msusim.
// msusim drives a cycle-level modular squaring unit through its
// ready/valid streaming interface.
//
// For the full CLI, use: go run ./cmd/msusim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("msusim - modular squaring unit co-simulation driver")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: msusim run [flags]")
	fmt.Println("       msusim config [file]")
	fmt.Println("")
	fmt.Println("Run flags:")
	fmt.Println("  --device     squarer or loopback")
	fmt.Println("  --jobs       YAML job file, run back to back after one reset")
	fmt.Println("  --trace      VCD waveform output")
	fmt.Println("  --coverage   toggle coverage report output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/msusim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/msusim' instead.")
	}
}
