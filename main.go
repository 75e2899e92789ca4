// Package main provides the entry point for bpsim.
// bpsim replays branch traces through direction predictors.
//
// For the full CLI, use: go run ./cmd/bpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("bpsim - Branch Direction Predictor Simulator")
	fmt.Println("")
	fmt.Println("Usage: bpsim run --trace <file> [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --predictor  Predictor kinds (static, onebit, twobit, bimodal, gshare, hybrid)")
	fmt.Println("  --config     Path to predictor configuration JSON/YAML file")
	fmt.Println("  --format     Report format (text, json, xlsx)")
	fmt.Println("  --debug      Verbose logging")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/bpsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/bpsim' instead.")
	}
}
