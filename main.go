// Package main provides the entry point for PQSim.
// PQSim is a bit-exact model of the special purpose register file of a
// post-quantum NTT accelerator, built on Akita.
//
// For the full CLI, use: go run ./cmd/pqsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("PQSim - PQC NTT Special Purpose Register Model")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: pqsim [options] <script|->")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to session configuration JSON file")
	fmt.Println("  -seed      Preload the derived NTT constants (default true)")
	fmt.Println("  -rtl       Write the trace in RTL log format")
	fmt.Println("  -trace     Write the trace to a file instead of stdout")
	fmt.Println("  -golden    Compare the trace with a reference trace")
	fmt.Println("  -digest    Print the SHA3-256 digest of the trace")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/pqsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/pqsim' instead.")
	}
}
