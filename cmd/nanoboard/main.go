// This is the main entry point for the nanoboard CLI.
// Build with: go build -o bin/nanoboard ./cmd/nanoboard
// Usage: nanoboard <command> [options]
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	cli := NewCLI(os.Stdout, os.Stderr)
	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
