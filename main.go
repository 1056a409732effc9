// main is the entry point for the codegrade CLI.
package main

import (
	"fmt"
	"os"

	"github.com/kyhsueh/codegrade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
