// Command dmgcore is the host driver: it owns everything the core
// specification marks out of scope (ROM file I/O, host windowing, CLI
// surface) and drives pkg/system's Boot/TickT/RunFrame (§6 External
// Interfaces, "shown for reference").
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
