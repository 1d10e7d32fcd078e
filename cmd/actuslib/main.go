// Command actuslib simulates ACTUS contracts from validation-format JSON
// files: schedule inspection, full lifecycle simulation, and comparison
// against reference results.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
