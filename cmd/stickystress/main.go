// Command stickystress drives randomized concurrent workloads against
// the StickySharedResources manager to demonstrate deadlock freedom and
// bounded-restart fairness under real contention.
package main

import (
	"os"

	"github.com/michaelbradley91/StickySharedResources/cmd/stickystress/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
