package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelbradley91/StickySharedResources/internal/stress"
)

// soakCmd hammers random acquire/connect/disconnect/free rounds from
// many goroutines. The run completing at all is the deadlock-freedom
// demonstration; the printed counters show how much interference the
// protocol absorbed.
var soakCmd = &cobra.Command{
	Use:   "soak",
	Short: "Run the randomized acquire/connect/disconnect soak workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := stress.Run(workload)
		if err != nil {
			return fmt.Errorf("soak: %w", err)
		}
		cmd.Println(res.String())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(soakCmd)
}
