package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelbradley91/StickySharedResources/internal/stress"
)

// fairnessCmd pits acquirers wanting one overlapping resource set
// against a churn worker that keeps invalidating their acquisitions.
// Watch maxRestarts against the restart budget and the gate-closure
// count: restarts stay bounded by budget plus gated completions.
var fairnessCmd = &cobra.Command{
	Use:   "fairness",
	Short: "Run the gate-fairness workload (acquirers vs. churn)",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := stress.Fairness(workload)
		if err != nil {
			return fmt.Errorf("fairness: %w", err)
		}
		cmd.Println(res.String())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(fairnessCmd)
}
