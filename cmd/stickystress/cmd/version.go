package cmd

import "github.com/spf13/cobra"

// Version is stamped by the build (-ldflags "-X ...cmd.Version=v1.2.3").
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stickystress version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("stickystress " + Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
