package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/michaelbradley91/StickySharedResources/internal/stress"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Workload parameters, resolved from config file then flags.
	workload stress.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stickystress",
	Short: "Stress harness for the StickySharedResources manager",
	Long: `stickystress drives randomized concurrent workloads against the
multi-resource mutual-exclusion manager.

The soak command hammers acquire/connect/disconnect/free rounds from
many goroutines to exercise deadlock freedom; the fairness command pits
acquirers against a churn worker to exercise the restart budget and the
admission gate. Workload parameters come from a YAML config file
(--config), overridable per run with flags.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadWorkload(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./stickystress.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int("workers", 0, "number of concurrent workers")
	rootCmd.PersistentFlags().Int("resources", 0, "size of the shared resource pool")
	rootCmd.PersistentFlags().Int("rounds", 0, "rounds per worker")
	rootCmd.PersistentFlags().Int64("seed", 0, "workload seed (reproducible runs)")
	rootCmd.PersistentFlags().Int("restart-budget", 0, "restarts tolerated before the gate closes")
}

// loadWorkload resolves the workload config: defaults, then the config
// file (if any), then explicit flag overrides.
func loadWorkload(cmd *cobra.Command) error {
	v := viper.New()

	// Defaults mirror stress.DefaultConfig.
	def := stress.DefaultConfig()
	v.SetDefault("workers", def.Workers)
	v.SetDefault("resources", def.Resources)
	v.SetDefault("rounds", def.Rounds)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("restart_budget", def.RestartBudget)

	// Config file: explicit path wins; otherwise look beside the cwd.
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("stickystress")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing default config is fine; a broken one is not.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&workload); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	// Flag overrides, only where the user actually set the flag. The
	// definitions live on the root command, so read them there no
	// matter which subcommand is running.
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("workers") {
		workload.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("resources") {
		workload.Resources, _ = flags.GetInt("resources")
	}
	if flags.Changed("rounds") {
		workload.Rounds, _ = flags.GetInt("rounds")
	}
	if flags.Changed("seed") {
		workload.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("restart-budget") {
		workload.RestartBudget, _ = flags.GetInt("restart-budget")
	}

	if verbose {
		cmd.Printf("workload: %+v\n", workload)
	}

	return nil
}
