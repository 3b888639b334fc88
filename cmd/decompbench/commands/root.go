package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	appConfig  Config
	logger     *zap.Logger
	configPath string
	verbose    bool
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "decompbench",
		Short: "Decomposition-robustness evaluation harness",
		Long: "decompbench runs benign proxy tasks through a single strong model and\n" +
			"through a weak-planner/strong-executor pipeline, with safety filtering\n" +
			"at every stage, and compares the two arrangements.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Provider keys commonly live in a local .env.
			_ = godotenv.Load()

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			appConfig = cfg

			if verbose {
				logger, _ = zap.NewDevelopment()
			} else {
				logger, _ = zap.NewProduction()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")

	root.AddCommand(newRunCommand())
	root.AddCommand(newEvalCommand())
	root.AddCommand(newDatasetCommand())
	root.AddCommand(newListCommand())

	return root
}
