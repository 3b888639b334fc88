package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"decompbench/pkg/dataset"
	"decompbench/pkg/gen"
)

func newDatasetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate and validate benign dataset trees",
	}
	cmd.AddCommand(newDatasetMakeCommand())
	cmd.AddCommand(newDatasetValidateCommand())
	return cmd
}

func newDatasetMakeCommand() *cobra.Command {
	var (
		outDir     string
		count      int
		categories []string
		workers    int
		provider   string
		modelName  string
	)

	cmd := &cobra.Command{
		Use:   "make",
		Short: "Generate a dataset tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if outDir == "" {
				return fmt.Errorf("--out is required")
			}

			var cats []dataset.Category
			for _, name := range categories {
				if !dataset.ValidCategory(name) {
					return fmt.Errorf("unknown category: %s", name)
				}
				cats = append(cats, dataset.Category(name))
			}

			checker := buildChecker(appConfig.EventLog, appConfig.Moderation)
			cfg := dataset.GenerateConfig{
				OutDir:     outDir,
				Count:      count,
				Categories: cats,
				Workers:    workers,
				Checker:    checker,
			}

			// Target text for DOC and IMS items comes from a model when
			// one is configured; otherwise the built-in targets are used.
			if provider != "" && provider != "none" {
				m, err := buildModel(ctx, RoleConfig{Provider: provider, Model: modelName}, modelDeps{checker: checker})
				if err != nil {
					return err
				}
				cfg.Caller = &gen.Caller{Model: m, Checker: checker}
			}

			man, err := dataset.Generate(ctx, cfg)
			if err != nil {
				return err
			}
			logger.Info("dataset generated",
				zap.String("out", outDir),
				zap.Int("items", man.Count),
				zap.Int("categories", len(man.Categories)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d items to %s\n", man.Count, outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory for the tree")
	cmd.Flags().IntVar(&count, "count", 10, "number of items to generate")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "category to include (repeatable; default all)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel item writers")
	cmd.Flags().StringVar(&provider, "provider", "", "model provider for generated targets (default none)")
	cmd.Flags().StringVar(&modelName, "model", "", "model name for generated targets")

	return cmd
}

func newDatasetValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate a dataset tree against its schemas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := dataset.Validate(args[0])
			if err != nil {
				return err
			}
			if len(problems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(cmd.ErrOrStderr(), p.String())
			}
			return fmt.Errorf("%d problems found", len(problems))
		},
	}
	return cmd
}
