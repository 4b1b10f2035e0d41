// File: cmd/seed.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/runsettings/internal/observability"
)

// newSeedCmd creates the `seed` command group.
func newSeedCmd(deps dependencies) *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Persist or restore the random seed used for a test run",
	}
	seedCmd.AddCommand(newSeedSaveCmd(deps))
	seedCmd.AddCommand(newSeedRestoreCmd(deps))
	return seedCmd
}

func newSeedSaveCmd(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "save <runsettings-file>",
		Short: "Load run settings and persist their random seed",
		Long: `Loads the run settings, generating a random seed if the document does not
specify one, and writes it to nunit_random_seed.tmp in the seed directory.
Write failures are logged as warnings, matching the adapter's behavior.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger := newRunLogger(observability.GetLogger())
			loader := deps.newLoader(logger)

			s, err := loadSettingsFile(deps, loader, args[0])
			if err != nil {
				return err
			}
			dir := cfg.Seed().Directory
			loader.SaveRandomSeed(s, dir)
			logger.Info("Random seed saved", zap.Int("seed", s.RandomSeed), zap.String("directory", dir))

			fmt.Fprintln(cmd.OutOrStdout(), s.RandomSeed)
			return nil
		},
	}
}

func newSeedRestoreCmd(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <runsettings-file>",
		Short: "Load run settings and print the seed a rerun would use",
		Long: `Loads the run settings and replaces their random seed with the one persisted
in the seed directory, if any. The resulting seed is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger := newRunLogger(observability.GetLogger())
			loader := deps.newLoader(logger)

			s, err := loadSettingsFile(deps, loader, args[0])
			if err != nil {
				return err
			}
			restored := loader.RestoreRandomSeed(s, cfg.Seed().Directory)
			logger.Info("Random seed resolved",
				zap.Int("seed", s.RandomSeed),
				zap.Bool("restored", restored),
			)

			fmt.Fprintln(cmd.OutOrStdout(), s.RandomSeed)
			return nil
		},
	}
}
