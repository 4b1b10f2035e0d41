// File: cmd/show.go
package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/runsettings/internal/config"
	"github.com/xkilldash9x/runsettings/internal/observability"
	"github.com/xkilldash9x/runsettings/internal/settings"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newShowCmd creates the `show` command.
func newShowCmd(deps dependencies, v *viper.Viper) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show <runsettings-file>",
		Short: "Load a .runsettings file and print the resolved adapter settings",
		Long: `Parses a .runsettings document the way the NUnit adapter does, applying
defaults and validation, and prints the resulting settings. With --restore-seed
a seed persisted by an earlier run replaces the generated one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runShow(cmd.OutOrStdout(), newRunLogger(observability.GetLogger()), cfg, deps, args[0])
		},
	}

	showCmd.Flags().Bool("restore-seed", false, "restore a persisted random seed from the seed directory (overrides seed.restore)")
	_ = v.BindPFlag("seed.restore", showCmd.Flags().Lookup("restore-seed"))
	return showCmd
}

// runShow contains the core, testable logic of the show command.
func runShow(out io.Writer, logger *zap.Logger, cfg config.Interface, deps dependencies, path string) error {
	loader := deps.newLoader(logger)
	s, err := loadSettingsFile(deps, loader, path)
	if err != nil {
		return err
	}

	if cfg.Seed().Restore {
		loader.RestoreRandomSeed(s, cfg.Seed().Directory)
	}
	logger.Info("Loaded run settings", append([]zap.Field{zap.String("file", path)}, s.Summary()...)...)

	switch cfg.Output().Format {
	case "summary":
		return writeSummary(out, s)
	default:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
}

// writeSummary prints the settings as an aligned key/value table.
func writeSummary(out io.Writer, s *settings.Settings) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	rows := []struct {
		key   string
		value any
	}{
		{"MaxCpuCount", s.MaxCPUCount},
		{"ResultsDirectory", s.ResultsDirectory},
		{"TargetPlatform", s.TargetPlatform},
		{"TargetFrameworkVersion", s.TargetFrameworkVersion},
		{"TestAdapterPaths", s.TestAdapterPaths},
		{"InternalTraceLevel", s.InternalTraceLevel},
		{"WorkDirectory", s.WorkDirectory},
		{"DefaultTimeout", s.DefaultTimeout},
		{"NumberOfTestWorkers", s.NumberOfTestWorkers},
		{"ShadowCopyFiles", s.ShadowCopyFiles},
		{"Verbosity", s.Verbosity},
		{"UseVsKeepEngineRunning", s.UseVsKeepEngineRunning},
		{"BasePath", s.BasePath},
		{"PrivateBinPath", s.PrivateBinPath},
		{"RandomSeed", s.RandomSeed},
		{"RandomSeedSpecified", s.RandomSeedSpecified},
		{"InProcDataCollectorsAvailable", s.InProcDataCollectorsAvailable},
		{"SynchronousEvents", s.SynchronousEvents},
		{"DomainUsage", s.DomainUsage},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%v\n", r.key, r.value)
	}

	names := make([]string, 0, len(s.TestProperties))
	for name := range s.TestProperties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(tw, "TestRunParameter[%s]\t%s\n", name, s.TestProperties[name])
	}
	return tw.Flush()
}
