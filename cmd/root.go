// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/runsettings/internal/config"
	"github.com/xkilldash9x/runsettings/internal/observability"
	"github.com/xkilldash9x/runsettings/internal/settings"
)

type contextKey string

const configKey contextKey = "config"

// dependencies are the collaborators commands use to read run-settings files and persist seeds.
// Tests swap the filesystem for an in-memory one.
type dependencies struct {
	fs     afero.Fs
	random settings.RandomSource
}

func defaultDependencies() dependencies {
	return dependencies{fs: afero.NewOsFs()}
}

// newLoader builds a settings loader on the command's filesystem.
func (d dependencies) newLoader(logger *zap.Logger) *settings.Loader {
	opts := []settings.Option{settings.WithSeedStore(settings.NewFileSeedStore(d.fs))}
	if d.random != nil {
		opts = append(opts, settings.WithRandomSource(d.random))
	}
	return settings.NewLoader(logger, opts...)
}

// NewRootCommand returns a fresh root command with production dependencies.
func NewRootCommand() *cobra.Command {
	return newRootCmd(defaultDependencies())
}

func newRootCmd(deps dependencies) *cobra.Command {
	var cfgFile string
	v := viper.New()
	v.SetFs(deps.fs)
	config.SetDefaults(v)

	rootCmd := &cobra.Command{
		Use:           "runsettings",
		Short:         "Inspect NUnit adapter run settings and manage persisted random seeds.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "runsettings"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting runsettings", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./runsettings.yaml)")
	flags.String("seed-dir", "", "directory holding nunit_random_seed.tmp (overrides seed.directory)")
	flags.StringP("output", "o", "", "output format: json or summary (overrides output.format)")
	flags.String("log-level", "", "log level (overrides logger.level)")
	_ = v.BindPFlag("seed.directory", flags.Lookup("seed-dir"))
	_ = v.BindPFlag("output.format", flags.Lookup("output"))
	_ = v.BindPFlag("logger.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(newShowCmd(deps, v))
	rootCmd.AddCommand(newSeedCmd(deps))
	return rootCmd
}

// Execute runs the root command and logs any failure.
func Execute(ctx context.Context) error {
	defer observability.Sync()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			observability.GetLogger().Error("Command execution failed", zap.Error(err))
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

// initializeConfig reads in the config file and RUNSETTINGS_ environment variables.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("runsettings")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("RUNSETTINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults, flags and env vars apply.
	}
	return nil
}

// newRunLogger tags every entry of one command invocation with a fresh run ID.
func newRunLogger(base *zap.Logger) *zap.Logger {
	return base.With(zap.String("run_id", uuid.NewString()))
}

// getConfigFromContext returns the configuration stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (config.Interface, error) {
	cfg, ok := ctx.Value(configKey).(config.Interface)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not found in context")
	}
	return cfg, nil
}

// loadSettingsFile reads path and loads it through a discovery context.
func loadSettingsFile(deps dependencies, loader *settings.Loader, path string) (*settings.Settings, error) {
	data, err := afero.ReadFile(deps.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run settings file: %w", err)
	}
	s, err := loader.LoadContext(settings.NewStaticContext(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to load run settings from %s: %w", path, err)
	}
	return s, nil
}
