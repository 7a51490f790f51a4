// Package cmd wires the datagen command line.
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hsrdle/datagen/cmd/build"
	"github.com/hsrdle/datagen/cmd/serve"
	"github.com/hsrdle/datagen/cmd/version"
	"github.com/hsrdle/datagen/internal/buildinfo"
	"github.com/hsrdle/datagen/internal/conf"
	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/logger"
)

const telemetryFlushTimeout = 2 * time.Second

// RootCommand creates the root command. The returned cleanup flushes
// telemetry and closes log files and must be called after Execute returns.
func RootCommand(info *buildinfo.Context) (*cobra.Command, func()) {
	settings := &conf.Settings{}
	var central *logger.CentralLogger

	rootCmd := &cobra.Command{
		Use:           "datagen",
		Short:         "Star Rail character dataset generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd)

	versionCmd := version.Command(info)
	rootCmd.AddCommand(
		build.Command(settings),
		serve.Command(settings),
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}

		if err := conf.BindAnnotatedFlags(cmd.Flags()); err != nil {
			return err
		}

		loaded, err := conf.Load()
		if err != nil {
			return err
		}
		*settings = *loaded

		central, err = logger.NewCentralLogger(&settings.Logging, logger.WithConsoleWriter(cmd.ErrOrStderr()))
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logger.SetGlobal(central)

		if err := errors.InitSentry(settings.Telemetry.SentryDSN, info.GetVersion()); err != nil {
			// Telemetry is optional; keep running without it.
			central.Module("main").Warn("error reporting disabled", logger.Error(err))
		}
		return nil
	}

	cleanup := func() {
		errors.FlushTelemetry(telemetryFlushTimeout)
		if central != nil {
			_ = central.Close()
		}
	}

	return rootCmd, cleanup
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a config file (default: ./config.yaml or ~/.config/datagen/config.yaml)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("locale", conf.DefaultLocale, "Feed language, e.g. en, cn, jp")

	conf.BindFlag(flags, "config", "config")
	conf.BindFlag(flags, "debug", "debug")
	conf.BindFlag(flags, "locale", "upstream.locale")
}
