// Package cmd implements the layerdemo CLI commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/layerkit/cmd/layerdemo/internal/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

type globalOptions struct {
	configPath string
	logLevel   string
	verbose    bool

	resolved *config.Resolved
	logger   *zap.Logger
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "layerdemo",
		Short: "Replay layer scenes on an in-memory surface",
		Long: `layerdemo replays the frames of a scene file through the layer adapter.

Each frame is a complete declaration of the surface. Layers that keep their
id between frames are updated in place; new ids are created and attached;
missing ids are detached. The surface event trace shows exactly which
attach, detach and mutator calls every frame caused.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default: ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging and stack traces in error reports")

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newValidateCommand(opts))

	return rootCmd
}

func (o *globalOptions) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		return err
	}

	o.resolved, err = config.Resolve(cfg, config.Overrides{LogLevel: o.logLevel, Verbose: o.verbose})
	if err != nil {
		return err
	}

	o.logger, err = newLogger(o.resolved)
	return err
}
