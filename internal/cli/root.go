// Package cli wires the photomark command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/phambaophuc/photomark/internal/config"
	"github.com/phambaophuc/photomark/internal/logger"
	"github.com/phambaophuc/photomark/internal/services/batch"
	"github.com/phambaophuc/photomark/internal/services/processor"
	"github.com/phambaophuc/photomark/internal/services/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// skipConfigLoad marks commands that must work while the config file is
// broken. They run on the built-in defaults.
const skipConfigLoad = "photomark/skip-config-load"

// SetVersion sets the version reported by `photomark version`.
func SetVersion(v string) {
	version = v
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "photomark",
		Short: "Stamp photos with text, image or capture-date watermarks",
		Long: `photomark draws a watermark onto a single photo or onto every photo in a
directory and writes the results as new files. The originals are never
modified.

Configuration is read from ~/.photomark/config.yaml (or --config), then
from .env and the environment, then from command-line flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.photomark/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newDateCmd(a),
		newMarkCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if cmd.Annotations[skipConfigLoad] == "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	log, err := logger.New(cfg.Log.Level, a.verbose)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(log)

	a.cfg = cfg
	a.logger = log
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) loader() (*config.Loader, error) {
	if a.configPath != "" {
		return config.NewLoaderWithPath(a.configPath), nil
	}
	return config.NewLoader()
}

func (a *app) fonts() *processor.FontChain {
	return processor.NewFontChain(a.logger, a.cfg.Watermark.Fonts, a.cfg.Watermark.FontDirs)
}

func (a *app) driver() *batch.Driver {
	quality := config.NormalizeJPEGQuality(a.cfg.Output.JPEGQuality)
	return batch.NewDriver(
		processor.NewImageProcessor(a.logger),
		storage.NewLocalWriter(quality),
		a.logger,
	)
}

// flagOr returns the flag value when the user set it and fallback otherwise.
func flagOr[T any](cmd *cobra.Command, name string, value, fallback T) T {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}
