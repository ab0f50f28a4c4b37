package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/phambaophuc/photomark/internal/config"
	"github.com/phambaophuc/photomark/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		Long: `Manage the photomark configuration.

Config file location: ~/.photomark/config.yaml

Subcommands:
  show    show the effective configuration
  init    write a default config file
  set     change one value in the config file
  path    print the config file path`,
	}

	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigInitCmd(a),
		newConfigSetCmd(a),
		newConfigPathCmd(a),
	)
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after the config file and environment variables
have been applied. Without a config file the defaults are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow(cmd)
		},
	}
}

func (a *app) runConfigShow(cmd *cobra.Command) error {
	loader, err := a.loader()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if loader.Exists() {
		fmt.Fprintf(out, "Config file: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(out, "Config file: (using defaults)\n\n")
	}

	shown := *a.cfg
	shown.Redis.Password = maskSecret(shown.Redis.Password)
	shown.Supabase.Key = maskSecret(shown.Supabase.Key)

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	fmt.Fprintln(out, string(data))

	fmt.Fprintln(out, "Environment:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	envVars := []struct {
		key    string
		secret bool
	}{
		{"PHOTOMARK_FONT_SIZE", false},
		{"PHOTOMARK_OPACITY", false},
		{"PHOTOMARK_COLOR", false},
		{"PHOTOMARK_POSITION", false},
		{"PHOTOMARK_SCALE", false},
		{"PHOTOMARK_JPEG_QUALITY", false},
		{"PHOTOMARK_LOG_LEVEL", false},
		{"PORT", false},
		{"REDIS_ADDR", false},
		{"REDIS_PASSWORD", true},
		{"SUPABASE_URL", false},
		{"SUPABASE_KEY", true},
		{"SUPABASE_BUCKET", false},
	}
	for _, ev := range envVars {
		value := os.Getenv(ev.key)
		switch {
		case value == "":
			value = "(not set)"
		case ev.secret:
			value = maskSecret(value)
		}
		fmt.Fprintf(w, "  %s\t%s\n", ev.key, value)
	}
	return w.Flush()
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write the default configuration to ~/.photomark/config.yaml (or --config).
An existing file is only replaced with --force.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := a.loader()
			if err != nil {
				return err
			}

			if loader.Exists() && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", loader.ConfigPath())
			}

			if err := loader.Save(config.DefaultConfig()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config file created: %s\n", loader.ConfigPath())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one value in the config file",
		Long: `Change one value in the config file.

Supported keys:
  watermark.font_size     font size in pixels
  watermark.opacity       0-255
  watermark.color         R,G,B
  watermark.position      ` + joinPositions() + `
  watermark.scale         (0,1]
  output.dir_suffix       suffix of the default output directory
  output.jpeg_quality     1-100
  log.level               debug, info, warn, error

Example:
  photomark config set watermark.position top-left`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := a.loader()
			if err != nil {
				return err
			}

			cfg, err := loader.LoadRaw()
			if err != nil {
				return err
			}

			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}

			if err := loader.Save(cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "watermark.font_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid font size: %s", value)
		}
		cfg.Watermark.FontSize = n

	case "watermark.opacity":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid opacity: %s", value)
		}
		if _, err := config.NormalizeOpacity(n); err != nil {
			return err
		}
		cfg.Watermark.Opacity = n

	case "watermark.color":
		if _, err := config.ParseColor(value); err != nil {
			return err
		}
		cfg.Watermark.Color = value

	case "watermark.position":
		if _, err := models.ParsePosition(value); err != nil {
			return err
		}
		cfg.Watermark.Position = value

	case "watermark.scale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid scale: %s", value)
		}
		if _, err := config.NormalizeScale(f); err != nil {
			return err
		}
		cfg.Watermark.Scale = f

	case "output.dir_suffix":
		if value == "" {
			return fmt.Errorf("dir suffix must not be empty")
		}
		cfg.Output.DirSuffix = value

	case "output.jpeg_quality":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 100 {
			return fmt.Errorf("invalid JPEG quality: %s", value)
		}
		cfg.Output.JPEGQuality = n

	case "log.level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			cfg.Log.Level = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log level: %s", value)
		}

	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return nil
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := a.loader()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
			return nil
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
