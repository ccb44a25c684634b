package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rogersnm/plotline/internal/config"
	"github.com/rogersnm/plotline/internal/markdown"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change user configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := []string{
			markdown.RenderField("Data", dataDir),
			markdown.RenderField("Default project", orNone(cfg.DefaultProject)),
			markdown.RenderField("Arc mode", cfg.ArcMode),
			markdown.RenderField("Log level", cfg.LogLevel),
			markdown.RenderField("Editor", orNone(cfg.Editor)),
			markdown.RenderField("Number chapters", strconv.FormatBool(cfg.Numbering.Chapters)),
			markdown.RenderField("Number parts", strconv.FormatBool(cfg.Numbering.Parts)),
			markdown.RenderField("Roman parts", strconv.FormatBool(cfg.Numbering.RomanParts)),
			markdown.RenderField("Reset within parts", strconv.FormatBool(cfg.Numbering.ResetWithinParts)),
		}
		fmt.Print(markdown.RenderEntityHeader("Configuration", fields))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Keys: default_project, arc_mode, log_level,
editor, numbering.chapters, numbering.parts, numbering.roman_parts,
numbering.reset_within_parts.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := applyConfig(cfg, key, value); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := saveConfig(); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

func applyConfig(c *config.Config, key, value string) error {
	flag := func(dst *bool) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", key, value)
		}
		*dst = b
		return nil
	}
	switch strings.ToLower(key) {
	case "default_project":
		c.DefaultProject = value
	case "arc_mode":
		c.ArcMode = strings.ToLower(value)
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "editor":
		c.Editor = value
	case "numbering.chapters":
		return flag(&c.Numbering.Chapters)
	case "numbering.parts":
		return flag(&c.Numbering.Parts)
	case "numbering.roman_parts":
		return flag(&c.Numbering.RomanParts)
	case "numbering.reset_within_parts":
		return flag(&c.Numbering.ResetWithinParts)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func saveConfig() error {
	if err := config.Save(dataDir, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
