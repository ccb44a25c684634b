package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/outline"
	"github.com/rogersnm/plotline/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			title = filepath.Base(abs)
		}
		author, _ := cmd.Flags().GetString("author")

		l := store.NewLocal(dir)
		if l.Exists() {
			return fmt.Errorf("%s already holds a project", dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating project directory: %w", err)
		}

		settings := newProjectSettings(title)
		settings.Author = author
		if err := l.Save(store.New(settings), outline.New()); err != nil {
			return err
		}
		fmt.Printf("Created project %q in %s\n", title, dir)

		if setDefault, _ := cmd.Flags().GetBool("default"); setDefault {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			cfg.DefaultProject = abs
			if err := saveConfig(); err != nil {
				return err
			}
			fmt.Println("Set as default project")
		}
		return nil
	},
}

// newProjectSettings applies the configured numbering defaults.
func newProjectSettings(title string) model.Settings {
	s := model.DefaultSettings(title)
	n := cfg.Numbering
	s.Numbering.Chapters.Enabled = n.Chapters
	s.Numbering.Parts.Enabled = n.Parts
	s.Numbering.Parts.Roman = n.RomanParts
	s.Numbering.ResetWithinParts = n.ResetWithinParts
	return s
}

func init() {
	initCmd.Flags().StringP("title", "t", "", "book title (defaults to the directory name)")
	initCmd.Flags().StringP("author", "a", "", "author name")
	initCmd.Flags().Bool("default", false, "make this the default project")
	rootCmd.AddCommand(initCmd)
}
