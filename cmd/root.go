package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/rogersnm/plotline/internal/config"
	"github.com/rogersnm/plotline/internal/engine"
	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/lockfile"
	"github.com/rogersnm/plotline/internal/store"
	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	dataDir    string
	projectDir string
	arcMode    string
	cfg        *config.Config
	logger     *slog.Logger
	local      *store.LocalStore
	eng        *engine.Engine
	lock       *lockfile.Lock

	// openOrphans holds the undefined arc names found when the project was
	// read, and openCreated the chapters the open-time rebuild made for them.
	openOrphans []string
	openCreated []id.ID
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".plotline")
	}
	return filepath.Join(home, ".plotline")
}

var rootCmd = &cobra.Command{
	Use:     "plotline",
	Short:   "Outline a novel as markdown: parts, chapters, scenes and story arcs",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine.
		_ = godotenv.Load()

		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("arc-mode") {
			cfg.ArcMode = arcMode
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

		if !needsProject(cmd) {
			return nil
		}
		return openProject()
	},
	SilenceUsage: true,
}

// needsProject reports whether cmd works on an open project. Commands in
// the config, init and lock groups run without one.
func needsProject(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "config", "init", "lock", "guide", "help", "completion":
			return false
		}
	}
	return cmd.Runnable()
}

// resolveProjectDir returns the project directory from the flag, the
// current directory or its parents, or the configured default.
func resolveProjectDir() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	if cwd, err := os.Getwd(); err == nil {
		if dir, _ := store.FindProject(cwd); dir != "" {
			return dir, nil
		}
	}
	if cfg != nil && cfg.DefaultProject != "" {
		return cfg.DefaultProject, nil
	}
	return "", fmt.Errorf("no project found (run inside a project, pass --project <dir>, or create one with: plotline init <dir>)")
}

func openProject() error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}
	local = store.NewLocal(dir)
	if !local.Exists() {
		return fmt.Errorf("%s is not a plotline project (no project.md)", dir)
	}
	lock, err = lockfile.Acquire(dir)
	if err != nil {
		if errors.Is(err, lockfile.ErrLocked) {
			return fmt.Errorf("%w (if no other editor is running, clear it with: plotline lock break %s)", err, dir)
		}
		return err
	}

	st, tree, err := local.Load()
	if err != nil {
		releaseLock()
		return fmt.Errorf("loading project: %w", err)
	}
	mode, err := engine.ParseArcMode(cfg.ArcMode)
	if err != nil {
		releaseLock()
		return err
	}
	eng = engine.New(st, tree, engine.WithLogger(logger), engine.WithArcMode(mode))
	engine.Synchronize(st, tree)
	openOrphans = eng.OrphanArcs()
	openCreated = eng.Reconcile()
	if len(openCreated) > 0 {
		// Keep the engine dirty so the new arc chapters are saved.
		logger.Info("materialized arcs on open", "arcs", openOrphans, "created", len(openCreated))
		return nil
	}
	eng.MarkSaved()
	return nil
}

// closeProject saves a changed project and releases its lock.
func closeProject() error {
	if eng == nil {
		return nil
	}
	defer func() {
		releaseLock()
		eng, local = nil, nil
	}()
	if !eng.Dirty() {
		return nil
	}
	if _, err := eng.RecordWordCount(time.Now()); err != nil {
		logger.Warn("word count not recorded", "err", err)
	}
	if err := local.Save(eng.Store(), eng.Tree()); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	eng.MarkSaved()
	return nil
}

func releaseLock() {
	if lock == nil {
		return
	}
	if err := lock.Release(); err != nil {
		logger.Warn("releasing lock", "dir", lock.Dir, "err", err)
	}
	lock = nil
}

var rootAliases = map[string]id.ID{
	"book":       id.Book,
	"research":   id.Research,
	"planning":   id.Planning,
	"characters": id.Characters,
	"locations":  id.Locations,
	"items":      id.Items,
	"notes":      id.Notes,
}

// parseID accepts an entity id like "sc12" or a root name like "book".
func parseID(s string) (id.ID, error) {
	if r, ok := rootAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return id.Parse(s)
}

func parseKindID(s string, kinds ...id.Kind) (id.ID, error) {
	x, err := parseID(s)
	if err != nil {
		return x, err
	}
	for _, k := range kinds {
		if x.Kind == k {
			return x, nil
		}
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return x, fmt.Errorf("%s is not a %s", x, strings.Join(names, " or "))
}

func readStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil {
		return ""
	}
	// Only read if stdin is explicitly a pipe (not a terminal, not a socket)
	if info.Mode()&os.ModeNamedPipe == 0 && info.Size() == 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return string(data)
}

func confirmDelete(cmd *cobra.Command, what string) error {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return nil
	}
	var confirm bool
	if err := huh.NewConfirm().Title(fmt.Sprintf("Delete %s?", what)).Value(&confirm).Run(); err != nil || !confirm {
		return fmt.Errorf("deletion cancelled")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path (config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "project directory")
	rootCmd.PersistentFlags().StringVar(&arcMode, "arc-mode", "", "policy for undefined arc names in edits made by this run (strict, materialize)")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"init": {
				Examples: []mtp.Example{
					{Description: "Create a project in a new directory", Command: "plotline init ./my-novel --title \"The Long Harbour\""},
				},
			},
			"tree": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "The outline: book, research and planning branches with parts, chapters and scenes, then the side entity lists",
				},
			},
			"part add": {
				Examples: []mtp.Example{
					{Description: "Add a part at the end of the book", Command: "plotline part add \"Beginnings\""},
				},
			},
			"chapter add": {
				Examples: []mtp.Example{
					{Description: "Add a chapter inside a part", Command: "plotline chapter add \"Arrival\" --parent pt1"},
					{Description: "Add a planning chapter that defines an arc", Command: "plotline chapter add \"Mentor arc\" --parent planning --arc Mentor"},
				},
			},
			"scene add": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Prose for the new scene",
				},
				Examples: []mtp.Example{
					{Description: "Add a scene with piped prose", Command: "cat dock.md | plotline scene add ch2 \"Dock\""},
				},
			},
			"scene show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Scene file (frontmatter and prose), or a styled view with --pretty",
				},
			},
			"scene arcs": {
				Examples: []mtp.Example{
					{Description: "Tag a scene with two arcs", Command: "plotline scene arcs sc4 \"Mentor; Revenge\""},
					{Description: "Clear a scene's arcs", Command: "plotline scene arcs sc4 \"\""},
				},
			},
			"scene link": {
				Examples: []mtp.Example{
					{Description: "Anchor an arc point to a manuscript scene", Command: "plotline scene link sc9 sc4"},
					{Description: "Clear an anchor", Command: "plotline scene link sc9 --clear"},
				},
			},
			"scene relate": {
				Examples: []mtp.Example{
					{Description: "Set the characters of a scene by title", Command: "plotline scene relate sc4 --characters \"Anna; Ben\""},
				},
			},
			"delete": {
				Examples: []mtp.Example{
					{Description: "Move a scene to the trash (interactive confirm)", Command: "plotline delete sc4"},
					{Description: "Delete a character (skip confirm)", Command: "plotline delete cr2 --force"},
				},
			},
			"arcs show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "ASCII tree of arcs, their arc points and anchor scenes",
				},
			},
			"arcs check": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Arc names that no chapter defined when the project was read, and the arc chapters created for them",
				},
			},
			"words": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Current manuscript and total word counts and the daily log",
				},
			},
			"search": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Search results with ID, title, and snippet",
				},
				Examples: []mtp.Example{
					{Description: "Search titles, prose and notes", Command: "plotline search \"harbour\""},
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeProject(); err == nil {
		err = cerr
	}
	return err
}
