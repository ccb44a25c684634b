package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rogersnm/plotline/internal/editor"
	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/markdown"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/store"
	"github.com/spf13/cobra"
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Manage scenes",
}

var sceneAddCmd = &cobra.Command{
	Use:   "add <chapter> <title>",
	Short: "Add a scene to a chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := parseKindID(args[0], id.Chapter)
		if err != nil {
			return err
		}
		index, _ := cmd.Flags().GetInt("index")
		x, err := eng.AddScene(ch, index, args[1])
		if err != nil {
			return err
		}
		if body := readStdin(); body != "" {
			setContent(eng.Store().Scenes[x], body)
		}
		fmt.Printf("Created scene %s (%s)\n", args[1], x)
		return nil
	},
}

var sceneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenes in outline order",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := eng.Store()
		chFilter, _ := cmd.Flags().GetString("chapter")
		statusFilter, _ := cmd.Flags().GetString("status")
		arcFilter, _ := cmd.Flags().GetString("arc")

		var only id.ID
		if chFilter != "" {
			x, err := parseKindID(chFilter, id.Chapter)
			if err != nil {
				return err
			}
			only = x
		}
		var scenes []*model.Scene
		for _, cid := range st.SrtChapters {
			if !only.IsZero() && cid != only {
				continue
			}
			for _, sc := range scenesOf(st.Chapters[cid]) {
				if statusFilter != "" && string(sc.Status) != statusFilter {
					continue
				}
				if arcFilter != "" && !sc.HasArc(arcFilter) {
					continue
				}
				scenes = append(scenes, sc)
			}
		}
		fmt.Println(markdown.RenderSceneTable(scenes))
		return nil
	},
}

var sceneShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := lookupScene(args[0])
		if err != nil {
			return err
		}
		pretty, _ := cmd.Flags().GetBool("pretty")
		if !pretty {
			data, err := markdown.Marshal(sc, sc.Content)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		}

		st := eng.Store()
		fields := []string{
			markdown.RenderField("ID", sc.ID.String()),
			markdown.RenderField("Status", markdown.RenderStatus(sc.Status)),
			markdown.RenderField("Kind", string(sc.Kind)),
			markdown.RenderField("Words", strconv.Itoa(sc.WordCount)),
		}
		if c, ok := st.ChapterOf(sc.ID); ok {
			fields = append(fields, markdown.RenderField("Chapter", fmt.Sprintf("%s (%s)", c.Title, c.NodeID())))
		}
		if p, ok := eng.Position(sc.ID); ok && p.Known {
			fields = append(fields, markdown.RenderField("Position",
				fmt.Sprintf("%.1f%% (%d words before)", p.Percent, p.WordsBefore)))
		}
		if len(sc.ArcNames) > 0 {
			fields = append(fields, markdown.RenderField("Arcs", strings.Join(sc.ArcNames, ", ")))
		}
		if a, ok := sc.AssociatedScene(); ok {
			fields = append(fields, markdown.RenderField("Anchored to", fmt.Sprintf("%s (%s)", st.Title(a), a)))
		}
		if len(sc.ArcPointBacklinks) > 0 {
			fields = append(fields, markdown.RenderField("Arc points", joinIDs(sc.ArcPointBacklinks)))
		}
		for _, rel := range []struct {
			label string
			ids   []id.ID
		}{
			{"Characters", sc.Characters},
			{"Locations", sc.Locations},
			{"Items", sc.Items},
		} {
			if len(rel.ids) > 0 {
				fields = append(fields, markdown.RenderField(rel.label, joinTitles(rel.ids)))
			}
		}
		if sc.Date != "" || sc.Time != "" || sc.Day != "" {
			fields = append(fields, markdown.RenderField("When", strings.TrimSpace(strings.Join([]string{sc.Day, sc.Date, sc.Time}, " "))))
		}
		if sc.ExcludeFromExport {
			fields = append(fields, markdown.RenderField("Export", "excluded"))
		}
		fmt.Print(markdown.RenderEntityHeader(sc.Title, fields))
		if sc.Content != "" {
			rendered, err := markdown.RenderMarkdown(sc.Content)
			if err != nil {
				return err
			}
			fmt.Print(rendered)
		}
		return nil
	},
}

var sceneEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a scene's prose in $EDITOR (or replace it from stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := lookupScene(args[0])
		if err != nil {
			return err
		}
		body := readStdin()
		if body == "" {
			body, err = editor.EditText(cfg.Editor, sc.ID.String(), sc.Content)
			if err != nil {
				return err
			}
		}
		if body == sc.Content {
			fmt.Println("No changes")
			return nil
		}
		setContent(sc, body)
		fmt.Printf("Updated %s (%d words)\n", sc.ID, sc.WordCount)
		return nil
	},
}

var sceneSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Change a scene's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := lookupScene(args[0])
		if err != nil {
			return err
		}
		f := cmd.Flags()
		strFields := map[string]*string{
			"title":         &sc.Title,
			"description":   &sc.Description,
			"notes":         &sc.Notes,
			"date":          &sc.Date,
			"time":          &sc.Time,
			"day":           &sc.Day,
			"lasts-days":    &sc.LastsDays,
			"lasts-hours":   &sc.LastsHours,
			"lasts-minutes": &sc.LastsMinutes,
		}
		changed := false
		for name, dst := range strFields {
			if f.Changed(name) {
				*dst, _ = f.GetString(name)
				changed = true
			}
		}
		if f.Changed("status") {
			s, _ := f.GetString("status")
			if err := model.ValidateStatus(model.Status(s)); err != nil {
				return err
			}
			sc.Status = model.Status(s)
			changed = true
		}
		if f.Changed("exclude") {
			sc.ExcludeFromExport, _ = f.GetBool("exclude")
			changed = true
		}
		if f.Changed("tags") {
			t, _ := f.GetString("tags")
			sc.Tags = store.SplitList(t)
			changed = true
		}
		if !changed {
			return fmt.Errorf("at least one flag is required (--title, --status, --description, --notes, --date, --time, --day, --lasts-*, --exclude, --tags)")
		}
		if err := sc.Validate(); err != nil {
			return err
		}
		eng.Rebuild()
		fmt.Printf("Updated %s\n", sc.ID)
		return nil
	},
}

var sceneArcsCmd = &cobra.Command{
	Use:   "arcs <id> <names>",
	Short: "Replace a scene's arcs (names separated by ';' or ',')",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := parseKindID(args[0], id.Scene)
		if err != nil {
			return err
		}
		if err := eng.SetArcs(x, store.SplitList(args[1])); err != nil {
			return err
		}
		// Strict mode may have removed undefined names.
		sc := eng.Store().Scenes[x]
		if len(sc.ArcNames) == 0 {
			fmt.Printf("%s has no arcs\n", x)
			return nil
		}
		fmt.Printf("%s arcs: %s\n", x, strings.Join(sc.ArcNames, ", "))
		return nil
	},
}

var sceneLinkCmd = &cobra.Command{
	Use:   "link <arc-point> [scene]",
	Short: "Anchor an arc point to the manuscript scene that realizes it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		point, err := parseKindID(args[0], id.Scene)
		if err != nil {
			return err
		}
		unlink, _ := cmd.Flags().GetBool("clear")
		var target id.ID
		switch {
		case unlink && len(args) == 2:
			return fmt.Errorf("--clear takes no scene")
		case !unlink && len(args) == 1:
			return fmt.Errorf("a scene id is required (or --clear)")
		case !unlink:
			if target, err = parseKindID(args[1], id.Scene); err != nil {
				return err
			}
		}
		if err := eng.Associate(point, target); err != nil {
			return err
		}
		if unlink {
			fmt.Printf("Cleared the anchor of %s\n", point)
			return nil
		}
		fmt.Printf("Anchored %s to %s\n", point, target)
		return nil
	},
}

var sceneRelateCmd = &cobra.Command{
	Use:   "relate <id>",
	Short: "Set a scene's characters, locations or items by title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := parseKindID(args[0], id.Scene)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		changed := false
		for _, rel := range []struct {
			flag string
			kind id.Kind
		}{
			{"characters", id.Character},
			{"locations", id.Location},
			{"items", id.Item},
		} {
			if !f.Changed(rel.flag) {
				continue
			}
			v, _ := f.GetString(rel.flag)
			changed = true
			if err := eng.SetRelations(x, rel.kind, store.SplitList(v)); err != nil {
				var unknown *store.UnknownTitleError
				if errors.As(err, &unknown) {
					return fmt.Errorf("%w (add it first with: plotline %s add %q)", err, rel.kind, unknown.Title)
				}
				return err
			}
		}
		if !changed {
			return fmt.Errorf("at least one flag is required (--characters, --locations, --items)")
		}
		fmt.Printf("Updated %s\n", x)
		return nil
	},
}

func lookupScene(s string) (*model.Scene, error) {
	x, err := parseKindID(s, id.Scene)
	if err != nil {
		return nil, err
	}
	sc, ok := eng.Store().Scene(x)
	if !ok {
		return nil, fmt.Errorf("scene %s: %w", x, store.ErrNotFound)
	}
	return sc, nil
}

func setContent(sc *model.Scene, body string) {
	sc.Content = strings.TrimRight(body, "\n")
	sc.CountWords()
	eng.Rebuild()
}

func joinIDs(ids []id.ID) string {
	parts := make([]string, len(ids))
	for i, x := range ids {
		parts[i] = x.String()
	}
	return strings.Join(parts, ", ")
}

func joinTitles(ids []id.ID) string {
	st := eng.Store()
	parts := make([]string, len(ids))
	for i, x := range ids {
		parts[i] = st.Title(x)
	}
	return strings.Join(parts, ", ")
}

func init() {
	sceneAddCmd.Flags().IntP("index", "i", -1, "position in the chapter (-1 appends)")

	sceneListCmd.Flags().StringP("chapter", "c", "", "only scenes of this chapter")
	sceneListCmd.Flags().StringP("status", "s", "", "filter by status (outline, draft, 1st_edit, 2nd_edit, done)")
	sceneListCmd.Flags().StringP("arc", "a", "", "only scenes tagged with this arc")

	sceneShowCmd.Flags().Bool("pretty", false, "render with ANSI styling")

	sceneSetCmd.Flags().String("title", "", "new title")
	sceneSetCmd.Flags().StringP("status", "s", "", "new status (outline, draft, 1st_edit, 2nd_edit, done)")
	sceneSetCmd.Flags().String("description", "", "new description")
	sceneSetCmd.Flags().String("notes", "", "new notes")
	sceneSetCmd.Flags().String("date", "", "story date")
	sceneSetCmd.Flags().String("time", "", "story time")
	sceneSetCmd.Flags().String("day", "", "story day")
	sceneSetCmd.Flags().String("lasts-days", "", "duration in days")
	sceneSetCmd.Flags().String("lasts-hours", "", "duration in hours")
	sceneSetCmd.Flags().String("lasts-minutes", "", "duration in minutes")
	sceneSetCmd.Flags().Bool("exclude", false, "exclude from export and word counts")
	sceneSetCmd.Flags().String("tags", "", "tags separated by ';' or ','")

	sceneLinkCmd.Flags().Bool("clear", false, "remove the anchor")

	sceneRelateCmd.Flags().String("characters", "", "character titles separated by ';' or ','")
	sceneRelateCmd.Flags().String("locations", "", "location titles separated by ';' or ','")
	sceneRelateCmd.Flags().String("items", "", "item titles separated by ';' or ','")

	sceneCmd.AddCommand(sceneAddCmd)
	sceneCmd.AddCommand(sceneListCmd)
	sceneCmd.AddCommand(sceneShowCmd)
	sceneCmd.AddCommand(sceneEditCmd)
	sceneCmd.AddCommand(sceneSetCmd)
	sceneCmd.AddCommand(sceneArcsCmd)
	sceneCmd.AddCommand(sceneLinkCmd)
	sceneCmd.AddCommand(sceneRelateCmd)
	rootCmd.AddCommand(sceneCmd)
}
