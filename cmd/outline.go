package cmd

import (
	"fmt"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/markdown"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the outline",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(markdown.RenderTree(eng.Tree(), nodeLabel))
		return nil
	},
}

var rootLabels = map[id.ID]string{
	id.Book:       "Book",
	id.Research:   "Research",
	id.Planning:   "Planning",
	id.Characters: "Characters",
	id.Locations:  "Locations",
	id.Items:      "Items",
	id.Notes:      "Notes",
}

func nodeLabel(x id.ID) string {
	st := eng.Store()
	if name, ok := rootLabels[x]; ok {
		if x == id.Book && st.Settings.Title != "" {
			return fmt.Sprintf("%s: %s", name, st.Settings.Title)
		}
		return name
	}
	label := x.String() + " " + st.Title(x)
	if c, ok := st.Chapter(x); ok {
		if c.ArcDefinition != "" {
			label += fmt.Sprintf(" <arc %s>", c.ArcDefinition)
		}
		if c.Kind != model.KindNormal && !c.IsTrash {
			label += fmt.Sprintf(" (%s)", c.Kind)
		}
	}
	if sc, ok := st.Scene(x); ok {
		label += fmt.Sprintf(" [%s, %d words]", markdown.RenderStatus(sc.Status), sc.WordCount)
	}
	return label
}

var partCmd = &cobra.Command{
	Use:   "part",
	Short: "Manage parts",
}

var partAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a part to the book, research or planning branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, index, err := placement(cmd)
		if err != nil {
			return err
		}
		x, err := eng.AddPart(parent, index, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created part %s (%s)\n", eng.Store().Title(x), x)
		return nil
	},
}

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Manage chapters",
}

var chapterAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a chapter to a branch or part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, index, err := placement(cmd)
		if err != nil {
			return err
		}
		var x id.ID
		if arc, _ := cmd.Flags().GetString("arc"); arc != "" {
			x, err = eng.AddArcChapter(parent, index, args[0], arc)
		} else {
			x, err = eng.AddChapter(parent, index, args[0])
		}
		if err != nil {
			return err
		}
		fmt.Printf("Created chapter %s (%s)\n", eng.Store().Title(x), x)
		return nil
	},
}

var chapterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parts and chapters in outline order",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := eng.Store()
		kind, _ := cmd.Flags().GetString("kind")
		var chapters []*model.Chapter
		for _, x := range st.SrtChapters {
			c := st.Chapters[x]
			if kind != "" && string(c.Kind) != kind {
				continue
			}
			chapters = append(chapters, c)
		}
		fmt.Println(markdown.RenderChapterTable(chapters))
		return nil
	},
}

var chapterSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Change a chapter's or part's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := parseKindID(args[0], id.Chapter, id.Part)
		if err != nil {
			return err
		}
		c, ok := eng.Store().Chapter(x)
		if !ok {
			return fmt.Errorf("chapter %s not found", x)
		}
		f := cmd.Flags()
		changed := false
		if f.Changed("kind") {
			k, _ := f.GetString("kind")
			if err := eng.SetKind(x, model.Kind(k)); err != nil {
				return err
			}
			changed = true
		}
		if f.Changed("arc") {
			arc, _ := f.GetString("arc")
			if err := eng.SetArcDefinition(x, arc); err != nil {
				return err
			}
			changed = true
		}
		if f.Changed("title") {
			c.Title, _ = f.GetString("title")
			changed = true
		}
		if f.Changed("description") {
			c.Description, _ = f.GetString("description")
			changed = true
		}
		if f.Changed("no-auto-number") {
			c.NoAutoNumber, _ = f.GetBool("no-auto-number")
			changed = true
		}
		if !changed {
			return fmt.Errorf("at least one flag is required (--title, --description, --kind, --arc, --no-auto-number)")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		eng.Rebuild()
		fmt.Printf("Updated %s\n", x)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <parent>",
	Short: "Move a node under a new parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := parseID(args[0])
		if err != nil {
			return err
		}
		parent, err := parseID(args[1])
		if err != nil {
			return err
		}
		index, _ := cmd.Flags().GetInt("index")
		if err := eng.Move(x, parent, index); err != nil {
			return err
		}
		fmt.Printf("Moved %s under %s\n", x, parent)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a node (scenes and chapters go to the trash first)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := parseID(args[0])
		if err != nil {
			return err
		}
		st := eng.Store()
		if !st.Has(x) || x.Kind == id.Root {
			return fmt.Errorf("cannot delete %s", x)
		}
		fmt.Printf("%s: %s (%s)\n", capitalize(x.Kind.String()), st.Title(x), x)
		if err := confirmDelete(cmd, x.String()); err != nil {
			return err
		}
		inTrash := false
		if bin, ok := st.Trash(); ok {
			parent, _ := eng.Tree().Parent(x)
			inTrash = parent == bin.ID
		}
		if err := eng.Delete(x); err != nil {
			return err
		}
		if x.Kind == id.Scene && !inTrash {
			fmt.Printf("Moved %s to the trash\n", x)
			return nil
		}
		fmt.Printf("Deleted %s\n", x)
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote <chapter>",
	Short: "Turn an empty chapter into a part that adopts the chapters after it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := parseKindID(args[0], id.Chapter)
		if err != nil {
			return err
		}
		part, err := eng.Promote(x)
		if err != nil {
			return err
		}
		fmt.Printf("Promoted %s to part %s\n", x, part)
		return nil
	},
}

var demoteCmd = &cobra.Command{
	Use:   "demote <part>",
	Short: "Turn a part into a chapter, lifting its chapters out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := parseKindID(args[0], id.Part)
		if err != nil {
			return err
		}
		ch, err := eng.Demote(x)
		if err != nil {
			return err
		}
		fmt.Printf("Demoted %s to chapter %s\n", x, ch)
		return nil
	},
}

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect or empty the trash",
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenes in the trash",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := eng.Store()
		bin, ok := st.Trash()
		if !ok {
			fmt.Println("The trash is empty.")
			return nil
		}
		fmt.Println(markdown.RenderSceneTable(scenesOf(bin)))
		return nil
	},
}

var trashEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Permanently delete everything in the trash",
	RunE: func(cmd *cobra.Command, args []string) error {
		bin, ok := eng.Store().Trash()
		if !ok {
			fmt.Println("The trash is empty.")
			return nil
		}
		if err := confirmDelete(cmd, fmt.Sprintf("%d trashed scene(s) permanently", len(bin.SceneIDs))); err != nil {
			return err
		}
		if err := eng.EmptyTrash(); err != nil {
			return err
		}
		fmt.Println("Emptied the trash")
		return nil
	},
}

var renumberCmd = &cobra.Command{
	Use:   "renumber",
	Short: "Reapply automatic part and chapter titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if eng.Renumber() {
			fmt.Println("Titles updated")
		} else {
			fmt.Println("Titles already up to date")
		}
		return nil
	},
}

var numberingCmd = &cobra.Command{
	Use:   "numbering",
	Short: "Show or change the project's automatic numbering",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := &eng.Store().Settings.Numbering
		f := cmd.Flags()
		set := func(name string, dst *bool) {
			if f.Changed(name) {
				*dst, _ = f.GetBool(name)
			}
		}
		setStr := func(name string, dst *string) {
			if f.Changed(name) {
				*dst, _ = f.GetString(name)
			}
		}
		set("chapters", &n.Chapters.Enabled)
		set("parts", &n.Parts.Enabled)
		set("roman-chapters", &n.Chapters.Roman)
		set("roman-parts", &n.Parts.Roman)
		set("reset-within-parts", &n.ResetWithinParts)
		setStr("chapter-prefix", &n.Chapters.Prefix)
		setStr("chapter-suffix", &n.Chapters.Suffix)
		setStr("part-prefix", &n.Parts.Prefix)
		setStr("part-suffix", &n.Parts.Suffix)

		if f.NFlag() > 0 {
			eng.MarkDirty()
			eng.Renumber()
		}
		fields := []string{
			markdown.RenderField("Chapters", describePolicy(n.Chapters)),
			markdown.RenderField("Parts", describePolicy(n.Parts)),
			markdown.RenderField("Reset within parts", fmt.Sprint(n.ResetWithinParts)),
		}
		fmt.Print(markdown.RenderEntityHeader("Numbering", fields))
		return nil
	},
}

func describePolicy(p model.LevelPolicy) string {
	if !p.Enabled {
		return "off"
	}
	sample := "1"
	if p.Roman {
		sample = "I"
	}
	return fmt.Sprintf("%q", p.Prefix+sample+p.Suffix)
}

// placement reads the --parent and --index flags.
func placement(cmd *cobra.Command) (id.ID, int, error) {
	p, _ := cmd.Flags().GetString("parent")
	parent, err := parseID(p)
	if err != nil {
		return id.ID{}, 0, err
	}
	index, _ := cmd.Flags().GetInt("index")
	return parent, index, nil
}

func scenesOf(c *model.Chapter) []*model.Scene {
	st := eng.Store()
	scenes := make([]*model.Scene, 0, len(c.SceneIDs))
	for _, x := range c.SceneIDs {
		scenes = append(scenes, st.Scenes[x])
	}
	return scenes
}

func init() {
	partAddCmd.Flags().StringP("parent", "p", "book", "branch to add to (book, research, planning)")
	partAddCmd.Flags().IntP("index", "i", -1, "position among the parent's children (-1 appends)")

	chapterAddCmd.Flags().StringP("parent", "p", "book", "branch or part to add to")
	chapterAddCmd.Flags().IntP("index", "i", -1, "position among the parent's children (-1 appends)")
	chapterAddCmd.Flags().String("arc", "", "arc this planning chapter defines")

	chapterListCmd.Flags().StringP("kind", "k", "", "filter by kind (normal, notes, todo, unused)")

	chapterSetCmd.Flags().String("title", "", "new title")
	chapterSetCmd.Flags().String("description", "", "new description")
	chapterSetCmd.Flags().StringP("kind", "k", "", "new kind (normal, unused in the book)")
	chapterSetCmd.Flags().String("arc", "", "arc this chapter defines (empty clears)")
	chapterSetCmd.Flags().Bool("no-auto-number", false, "keep the title out of automatic numbering")

	moveCmd.Flags().IntP("index", "i", -1, "position among the new parent's children (-1 appends)")

	deleteCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	trashEmptyCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	numberingCmd.Flags().Bool("chapters", false, "number chapters")
	numberingCmd.Flags().Bool("parts", false, "number parts")
	numberingCmd.Flags().Bool("roman-chapters", false, "use roman numerals for chapters")
	numberingCmd.Flags().Bool("roman-parts", false, "use roman numerals for parts")
	numberingCmd.Flags().Bool("reset-within-parts", false, "restart chapter numbers in each part")
	numberingCmd.Flags().String("chapter-prefix", "", "text before the chapter number")
	numberingCmd.Flags().String("chapter-suffix", "", "text after the chapter number")
	numberingCmd.Flags().String("part-prefix", "", "text before the part number")
	numberingCmd.Flags().String("part-suffix", "", "text after the part number")

	partCmd.AddCommand(partAddCmd)
	chapterCmd.AddCommand(chapterAddCmd)
	chapterCmd.AddCommand(chapterListCmd)
	chapterCmd.AddCommand(chapterSetCmd)
	trashCmd.AddCommand(trashListCmd)
	trashCmd.AddCommand(trashEmptyCmd)

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(partCmd)
	rootCmd.AddCommand(chapterCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(demoteCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(renumberCmd)
	rootCmd.AddCommand(numberingCmd)
}
