package cmd

import (
	"fmt"
	"strings"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/markdown"
	"github.com/rogersnm/plotline/internal/store"
	"github.com/spf13/cobra"
)

// worldKind describes one side-entity command group.
type worldKind struct {
	use, plural string
	kind        id.Kind
	add         func(index int, title string) (id.ID, error)
	rows        func(st *store.Store) []markdown.WorldRow
	describe    func(st *store.Store, x id.ID, text string) bool
}

var worldKinds = []worldKind{
	{
		use: "character", plural: "characters", kind: id.Character,
		add: func(i int, t string) (id.ID, error) { return eng.AddCharacter(i, t) },
		rows: func(st *store.Store) []markdown.WorldRow {
			rows := make([]markdown.WorldRow, 0, len(st.SrtCharacters))
			for _, x := range st.SrtCharacters {
				c := st.Characters[x]
				rows = append(rows, markdown.WorldRow{ID: x.String(), Title: c.Title, Description: c.Description})
			}
			return rows
		},
		describe: func(st *store.Store, x id.ID, text string) bool {
			c, ok := st.Characters[x]
			if ok {
				c.Description = text
			}
			return ok
		},
	},
	{
		use: "location", plural: "locations", kind: id.Location,
		add: func(i int, t string) (id.ID, error) { return eng.AddLocation(i, t) },
		rows: func(st *store.Store) []markdown.WorldRow {
			rows := make([]markdown.WorldRow, 0, len(st.SrtLocations))
			for _, x := range st.SrtLocations {
				l := st.Locations[x]
				rows = append(rows, markdown.WorldRow{ID: x.String(), Title: l.Title, Description: l.Description})
			}
			return rows
		},
		describe: func(st *store.Store, x id.ID, text string) bool {
			l, ok := st.Locations[x]
			if ok {
				l.Description = text
			}
			return ok
		},
	},
	{
		use: "item", plural: "items", kind: id.Item,
		add: func(i int, t string) (id.ID, error) { return eng.AddItem(i, t) },
		rows: func(st *store.Store) []markdown.WorldRow {
			rows := make([]markdown.WorldRow, 0, len(st.SrtItems))
			for _, x := range st.SrtItems {
				it := st.Items[x]
				rows = append(rows, markdown.WorldRow{ID: x.String(), Title: it.Title, Description: it.Description})
			}
			return rows
		},
		describe: func(st *store.Store, x id.ID, text string) bool {
			it, ok := st.Items[x]
			if ok {
				it.Description = text
			}
			return ok
		},
	},
	{
		use: "note", plural: "notes", kind: id.ProjectNote,
		add: func(i int, t string) (id.ID, error) { return eng.AddNote(i, t) },
		rows: func(st *store.Store) []markdown.WorldRow {
			rows := make([]markdown.WorldRow, 0, len(st.SrtNotes))
			for _, x := range st.SrtNotes {
				n := st.Notes[x]
				rows = append(rows, markdown.WorldRow{ID: x.String(), Title: n.Title, Description: n.Description})
			}
			return rows
		},
		describe: func(st *store.Store, x id.ID, text string) bool {
			n, ok := st.Notes[x]
			if ok {
				n.Description = text
			}
			return ok
		},
	},
}

func newWorldCmd(w worldKind) *cobra.Command {
	group := &cobra.Command{
		Use:   w.use,
		Short: "Manage " + w.plural,
	}

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a " + w.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetInt("index")
			x, err := w.add(index, args[0])
			if err != nil {
				return err
			}
			if body := strings.TrimSpace(readStdin()); body != "" {
				w.describe(eng.Store(), x, body)
			}
			fmt.Printf("Created %s %s (%s)\n", w.use, args[0], x)
			return nil
		},
	}
	add.Flags().IntP("index", "i", -1, "position in the list (-1 appends)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + w.plural,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(markdown.RenderWorldTable(w.plural, w.rows(eng.Store())))
			return nil
		},
	}

	describe := &cobra.Command{
		Use:   "describe <id> <text>",
		Short: "Set a " + w.use + "'s description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseKindID(args[0], w.kind)
			if err != nil {
				return err
			}
			if !w.describe(eng.Store(), x, args[1]) {
				return fmt.Errorf("%s %s: %w", w.use, x, store.ErrNotFound)
			}
			eng.MarkDirty()
			fmt.Printf("Updated %s\n", x)
			return nil
		},
	}

	group.AddCommand(add, list, describe)
	return group
}

func init() {
	for _, w := range worldKinds {
		rootCmd.AddCommand(newWorldCmd(w))
	}
}
