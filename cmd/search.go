package cmd

import (
	"fmt"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/store"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles, prose, descriptions and notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := eng.Store().Search(args[0])
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		// Group by kind
		grouped := map[id.Kind][]store.SearchResult{}
		for _, r := range results {
			k := r.ID.Kind
			if k == id.Part {
				k = id.Chapter
			}
			grouped[k] = append(grouped[k], r)
		}

		kindOrder := []id.Kind{id.Chapter, id.Scene, id.Character, id.Location, id.Item, id.ProjectNote}
		for _, k := range kindOrder {
			items, ok := grouped[k]
			if !ok {
				continue
			}
			fmt.Printf("\n%ss:\n", capitalize(k.String()))
			for _, item := range items {
				fmt.Printf("  %s  %s\n", item.ID, item.Title)
				if item.Snippet != "" {
					fmt.Printf("    %s\n", item.Snippet)
				}
			}
		}
		fmt.Println()
		return nil
	},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-32) + s[1:]
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
