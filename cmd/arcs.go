package cmd

import (
	"fmt"
	"strings"

	"github.com/rogersnm/plotline/internal/arcgraph"
	"github.com/rogersnm/plotline/internal/id"
	"github.com/spf13/cobra"
)

var arcsCmd = &cobra.Command{
	Use:   "arcs",
	Short: "Inspect story arcs",
}

var arcsShowCmd = &cobra.Command{
	Use:   "show [arc]",
	Short: "Show arcs with their arc points and anchor scenes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := arcgraph.Build(eng.Store())
		if len(args) == 1 {
			if _, ok := g.Definition(args[0]); !ok {
				return fmt.Errorf("arc %q is not defined", args[0])
			}
			g = g.Only(args[0])
		}
		fmt.Print(arcgraph.RenderASCII(g))
		return nil
	},
}

var arcsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List defined arcs",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := arcgraph.Build(eng.Store())
		if len(g.Arcs()) == 0 {
			fmt.Println("No arcs.")
			return nil
		}
		for _, arc := range g.Arcs() {
			def, _ := g.Definition(arc)
			fmt.Printf("%s  %s  (%d points, %d scenes, %d unanchored)\n",
				def.ID, arc, len(g.Points(arc)), len(g.Tagged(arc)), len(g.Unanchored(arc)))
		}
		return nil
	},
}

var arcsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report arc names that no chapter defined",
	Long: `Report arc names that scenes used but no chapter defined when the
project was read. Reading a project creates an arc chapter for each such
name under the planning part "Arcs", so no arc tag is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(openOrphans) == 0 {
			fmt.Println("All arcs are defined.")
			return nil
		}
		fmt.Printf("Undefined arcs: %s\n", strings.Join(openOrphans, ", "))
		st := eng.Store()
		for _, x := range openCreated {
			if x.Kind == id.Part {
				fmt.Printf("Created part %s (%s)\n", st.Title(x), x)
				continue
			}
			fmt.Printf("Created arc chapter %s (%s)\n", st.Title(x), x)
		}
		return nil
	},
}

func init() {
	arcsCmd.AddCommand(arcsShowCmd)
	arcsCmd.AddCommand(arcsListCmd)
	arcsCmd.AddCommand(arcsCheckCmd)
	rootCmd.AddCommand(arcsCmd)
}
