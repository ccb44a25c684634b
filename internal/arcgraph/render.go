package arcgraph

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/markdown"
)

var arcStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// RenderASCII draws every arc as a tree: its arc points with their anchor
// scenes, followed by tagged scenes that have no arc point.
func RenderASCII(g *Graph) string {
	if len(g.arcs) == 0 {
		return "No arcs."
	}
	var sb strings.Builder
	for i, arc := range g.arcs {
		if i > 0 {
			sb.WriteString("\n")
		}
		def := g.defs[arc]
		sb.WriteString(arcStyle.Render(fmt.Sprintf("%s (%s)", arc, def.ID)) + "\n")

		points := g.points[arc]
		loose := g.Unanchored(arc)
		n := len(points) + len(loose)
		if n == 0 {
			sb.WriteString("    " + markdown.RenderWarning("(empty)") + "\n")
			continue
		}
		k := 0
		for _, p := range points {
			k++
			last := k == n
			sb.WriteString("    " + connector(last) + g.label(p) + "\n")
			if a, ok := g.anchors[p]; ok {
				childPrefix := "    │   "
				if last {
					childPrefix = "        "
				}
				sb.WriteString(childPrefix + "└── " + g.label(a) + "\n")
			}
		}
		for _, s := range loose {
			k++
			sb.WriteString("    " + connector(k == n) + g.label(s) + " " + markdown.RenderWarning("(no arc point)") + "\n")
		}
	}
	return sb.String()
}

func connector(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func (g *Graph) label(x id.ID) string {
	sc := g.scenes[x]
	if sc == nil {
		return x.String()
	}
	return markdown.StatusStyle(sc.Status).Render(fmt.Sprintf("%s %s [%s]", sc.ID, sc.Title, sc.Status))
}
