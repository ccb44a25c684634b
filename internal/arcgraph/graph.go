// Package arcgraph builds a read-only view of the narrative arcs of a
// project: each arc, its arc points, the scenes they are anchored to and the
// scenes tagged with the arc.
package arcgraph

import (
	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/store"
)

type Graph struct {
	arcs    []string
	defs    map[string]*model.Chapter
	points  map[string][]id.ID // arc -> arc points
	tagged  map[string][]id.ID // arc -> normal scenes listing it
	anchors map[id.ID]id.ID    // arc point -> anchor scene
	scenes  map[id.ID]*model.Scene
}

// Build collects arcs in chapter order. It expects a store that has been
// rebuilt, so arc definitions are unique and associations are valid.
func Build(st *store.Store) *Graph {
	g := &Graph{
		defs:    make(map[string]*model.Chapter),
		points:  make(map[string][]id.ID),
		tagged:  make(map[string][]id.ID),
		anchors: make(map[id.ID]id.ID),
		scenes:  make(map[id.ID]*model.Scene),
	}
	for _, chID := range st.SrtChapters {
		c := st.Chapters[chID]
		if c.IsArcDefining() {
			if _, dup := g.defs[c.ArcDefinition]; !dup {
				g.defs[c.ArcDefinition] = c
				g.arcs = append(g.arcs, c.ArcDefinition)
			}
		}
	}
	for _, chID := range st.SrtChapters {
		c := st.Chapters[chID]
		for _, scID := range c.SceneIDs {
			sc := st.Scenes[scID]
			g.scenes[scID] = sc
			if c.IsArcDefining() && g.defs[c.ArcDefinition] == c {
				g.points[c.ArcDefinition] = append(g.points[c.ArcDefinition], scID)
				if target, ok := sc.AssociatedScene(); ok {
					g.anchors[scID] = target
				}
				continue
			}
			if sc.Kind != model.KindNormal {
				continue
			}
			for _, name := range sc.ArcNames {
				if _, ok := g.defs[name]; ok {
					g.tagged[name] = append(g.tagged[name], scID)
				}
			}
		}
	}
	return g
}

// Arcs returns the arc names in document order.
func (g *Graph) Arcs() []string {
	return g.arcs
}

// Definition returns the chapter that defines arc.
func (g *Graph) Definition(arc string) (*model.Chapter, bool) {
	c, ok := g.defs[arc]
	return c, ok
}

func (g *Graph) Points(arc string) []id.ID {
	return g.points[arc]
}

func (g *Graph) Tagged(arc string) []id.ID {
	return g.tagged[arc]
}

// Anchor returns the scene an arc point is anchored to.
func (g *Graph) Anchor(point id.ID) (id.ID, bool) {
	a, ok := g.anchors[point]
	return a, ok
}

// Unanchored returns the scenes tagged with arc that no arc point of the arc
// is anchored to.
func (g *Graph) Unanchored(arc string) []id.ID {
	anchored := make(map[id.ID]bool)
	for _, p := range g.points[arc] {
		if a, ok := g.anchors[p]; ok {
			anchored[a] = true
		}
	}
	var out []id.ID
	for _, s := range g.tagged[arc] {
		if !anchored[s] {
			out = append(out, s)
		}
	}
	return out
}

func (g *Graph) Scene(x id.ID) *model.Scene {
	return g.scenes[x]
}

// Only returns a view of g restricted to one arc.
func (g *Graph) Only(arc string) *Graph {
	sub := *g
	sub.arcs = nil
	if _, ok := g.defs[arc]; ok {
		sub.arcs = []string{arc}
	}
	return &sub
}
