package engine

import (
	"math"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/outline"
	"github.com/rogersnm/plotline/internal/store"
)

// Synchronize rebuilds the store's ordered lists from the tree. Lists, scene
// assignments and progress data are cleared and recomputed from scratch, so
// repeated calls on an unchanged tree leave the store unchanged. Chapter
// levels follow the node kind, chapter kinds follow the branch, and scenes
// take the kind of a non-normal chapter. Nodes without an entity are skipped
// with their subtrees and returned.
func Synchronize(st *store.Store, tree *outline.Tree) []id.ID {
	st.SrtChapters = st.SrtChapters[:0]
	st.SrtCharacters = st.SrtCharacters[:0]
	st.SrtLocations = st.SrtLocations[:0]
	st.SrtItems = st.SrtItems[:0]
	st.SrtNotes = st.SrtNotes[:0]
	for _, c := range st.Chapters {
		c.SceneIDs = nil
	}

	var skipped []id.ID
	for _, root := range tree.Roots() {
		var current *model.Chapter
		tree.Walk(root, func(x id.ID, _ int) bool {
			if !st.Has(x) {
				skipped = append(skipped, x)
				return false
			}
			switch x.Kind {
			case id.Part, id.Chapter:
				c, _ := st.Chapter(x)
				syncChapter(c, x, root)
				st.SrtChapters = append(st.SrtChapters, c.ID)
				current = c
			case id.Scene:
				if current == nil {
					return false
				}
				sc := st.Scenes[x]
				syncScene(sc, current)
				current.SceneIDs = append(current.SceneIDs, x)
			case id.Character:
				st.SrtCharacters = append(st.SrtCharacters, x)
			case id.Location:
				st.SrtLocations = append(st.SrtLocations, x)
			case id.Item:
				st.SrtItems = append(st.SrtItems, x)
			case id.ProjectNote:
				st.SrtNotes = append(st.SrtNotes, x)
			}
			return true
		})
	}

	computeProgress(st)
	return skipped
}

func syncChapter(c *model.Chapter, node, branch id.ID) {
	if node.Kind == id.Part {
		c.Level = model.LevelPart
	} else {
		c.Level = model.LevelChapter
	}
	if c.IsTrash {
		c.Kind = model.KindUnused
		c.Level = model.LevelChapter
		return
	}
	c.Kind = kindForBranch(branch, c.Kind)
}

// kindForBranch returns the kind a chapter takes in the given root branch.
func kindForBranch(branch id.ID, k model.Kind) model.Kind {
	switch branch {
	case id.Research:
		return model.KindNotes
	case id.Planning:
		return model.KindTodo
	case id.Book:
		if k == model.KindNotes || k == model.KindTodo {
			return model.KindNormal
		}
		if k == "" {
			return model.KindNormal
		}
	}
	return k
}

func syncScene(sc *model.Scene, parent *model.Chapter) {
	switch {
	case parent.IsTrash:
		sc.Kind = model.KindUnused
	case parent.Kind != model.KindNormal:
		sc.Kind = parent.Kind
	case sc.Kind == "":
		sc.Kind = model.KindNormal
	}
}

// progressAccumulator carries the running word count through a pre-order
// traversal of the manuscript.
type progressAccumulator struct {
	total  int
	before int
}

func (a *progressAccumulator) position() store.Progress {
	p := store.Progress{WordsBefore: a.before}
	if a.total > 0 {
		p.Percent = math.Round(1000*float64(a.before)/float64(a.total)) / 10
		p.Known = true
	}
	return p
}

func (a *progressAccumulator) add(words int) {
	a.before += words
}

func computeProgress(st *store.Store) {
	clear(st.Progress)
	normal, _ := countWords(st)
	acc := &progressAccumulator{total: normal}
	for _, chID := range st.SrtChapters {
		c := st.Chapters[chID]
		st.Progress[c.NodeID()] = acc.position()
		for _, scID := range c.SceneIDs {
			st.Progress[scID] = acc.position()
			if sc := st.Scenes[scID]; countsAsNormal(c, sc) {
				acc.add(sc.WordCount)
			}
		}
	}
}
