package engine

import (
	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
)

// ArcsPartTitle is the title of the part that holds materialized arcs.
const ArcsPartTitle = "Arcs"

// CheckArcs repairs arc definitions, arc points and arc references in
// document order. Violations are never returned as errors; each one is
// resolved and logged. In AutoMaterialize mode the ids of the created
// chapters are returned in creation order, led by the "Arcs" part when one
// had to be made.
func (e *Engine) CheckArcs(mode ArcMode) []id.ID {
	st := e.st

	// First definition in document order wins.
	defs := make(map[string]*model.Chapter)
	var arcChapters []*model.Chapter
	for _, chID := range st.SrtChapters {
		c := st.Chapters[chID]
		if !c.IsArcDefining() {
			continue
		}
		if first, ok := defs[c.ArcDefinition]; ok {
			e.log.Info("cleared duplicate arc definition",
				"chapter", c.ID, "arc", c.ArcDefinition, "defined_by", first.ID)
			c.ArcDefinition = ""
			continue
		}
		defs[c.ArcDefinition] = c
		arcChapters = append(arcChapters, c)
	}

	for _, sc := range st.Scenes {
		sc.ArcPointBacklinks = nil
	}

	for _, c := range arcChapters {
		arc := c.ArcDefinition
		for _, pointID := range c.SceneIDs {
			point := st.Scenes[pointID]
			if len(point.ArcNames) != 1 || point.ArcNames[0] != arc {
				point.ArcNames = []string{arc}
			}
			e.checkAssociation(point, arc)
		}
	}

	// Stray arc data on non-normal scenes outside arc-defining chapters.
	for _, chID := range st.SrtChapters {
		c := st.Chapters[chID]
		if c.IsArcDefining() {
			continue
		}
		for _, scID := range c.SceneIDs {
			sc := st.Scenes[scID]
			if sc.Kind == model.KindNormal {
				continue
			}
			if len(sc.Associations) > 0 || len(sc.ArcNames) > 0 {
				e.log.Debug("stripped arc data from non-normal scene", "scene", sc.ID, "kind", sc.Kind)
				sc.Associations = nil
				sc.ArcNames = nil
			}
		}
	}

	orphans := e.orphanArcs(defs)
	if len(orphans) == 0 {
		return nil
	}
	if mode == AutoMaterialize {
		return e.materializeArcs(orphans)
	}
	e.dropOrphans(orphans)
	return nil
}

// checkAssociation keeps at most the first association candidate of an arc
// point, and only if it names an existing normal scene tagged with the arc.
// The point takes over the anchor scene's timing.
func (e *Engine) checkAssociation(point *model.Scene, arc string) {
	target, ok := point.AssociatedScene()
	if !ok {
		return
	}
	if len(point.Associations) > 1 {
		point.Associations = point.Associations[:1]
	}
	anchor, exists := e.st.Scenes[target]
	var reason string
	switch {
	case !exists:
		reason = "scene does not exist"
	case anchor.Kind != model.KindNormal:
		reason = "scene is not normal"
	case !anchor.HasArc(arc):
		reason = "scene is not tagged with the arc"
	}
	if reason != "" {
		e.log.Info("cleared arc point association", "point", point.ID, "scene", target, "reason", reason)
		point.Associations = nil
		return
	}
	anchor.ArcPointBacklinks = append(anchor.ArcPointBacklinks, point.ID)
	point.CopyTiming(anchor)
}

// orphanArcs returns the arc names used by listed scenes that no chapter
// defines, in first-seen document order.
func (e *Engine) orphanArcs(defs map[string]*model.Chapter) []string {
	seen := make(map[string]bool)
	var orphans []string
	for _, chID := range e.st.SrtChapters {
		for _, scID := range e.st.Chapters[chID].SceneIDs {
			for _, name := range e.st.Scenes[scID].ArcNames {
				if _, ok := defs[name]; ok || seen[name] {
					continue
				}
				seen[name] = true
				orphans = append(orphans, name)
			}
		}
	}
	return orphans
}

func (e *Engine) dropOrphans(orphans []string) {
	for _, chID := range e.st.SrtChapters {
		for _, scID := range e.st.Chapters[chID].SceneIDs {
			sc := e.st.Scenes[scID]
			for _, name := range orphans {
				if sc.RemoveArc(name) {
					e.log.Info("removed orphaned arc reference", "scene", sc.ID, "arc", name)
				}
			}
		}
	}
}

// arcsPart returns the todo part in the planning branch that holds
// materialized arcs.
func (e *Engine) arcsPart() (*model.Chapter, bool) {
	for _, x := range e.tree.Children(id.Planning) {
		c, ok := e.st.Chapter(x)
		if ok && c.IsPart() && c.Kind == model.KindTodo && c.Title == ArcsPartTitle {
			return c, true
		}
	}
	return nil, false
}

// materializeArcs creates one arc chapter per orphaned name under the
// "Arcs" todo part of the planning branch, creating that part first when
// there is none. The new chapters are appended to the chapter order.
func (e *Engine) materializeArcs(orphans []string) []id.ID {
	st := e.st
	var created []id.ID
	part, ok := e.arcsPart()
	if !ok {
		part = st.NewChapter(ArcsPartTitle, model.LevelPart, model.KindTodo)
		if err := e.tree.Insert(id.Planning, -1, part.NodeID()); err != nil {
			st.Forget(part.ID)
			e.log.Error("creating arcs part", "error", err)
			return nil
		}
		st.SrtChapters = append(st.SrtChapters, part.ID)
		created = append(created, part.NodeID())
	}

	for _, name := range orphans {
		c := st.NewChapter(name, model.LevelChapter, model.KindTodo)
		c.ArcDefinition = name
		if err := e.tree.Insert(part.NodeID(), -1, c.ID); err != nil {
			st.Forget(c.ID)
			e.log.Error("creating arc chapter", "arc", name, "error", err)
			continue
		}
		st.SrtChapters = append(st.SrtChapters, c.ID)
		created = append(created, c.ID)
		e.log.Info("materialized orphaned arc", "arc", name, "chapter", c.ID)
	}
	return created
}

// OrphanArcs reports the arc names that manuscript scenes use but no chapter
// defines, without repairing anything. Scenes of arc-defining chapters are
// skipped. The chapter lists must be current.
func (e *Engine) OrphanArcs() []string {
	defs := make(map[string]*model.Chapter)
	for _, chID := range e.st.SrtChapters {
		c := e.st.Chapters[chID]
		if _, ok := defs[c.ArcDefinition]; c.IsArcDefining() && !ok {
			defs[c.ArcDefinition] = c
		}
	}
	var orphans []string
	seen := make(map[string]bool)
	for _, chID := range e.st.SrtChapters {
		c := e.st.Chapters[chID]
		if c.IsArcDefining() {
			continue
		}
		for _, scID := range c.SceneIDs {
			for _, name := range e.st.Scenes[scID].ArcNames {
				if _, ok := defs[name]; ok || seen[name] {
					continue
				}
				seen[name] = true
				orphans = append(orphans, name)
			}
		}
	}
	return orphans
}
