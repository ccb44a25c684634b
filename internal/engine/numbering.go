package engine

import (
	"strconv"

	"github.com/rogersnm/plotline/internal/model"
)

// Renumber retitles normal chapters and parts in document order according
// to the project's numbering policy. It reports whether any title changed.
func (e *Engine) Renumber() bool {
	policy := e.st.Settings.Numbering
	chapterCount, partCount := 0, 0
	changed := false

	for _, chID := range e.st.SrtChapters {
		c := e.st.Chapters[chID]
		if c.NoAutoNumber || c.Kind != model.KindNormal || c.IsTrash {
			continue
		}
		var n int
		if c.IsPart() {
			if policy.ResetWithinParts {
				chapterCount = 0
			}
			if !policy.Parts.Enabled {
				continue
			}
			partCount++
			n = partCount
		} else {
			if !policy.Chapters.Enabled {
				continue
			}
			chapterCount++
			n = chapterCount
		}
		title := e.numberedTitle(policy.For(c.Level), n)
		if c.Title != title {
			e.log.Debug("renumbered", "chapter", c.NodeID(), "from", c.Title, "to", title)
			c.Title = title
			changed = true
		}
	}
	if changed {
		e.dirty = true
	}
	return changed
}

func (e *Engine) numberedTitle(p model.LevelPolicy, n int) string {
	num := strconv.Itoa(n)
	if p.Roman {
		r, err := ToRoman(n)
		if err != nil {
			e.log.Warn("falling back to arabic numbering", "number", n, "error", err)
		} else {
			num = r
		}
	}
	return p.Prefix + num + p.Suffix
}
