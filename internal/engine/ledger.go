package engine

import (
	"slices"
	"strings"
	"time"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/store"
)

// CountWords returns the words of normal scenes and of normal plus unused
// scenes. Scenes in the trash or excluded from export are not counted.
func (e *Engine) CountWords() (normal, total int) {
	return countWords(e.st)
}

func countWords(st *store.Store) (normal, total int) {
	for _, chID := range st.SrtChapters {
		c := st.Chapters[chID]
		if c.IsTrash {
			continue
		}
		for _, scID := range c.SceneIDs {
			sc := st.Scenes[scID]
			if sc.ExcludeFromExport {
				continue
			}
			switch sc.Kind {
			case model.KindNormal:
				normal += sc.WordCount
				total += sc.WordCount
			case model.KindUnused:
				total += sc.WordCount
			}
		}
	}
	return normal, total
}

func countsAsNormal(c *model.Chapter, sc *model.Scene) bool {
	return !c.IsTrash && !sc.ExcludeFromExport && sc.Kind == model.KindNormal
}

// StatusCounts returns the number of counted normal scenes per status. Every
// status is present, with zero when no scene has it.
func (e *Engine) StatusCounts() map[model.Status]int {
	counts := make(map[model.Status]int, len(model.Statuses))
	for _, s := range model.Statuses {
		counts[s] = 0
	}
	for _, chID := range e.st.SrtChapters {
		c := e.st.Chapters[chID]
		for _, scID := range c.SceneIDs {
			sc := e.st.Scenes[scID]
			if countsAsNormal(c, sc) {
				counts[sc.Status]++
			}
		}
	}
	return counts
}

// AppendLogEntry records the counts for date (YYYY-MM-DD). An entry for the
// same date is overwritten, and an entry whose counts equal its
// predecessor's is dropped. It reports whether the log changed.
func (e *Engine) AppendLogEntry(date string, normal, total int) (bool, error) {
	entry := model.WordCountEntry{Date: date, Count: normal, TotalCount: total}
	if err := entry.Validate(); err != nil {
		return false, err
	}
	before := slices.Clone(e.st.WordCountLog)

	log := e.st.WordCountLog
	i, found := slices.BinarySearchFunc(log, date, func(w model.WordCountEntry, d string) int {
		return strings.Compare(w.Date, d)
	})
	if found {
		log[i] = entry
	} else {
		log = slices.Insert(log, i, entry)
	}
	e.st.WordCountLog = compactLog(log)

	if slices.Equal(before, e.st.WordCountLog) {
		return false, nil
	}
	e.dirty = true
	return true, nil
}

// compactLog collapses runs of consecutive entries with identical counts to
// their earliest entry.
func compactLog(log []model.WordCountEntry) []model.WordCountEntry {
	return slices.CompactFunc(log, func(a, b model.WordCountEntry) bool {
		return a.SameCounts(b)
	})
}

// RecordWordCount logs the current counts for the day of now, if the project
// saves word counts.
func (e *Engine) RecordWordCount(now time.Time) (bool, error) {
	if !e.st.Settings.SaveWordCount {
		return false, nil
	}
	normal, total := e.CountWords()
	return e.AppendLogEntry(now.Format(model.DateLayout), normal, total)
}

// Position returns the progress data of a chapter, part or scene node. The
// percentage is unknown while the manuscript is empty.
func (e *Engine) Position(x id.ID) (store.Progress, bool) {
	p, ok := e.st.Progress[x]
	return p, ok
}
