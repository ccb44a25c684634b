package store

import (
	"strings"

	"github.com/rogersnm/plotline/internal/id"
)

type SearchResult struct {
	ID      id.ID
	Title   string
	Snippet string
}

// Search matches query case-insensitively against titles and text of every
// listed entity. Results follow outline order: chapters with their scenes,
// then characters, locations, items and notes.
func (s *Store) Search(query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []SearchResult
	add := func(x id.ID, title string, texts ...string) {
		if matchesQuery(q, title) {
			results = append(results, SearchResult{ID: x, Title: title})
			return
		}
		for _, text := range texts {
			if matchesQuery(q, text) {
				results = append(results, SearchResult{ID: x, Title: title, Snippet: snippet(text, q)})
				return
			}
		}
	}

	for _, chID := range s.SrtChapters {
		c := s.Chapters[chID]
		add(c.NodeID(), c.Title, c.Description)
		for _, scID := range c.SceneIDs {
			sc := s.Scenes[scID]
			add(scID, sc.Title, sc.Description, sc.Notes, sc.Content)
		}
	}
	for _, x := range s.SrtCharacters {
		c := s.Characters[x]
		add(x, c.Title, c.FullName, c.Aka, c.Description, c.Bio, c.Goals, c.Notes)
	}
	for _, x := range s.SrtLocations {
		l := s.Locations[x]
		add(x, l.Title, l.Aka, l.Description)
	}
	for _, x := range s.SrtItems {
		i := s.Items[x]
		add(x, i.Title, i.Aka, i.Description)
	}
	for _, x := range s.SrtNotes {
		n := s.Notes[x]
		add(x, n.Title, n.Description)
	}
	return results
}

func matchesQuery(q, text string) bool {
	return strings.Contains(strings.ToLower(text), q)
}

func snippet(body, query string) string {
	lower := strings.ToLower(body)
	idx := strings.Index(lower, query)
	if idx < 0 {
		return ""
	}
	start := idx - 40
	if start < 0 {
		start = 0
	}
	end := idx + len(query) + 40
	if end > len(body) {
		end = len(body)
	}
	s := body[start:end]
	if start > 0 {
		s = "..." + s
	}
	if end < len(body) {
		s = s + "..."
	}
	return strings.ReplaceAll(s, "\n", " ")
}
