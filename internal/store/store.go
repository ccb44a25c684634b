// Package store holds the authoritative entity maps and the ordered id lists
// that the engine rebuilds from the outline.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
)

var ErrNotFound = errors.New("entity not found")

// Progress is the position-dependent display data of a chapter or scene.
type Progress struct {
	WordsBefore int
	// Percent is only meaningful when Known is set; an empty manuscript has
	// no position.
	Percent float64
	Known   bool
}

// Store owns every addressable entity of one project.
type Store struct {
	Settings     model.Settings
	WordCountLog []model.WordCountEntry

	Chapters   map[id.ID]*model.Chapter
	Scenes     map[id.ID]*model.Scene
	Characters map[id.ID]*model.Character
	Locations  map[id.ID]*model.Location
	Items      map[id.ID]*model.Item
	Notes      map[id.ID]*model.ProjectNote

	SrtChapters   []id.ID
	SrtCharacters []id.ID
	SrtLocations  []id.ID
	SrtItems      []id.ID
	SrtNotes      []id.ID

	Progress map[id.ID]Progress

	ids *id.Allocator
}

func New(settings model.Settings) *Store {
	return &Store{
		Settings:   settings,
		Chapters:   make(map[id.ID]*model.Chapter),
		Scenes:     make(map[id.ID]*model.Scene),
		Characters: make(map[id.ID]*model.Character),
		Locations:  make(map[id.ID]*model.Location),
		Items:      make(map[id.ID]*model.Item),
		Notes:      make(map[id.ID]*model.ProjectNote),
		Progress:   make(map[id.ID]Progress),
		ids:        id.NewAllocator(),
	}
}

// NewChapter registers a chapter with a fresh id. Its position comes from
// the outline.
func (s *Store) NewChapter(title string, level model.Level, kind model.Kind) *model.Chapter {
	c := &model.Chapter{
		ID:    s.ids.Next(id.Chapter),
		Title: title,
		Level: level,
		Kind:  kind,
	}
	s.Chapters[c.ID] = c
	return c
}

func (s *Store) NewScene(title string, kind model.Kind) *model.Scene {
	sc := &model.Scene{
		ID:     s.ids.Next(id.Scene),
		Title:  title,
		Kind:   kind,
		Status: model.StatusOutline,
	}
	s.Scenes[sc.ID] = sc
	return sc
}

func (s *Store) NewCharacter(title string) *model.Character {
	c := &model.Character{ID: s.ids.Next(id.Character), Title: title}
	s.Characters[c.ID] = c
	return c
}

func (s *Store) NewLocation(title string) *model.Location {
	l := &model.Location{ID: s.ids.Next(id.Location), Title: title}
	s.Locations[l.ID] = l
	return l
}

func (s *Store) NewItem(title string) *model.Item {
	i := &model.Item{ID: s.ids.Next(id.Item), Title: title}
	s.Items[i.ID] = i
	return i
}

func (s *Store) NewNote(title string) *model.ProjectNote {
	n := &model.ProjectNote{ID: s.ids.Next(id.ProjectNote), Title: title}
	s.Notes[n.ID] = n
	return n
}

// Chapter looks up a chapter by chapter or part node id.
func (s *Store) Chapter(x id.ID) (*model.Chapter, bool) {
	c, ok := s.Chapters[x.Chapter()]
	return c, ok
}

func (s *Store) Scene(x id.ID) (*model.Scene, bool) {
	sc, ok := s.Scenes[x]
	return sc, ok
}

// Has reports whether an outline node id has an entity behind it.
func (s *Store) Has(x id.ID) bool {
	switch x.Kind {
	case id.Root:
		return true
	case id.Part, id.Chapter:
		_, ok := s.Chapters[x.Chapter()]
		return ok
	case id.Scene:
		_, ok := s.Scenes[x]
		return ok
	case id.Character:
		_, ok := s.Characters[x]
		return ok
	case id.Location:
		_, ok := s.Locations[x]
		return ok
	case id.Item:
		_, ok := s.Items[x]
		return ok
	case id.ProjectNote:
		_, ok := s.Notes[x]
		return ok
	}
	return false
}

// Title returns the display title of any entity, or its id string.
func (s *Store) Title(x id.ID) string {
	switch x.Kind {
	case id.Part, id.Chapter:
		if c, ok := s.Chapter(x); ok {
			return c.Title
		}
	case id.Scene:
		if sc, ok := s.Scenes[x]; ok {
			return sc.Title
		}
	case id.Character:
		if c, ok := s.Characters[x]; ok {
			return c.Title
		}
	case id.Location:
		if l, ok := s.Locations[x]; ok {
			return l.Title
		}
	case id.Item:
		if i, ok := s.Items[x]; ok {
			return i.Title
		}
	case id.ProjectNote:
		if n, ok := s.Notes[x]; ok {
			return n.Title
		}
	}
	return x.String()
}

// ChapterOf returns the chapter that currently lists the scene.
func (s *Store) ChapterOf(sceneID id.ID) (*model.Chapter, bool) {
	for _, chID := range s.SrtChapters {
		c := s.Chapters[chID]
		for _, scID := range c.SceneIDs {
			if scID == sceneID {
				return c, true
			}
		}
	}
	return nil, false
}

// Trash returns the trash chapter if one exists. When a project holds more
// than one, the first in chapter order wins, then the lowest id.
func (s *Store) Trash() (*model.Chapter, bool) {
	for _, x := range s.SrtChapters {
		if c := s.Chapters[x]; c != nil && c.IsTrash {
			return c, true
		}
	}
	var found *model.Chapter
	for _, c := range s.Chapters {
		if c.IsTrash && (found == nil || c.ID.N < found.ID.N) {
			found = c
		}
	}
	return found, found != nil
}

// Observe makes the allocator aware of ids loaded from elsewhere.
func (s *Store) Observe(x id.ID) {
	s.ids.Observe(x)
}

// Forget removes a chapter or scene entity. Callers keep the outline in step.
func (s *Store) Forget(x id.ID) {
	switch x.Kind {
	case id.Part, id.Chapter:
		delete(s.Chapters, x.Chapter())
	case id.Scene:
		delete(s.Scenes, x)
	}
	delete(s.Progress, x)
}

// RemoveWorldEntity deletes a character, location, item or project note and
// strips every scene reference to it. It returns the number of scenes that
// changed.
func (s *Store) RemoveWorldEntity(x id.ID) (int, error) {
	switch x.Kind {
	case id.Character:
		if _, ok := s.Characters[x]; !ok {
			return 0, fmt.Errorf("%s: %w", x, ErrNotFound)
		}
		delete(s.Characters, x)
	case id.Location:
		if _, ok := s.Locations[x]; !ok {
			return 0, fmt.Errorf("%s: %w", x, ErrNotFound)
		}
		delete(s.Locations, x)
	case id.Item:
		if _, ok := s.Items[x]; !ok {
			return 0, fmt.Errorf("%s: %w", x, ErrNotFound)
		}
		delete(s.Items, x)
	case id.ProjectNote:
		if _, ok := s.Notes[x]; !ok {
			return 0, fmt.Errorf("%s: %w", x, ErrNotFound)
		}
		delete(s.Notes, x)
		return 0, nil
	default:
		return 0, fmt.Errorf("%s is not a side-collection entity", x)
	}
	touched := 0
	for _, sc := range s.Scenes {
		if sc.RemoveReference(x) {
			touched++
		}
	}
	return touched, nil
}

// FindByTitle returns the first entity of kind k, in list order, whose title
// matches case-insensitively.
func (s *Store) FindByTitle(k id.Kind, title string) (id.ID, bool) {
	title = strings.TrimSpace(title)
	var list []id.ID
	switch k {
	case id.Character:
		list = s.SrtCharacters
	case id.Location:
		list = s.SrtLocations
	case id.Item:
		list = s.SrtItems
	case id.ProjectNote:
		list = s.SrtNotes
	case id.Scene:
		for _, chID := range s.SrtChapters {
			list = append(list, s.Chapters[chID].SceneIDs...)
		}
	case id.Chapter:
		list = s.SrtChapters
	}
	for _, x := range list {
		if strings.EqualFold(s.Title(x), title) {
			return x, true
		}
	}
	return id.ID{}, false
}
