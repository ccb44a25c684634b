package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rogersnm/plotline/internal/id"
)

type Scene struct {
	ID                id.ID             `yaml:"id"`
	Title             string            `yaml:"title"`
	Description       string            `yaml:"description,omitempty"`
	Kind              Kind              `yaml:"kind"`
	Status            Status            `yaml:"status"`
	WordCount         int               `yaml:"word_count"`
	ExcludeFromExport bool              `yaml:"exclude_from_export,omitempty"`
	ArcNames          []string          `yaml:"arc_names,omitempty"`
	Associations      []id.ID           `yaml:"associated_scene,omitempty"`
	Date              string            `yaml:"date,omitempty"`
	Time              string            `yaml:"time,omitempty"`
	Day               string            `yaml:"day,omitempty"`
	LastsDays         string            `yaml:"lasts_days,omitempty"`
	LastsHours        string            `yaml:"lasts_hours,omitempty"`
	LastsMinutes      string            `yaml:"lasts_minutes,omitempty"`
	Characters        []id.ID           `yaml:"characters,omitempty"`
	Locations         []id.ID           `yaml:"locations,omitempty"`
	Items             []id.ID           `yaml:"items,omitempty"`
	Tags              []string          `yaml:"tags,omitempty"`
	Notes             string            `yaml:"notes,omitempty"`
	Extra             map[string]string `yaml:"extra,omitempty"`

	// Content is the scene prose, stored as the body of the scene file.
	Content string `yaml:"-"`

	// ArcPointBacklinks is derived by the arc check and never edited by hand.
	ArcPointBacklinks []id.ID `yaml:"-"`
}

// CountWords recomputes WordCount from Content.
func (s *Scene) CountWords() int {
	s.WordCount = len(strings.Fields(s.Content))
	return s.WordCount
}

func (s *Scene) Validate() error {
	if s.ID.Kind != id.Scene {
		return fmt.Errorf("scene id %s has the wrong kind", s.ID)
	}
	if err := ValidateKind(s.Kind); err != nil {
		return err
	}
	if err := ValidateStatus(s.Status); err != nil {
		return err
	}
	if s.WordCount < 0 {
		return fmt.Errorf("scene %s has a negative word count", s.ID)
	}
	seen := make(map[string]bool)
	for _, a := range s.ArcNames {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("scene %s has an empty arc name", s.ID)
		}
		if seen[a] {
			return fmt.Errorf("duplicate arc %q", a)
		}
		seen[a] = true
	}
	return nil
}

// AssociatedScene returns the anchor scene of an arc point.
func (s *Scene) AssociatedScene() (id.ID, bool) {
	if len(s.Associations) == 0 {
		return id.ID{}, false
	}
	return s.Associations[0], true
}

func (s *Scene) HasArc(name string) bool {
	return slices.Contains(s.ArcNames, name)
}

// AddArc adds name unless present. It reports whether the set changed.
func (s *Scene) AddArc(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || s.HasArc(name) {
		return false
	}
	s.ArcNames = append(s.ArcNames, name)
	return true
}

func (s *Scene) RemoveArc(name string) bool {
	i := slices.Index(s.ArcNames, name)
	if i < 0 {
		return false
	}
	s.ArcNames = slices.Delete(s.ArcNames, i, i+1)
	return true
}

// CopyTiming takes over date, time and duration from another scene.
func (s *Scene) CopyTiming(from *Scene) {
	s.Date = from.Date
	s.Time = from.Time
	s.Day = from.Day
	s.LastsDays = from.LastsDays
	s.LastsHours = from.LastsHours
	s.LastsMinutes = from.LastsMinutes
}

// RemoveReference drops ref from the scene's relation lists.
func (s *Scene) RemoveReference(ref id.ID) bool {
	var list *[]id.ID
	switch ref.Kind {
	case id.Character:
		list = &s.Characters
	case id.Location:
		list = &s.Locations
	case id.Item:
		list = &s.Items
	default:
		return false
	}
	n := len(*list)
	*list = slices.DeleteFunc(*list, func(x id.ID) bool { return x == ref })
	return len(*list) != n
}
