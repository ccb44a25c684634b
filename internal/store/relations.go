package store

import (
	"fmt"
	"strings"

	"github.com/rogersnm/plotline/internal/id"
)

// UnknownTitleError reports a relationship token that names no entity.
type UnknownTitleError struct {
	Kind  id.Kind
	Title string
}

func (e *UnknownTitleError) Error() string {
	return fmt.Sprintf("no %s titled %q", e.Kind, e.Title)
}

// SetRelations replaces the scene's characters, locations or items with the
// entities named by titles. Processing stops at the first unknown title: the
// entities resolved before it are applied and an *UnknownTitleError is
// returned.
func (s *Store) SetRelations(sceneID id.ID, k id.Kind, titles []string) error {
	sc, ok := s.Scenes[sceneID]
	if !ok {
		return fmt.Errorf("%s: %w", sceneID, ErrNotFound)
	}
	var target *[]id.ID
	switch k {
	case id.Character:
		target = &sc.Characters
	case id.Location:
		target = &sc.Locations
	case id.Item:
		target = &sc.Items
	default:
		return fmt.Errorf("scenes cannot relate to a %s", k)
	}

	var resolved []id.ID
	var err error
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		x, ok := s.FindByTitle(k, t)
		if !ok {
			err = &UnknownTitleError{Kind: k, Title: t}
			break
		}
		if !containsID(resolved, x) {
			resolved = append(resolved, x)
		}
	}
	*target = resolved
	return err
}

// SplitList splits a user-entered semicolon or comma separated list.
func SplitList(s string) []string {
	f := func(r rune) bool { return r == ';' || r == ',' }
	var out []string
	for _, p := range strings.FieldsFunc(s, f) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsID(list []id.ID, x id.ID) bool {
	for _, v := range list {
		if v == x {
			return true
		}
	}
	return false
}
