package model

import (
	"fmt"

	"github.com/rogersnm/plotline/internal/id"
)

type Chapter struct {
	ID            id.ID             `yaml:"id"`
	Title         string            `yaml:"title"`
	Description   string            `yaml:"description,omitempty"`
	Level         Level             `yaml:"level"`
	Kind          Kind              `yaml:"kind"`
	IsTrash       bool              `yaml:"is_trash,omitempty"`
	NoAutoNumber  bool              `yaml:"no_auto_number,omitempty"`
	ArcDefinition string            `yaml:"arc_definition,omitempty"`
	Extra         map[string]string `yaml:"extra,omitempty"`

	// SceneIDs mirrors the outline and is rebuilt on every sync.
	SceneIDs []id.ID `yaml:"-"`
}

func (c *Chapter) Validate() error {
	if c.ID.Kind != id.Chapter {
		return fmt.Errorf("chapter id %s has the wrong kind", c.ID)
	}
	if err := ValidateLevel(c.Level); err != nil {
		return err
	}
	if err := ValidateKind(c.Kind); err != nil {
		return err
	}
	if c.Level == LevelPart && len(c.SceneIDs) > 0 {
		return fmt.Errorf("part %s cannot hold scenes", c.ID)
	}
	if c.IsTrash && c.Kind != KindUnused {
		return fmt.Errorf("trash chapter %s must be unused", c.ID)
	}
	return nil
}

// IsPart reports whether the chapter begins a new section.
func (c *Chapter) IsPart() bool {
	return c.Level == LevelPart
}

// IsArcDefining reports whether the chapter defines a narrative arc.
func (c *Chapter) IsArcDefining() bool {
	return c.Kind == KindTodo && c.Level == LevelChapter && c.ArcDefinition != ""
}

// NodeID returns the outline node id matching the chapter's level.
func (c *Chapter) NodeID() id.ID {
	if c.Level == LevelPart {
		return c.ID.AsPart()
	}
	return c.ID
}
