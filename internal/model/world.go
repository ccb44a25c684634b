package model

import (
	"fmt"

	"github.com/rogersnm/plotline/internal/id"
)

type Character struct {
	ID          id.ID             `yaml:"id"`
	Title       string            `yaml:"title"`
	FullName    string            `yaml:"full_name,omitempty"`
	Aka         string            `yaml:"aka,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Bio         string            `yaml:"bio,omitempty"`
	Goals       string            `yaml:"goals,omitempty"`
	Notes       string            `yaml:"notes,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	IsMajor     bool              `yaml:"is_major,omitempty"`
	Extra       map[string]string `yaml:"extra,omitempty"`
}

func (c *Character) Validate() error {
	return validateWorldEntity(c.ID, id.Character, c.Title)
}

type Location struct {
	ID          id.ID             `yaml:"id"`
	Title       string            `yaml:"title"`
	Aka         string            `yaml:"aka,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	Extra       map[string]string `yaml:"extra,omitempty"`
}

func (l *Location) Validate() error {
	return validateWorldEntity(l.ID, id.Location, l.Title)
}

type Item struct {
	ID          id.ID             `yaml:"id"`
	Title       string            `yaml:"title"`
	Aka         string            `yaml:"aka,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	Extra       map[string]string `yaml:"extra,omitempty"`
}

func (i *Item) Validate() error {
	return validateWorldEntity(i.ID, id.Item, i.Title)
}

type ProjectNote struct {
	ID          id.ID             `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description,omitempty"`
	Extra       map[string]string `yaml:"extra,omitempty"`
}

func (n *ProjectNote) Validate() error {
	return validateWorldEntity(n.ID, id.ProjectNote, n.Title)
}

func validateWorldEntity(i id.ID, want id.Kind, title string) error {
	if i.Kind != want {
		return fmt.Errorf("%s id %s has the wrong kind", want, i)
	}
	if title == "" {
		return fmt.Errorf("%s title is required", want)
	}
	return nil
}
