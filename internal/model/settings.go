package model

import (
	"fmt"
	"time"
)

// LevelPolicy controls automatic titles for one chapter level.
type LevelPolicy struct {
	Enabled bool   `yaml:"enabled"`
	Roman   bool   `yaml:"roman,omitempty"`
	Prefix  string `yaml:"prefix,omitempty"`
	Suffix  string `yaml:"suffix,omitempty"`
}

type NumberingPolicy struct {
	Chapters         LevelPolicy `yaml:"chapters"`
	Parts            LevelPolicy `yaml:"parts"`
	ResetWithinParts bool        `yaml:"reset_within_parts,omitempty"`
}

// For returns the policy that applies to chapters of the given level.
func (p NumberingPolicy) For(l Level) LevelPolicy {
	if l == LevelPart {
		return p.Parts
	}
	return p.Chapters
}

type Settings struct {
	Title         string          `yaml:"title"`
	Author        string          `yaml:"author,omitempty"`
	Numbering     NumberingPolicy `yaml:"numbering"`
	SaveWordCount bool            `yaml:"save_word_count,omitempty"`
}

// DefaultSettings returns the settings of a freshly created project.
func DefaultSettings(title string) Settings {
	return Settings{
		Title: title,
		Numbering: NumberingPolicy{
			Chapters: LevelPolicy{Prefix: "Chapter "},
			Parts:    LevelPolicy{Prefix: "Part ", Roman: true},
		},
		SaveWordCount: true,
	}
}

// DateLayout is the day resolution the word-count log is keyed by.
const DateLayout = "2006-01-02"

type WordCountEntry struct {
	Date       string `yaml:"date"`
	Count      int    `yaml:"count"`
	TotalCount int    `yaml:"total_count"`
}

func (e WordCountEntry) Validate() error {
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("invalid log date %q: %w", e.Date, err)
	}
	if e.Count < 0 || e.TotalCount < 0 {
		return fmt.Errorf("log entry %s has negative counts", e.Date)
	}
	return nil
}

// SameCounts reports whether two entries record identical totals.
func (e WordCountEntry) SameCounts(o WordCountEntry) bool {
	return e.Count == o.Count && e.TotalCount == o.TotalCount
}
