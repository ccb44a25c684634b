package model

import "fmt"

// Kind classifies chapters and scenes.
type Kind string

const (
	KindNormal Kind = "normal"
	KindNotes  Kind = "notes"
	KindTodo   Kind = "todo"
	KindUnused Kind = "unused"
)

var validKinds = []Kind{KindNormal, KindNotes, KindTodo, KindUnused}

func ValidateKind(k Kind) error {
	for _, v := range validKinds {
		if k == v {
			return nil
		}
	}
	return fmt.Errorf("invalid kind %q: must be one of normal, notes, todo, unused", k)
}

// Level tells chapters from parts.
type Level string

const (
	LevelChapter Level = "chapter"
	LevelPart    Level = "part"
)

func ValidateLevel(l Level) error {
	if l == LevelChapter || l == LevelPart {
		return nil
	}
	return fmt.Errorf("invalid level %q: must be chapter or part", l)
}

// Status is a scene's editing stage.
type Status string

const (
	StatusOutline    Status = "outline"
	StatusDraft      Status = "draft"
	StatusFirstEdit  Status = "1st_edit"
	StatusSecondEdit Status = "2nd_edit"
	StatusDone       Status = "done"
)

// Statuses lists scene statuses in editing order.
var Statuses = []Status{StatusOutline, StatusDraft, StatusFirstEdit, StatusSecondEdit, StatusDone}

func ValidateStatus(s Status) error {
	for _, v := range Statuses {
		if s == v {
			return nil
		}
	}
	return fmt.Errorf("invalid status %q: must be one of outline, draft, 1st_edit, 2nd_edit, done", s)
}
