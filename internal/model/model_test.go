package model

import (
	"testing"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/stretchr/testify/assert"
)

func TestChapter_Validate_Valid(t *testing.T) {
	c := &Chapter{ID: id.ID{Kind: id.Chapter, N: 1}, Title: "One", Level: LevelChapter, Kind: KindNormal}
	assert.NoError(t, c.Validate())
}

func TestChapter_Validate_PartWithScenes(t *testing.T) {
	c := &Chapter{
		ID: id.ID{Kind: id.Chapter, N: 1}, Level: LevelPart, Kind: KindNormal,
		SceneIDs: []id.ID{{Kind: id.Scene, N: 1}},
	}
	assert.Error(t, c.Validate())
}

func TestChapter_Validate_TrashMustBeUnused(t *testing.T) {
	c := &Chapter{ID: id.ID{Kind: id.Chapter, N: 1}, Level: LevelChapter, Kind: KindNormal, IsTrash: true}
	assert.Error(t, c.Validate())
}

func TestChapter_Validate_InvalidKind(t *testing.T) {
	c := &Chapter{ID: id.ID{Kind: id.Chapter, N: 1}, Level: LevelChapter, Kind: "draft"}
	assert.Error(t, c.Validate())
}

func TestChapter_IsArcDefining(t *testing.T) {
	c := &Chapter{Level: LevelChapter, Kind: KindTodo, ArcDefinition: "Mentor"}
	assert.True(t, c.IsArcDefining())

	c.Level = LevelPart
	assert.False(t, c.IsArcDefining())

	c.Level = LevelChapter
	c.Kind = KindNormal
	assert.False(t, c.IsArcDefining())
}

func TestChapter_NodeID(t *testing.T) {
	c := &Chapter{ID: id.ID{Kind: id.Chapter, N: 4}, Level: LevelPart}
	assert.Equal(t, "pt4", c.NodeID().String())
	c.Level = LevelChapter
	assert.Equal(t, "ch4", c.NodeID().String())
}

func TestScene_Validate_ValidStatuses(t *testing.T) {
	for _, s := range Statuses {
		sc := &Scene{ID: id.ID{Kind: id.Scene, N: 1}, Kind: KindNormal, Status: s}
		assert.NoError(t, sc.Validate())
	}
}

func TestScene_Validate_DuplicateArc(t *testing.T) {
	sc := &Scene{ID: id.ID{Kind: id.Scene, N: 1}, Kind: KindNormal, Status: StatusDraft, ArcNames: []string{"A", "A"}}
	assert.Error(t, sc.Validate())
}

func TestScene_ArcSet(t *testing.T) {
	sc := &Scene{}
	assert.True(t, sc.AddArc("Mentor"))
	assert.False(t, sc.AddArc("Mentor"))
	assert.False(t, sc.AddArc("  "))
	assert.True(t, sc.AddArc("Villain"))
	assert.Equal(t, []string{"Mentor", "Villain"}, sc.ArcNames)

	assert.True(t, sc.RemoveArc("Mentor"))
	assert.False(t, sc.RemoveArc("Mentor"))
	assert.Equal(t, []string{"Villain"}, sc.ArcNames)
}

func TestScene_AssociatedScene(t *testing.T) {
	sc := &Scene{}
	_, ok := sc.AssociatedScene()
	assert.False(t, ok)

	target := id.ID{Kind: id.Scene, N: 9}
	sc.Associations = []id.ID{target, {Kind: id.Scene, N: 10}}
	got, ok := sc.AssociatedScene()
	assert.True(t, ok)
	assert.Equal(t, target, got)
}

func TestScene_RemoveReference(t *testing.T) {
	cr := id.ID{Kind: id.Character, N: 1}
	lc := id.ID{Kind: id.Location, N: 1}
	sc := &Scene{Characters: []id.ID{cr}, Locations: []id.ID{lc}}
	assert.True(t, sc.RemoveReference(cr))
	assert.False(t, sc.RemoveReference(cr))
	assert.Empty(t, sc.Characters)
	assert.Equal(t, []id.ID{lc}, sc.Locations)
}

func TestCharacter_Validate_MissingTitle(t *testing.T) {
	c := &Character{ID: id.ID{Kind: id.Character, N: 1}}
	assert.Error(t, c.Validate())
}

func TestItem_Validate_WrongKind(t *testing.T) {
	i := &Item{ID: id.ID{Kind: id.Location, N: 1}, Title: "Sword"}
	assert.Error(t, i.Validate())
}

func TestWordCountEntry_Validate(t *testing.T) {
	assert.NoError(t, WordCountEntry{Date: "2026-01-02", Count: 1, TotalCount: 2}.Validate())
	assert.Error(t, WordCountEntry{Date: "02/01/2026"}.Validate())
	assert.Error(t, WordCountEntry{Date: "2026-01-02", Count: -1}.Validate())
}

func TestNumberingPolicy_For(t *testing.T) {
	p := DefaultSettings("Book").Numbering
	assert.Equal(t, "Part ", p.For(LevelPart).Prefix)
	assert.Equal(t, "Chapter ", p.For(LevelChapter).Prefix)
}

func TestScene_CountWords(t *testing.T) {
	sc := &Scene{Content: "It was a dark\nand  stormy night."}
	assert.Equal(t, 7, sc.CountWords())
	assert.Equal(t, 7, sc.WordCount)
}
