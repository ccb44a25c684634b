package engine

import (
	"errors"
	"testing"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/outline"
	"github.com/rogersnm/plotline/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPart_RequiresChapterBranch(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.AddPart(id.Characters, -1, "Cast")
	assert.ErrorIs(t, err, ErrNotChapterBranch)
	assert.Empty(t, e.st.Chapters)
}

func TestAddChapter_KindFromBranch(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	book := add(e.AddChapter(id.Book, -1, "b"))
	res := add(e.AddChapter(id.Research, -1, "r"))
	plan := add(e.AddChapter(id.Planning, -1, "p"))
	assert.Equal(t, model.KindNormal, e.st.Chapters[book].Kind)
	assert.Equal(t, model.KindNotes, e.st.Chapters[res].Kind)
	assert.Equal(t, model.KindTodo, e.st.Chapters[plan].Kind)
	assert.Equal(t, []id.ID{book, res, plan}, e.st.SrtChapters)
}

func TestAddChapter_InvalidParentRollsBack(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.AddChapter(id.Locations, -1, "Nope")
	assert.ErrorIs(t, err, ErrNotChapterBranch)

	ch := must(t)(e.AddChapter(id.Book, -1, "One"))
	_, err = e.AddChapter(ch, -1, "Nested")
	assert.ErrorIs(t, err, outline.ErrInvalidParent)
	assert.Len(t, e.st.Chapters, 1)
}

func TestAddScene_UnknownChapter(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.AddScene(id.ID{Kind: id.Chapter, N: 3}, -1, "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddScene_AtIndex(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	ch := add(e.AddChapter(id.Book, -1, "One"))
	a := add(e.AddScene(ch, -1, "a"))
	b := add(e.AddScene(ch, 0, "b"))
	assert.Equal(t, []id.ID{b, a}, e.st.Chapters[ch].SceneIDs)
}

func TestPromote_AdoptsFollowingChapters(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	c1 := add(e.AddChapter(id.Book, -1, "c1"))
	add(e.AddScene(c1, -1, "s"))
	head := add(e.AddChapter(id.Book, -1, "head"))
	c2 := add(e.AddChapter(id.Book, -1, "c2"))
	c3 := add(e.AddChapter(id.Book, -1, "c3"))
	pt := add(e.AddPart(id.Book, -1, "next part"))

	part, err := e.Promote(head)
	require.NoError(t, err)
	assert.Equal(t, head.AsPart(), part)
	assert.Equal(t, []id.ID{c1, part, pt}, e.tree.Children(id.Book))
	assert.Equal(t, []id.ID{c2, c3}, e.tree.Children(part))
	assert.Equal(t, model.LevelPart, e.st.Chapters[head].Level)
}

func TestPromote_ChapterInsidePart(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	pt := add(e.AddPart(id.Book, -1, "p"))
	a := add(e.AddChapter(pt, -1, "a"))
	b := add(e.AddChapter(pt, -1, "b"))
	c := add(e.AddChapter(pt, -1, "c"))

	part, err := e.Promote(b)
	require.NoError(t, err)
	assert.Equal(t, []id.ID{pt, part}, e.tree.Children(id.Book))
	assert.Equal(t, []id.ID{a}, e.tree.Children(pt))
	assert.Equal(t, []id.ID{c}, e.tree.Children(part))
}

func TestPromote_Errors(t *testing.T) {
	e := newTestEngine(t)
	ch := must(t)(e.AddChapter(id.Book, -1, "c"))
	sc := must(t)(e.AddScene(ch, -1, "s"))

	_, err := e.Promote(ch)
	assert.ErrorIs(t, err, ErrHasScenes)
	_, err = e.Promote(sc)
	assert.Error(t, err)

	require.NoError(t, e.Delete(sc))
	_, err = e.Promote(trashID(t, e))
	assert.ErrorIs(t, err, ErrTrash)
}

func TestDemote_LiftsChapters(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	pt := add(e.AddPart(id.Book, -1, "p"))
	a := add(e.AddChapter(pt, -1, "a"))
	b := add(e.AddChapter(pt, -1, "b"))
	after := add(e.AddChapter(id.Book, -1, "after"))

	ch, err := e.Demote(pt)
	require.NoError(t, err)
	assert.Equal(t, pt.Chapter(), ch)
	assert.Equal(t, []id.ID{ch, a, b, after}, e.tree.Children(id.Book))
	assert.Equal(t, model.LevelChapter, e.st.Chapters[ch].Level)

	_, err = e.Demote(ch)
	assert.Error(t, err)
}

func TestPromoteDemote_RoundTrip(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	head := add(e.AddChapter(id.Book, -1, "head"))
	c1 := add(e.AddChapter(id.Book, -1, "c1"))
	c2 := add(e.AddChapter(id.Book, -1, "c2"))

	part, err := e.Promote(head)
	require.NoError(t, err)
	back, err := e.Demote(part)
	require.NoError(t, err)
	assert.Equal(t, []id.ID{head, c1, c2}, e.tree.Children(id.Book))
	assert.Equal(t, head, back)
}

func TestSetKind(t *testing.T) {
	e := newTestEngine(t)
	ch := must(t)(e.AddChapter(id.Book, -1, "c"))
	res := must(t)(e.AddChapter(id.Research, -1, "r"))

	require.NoError(t, e.SetKind(ch, model.KindUnused))
	assert.Equal(t, model.KindUnused, e.st.Chapters[ch].Kind)
	assert.Error(t, e.SetKind(ch, model.KindTodo))
	assert.Error(t, e.SetKind(res, model.KindNormal))
	assert.Error(t, e.SetKind(ch, "draft"))
}

func TestSetRelations_PartialApply(t *testing.T) {
	e := newTestEngine(t)
	ch := must(t)(e.AddChapter(id.Book, -1, "c"))
	sc := must(t)(e.AddScene(ch, -1, "s"))
	harbour := must(t)(e.AddLocation(-1, "Harbour"))
	e.MarkSaved()

	err := e.SetRelations(sc, id.Location, []string{"harbour", "Atlantis"})
	var unknown *store.UnknownTitleError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, id.Location, unknown.Kind)
	assert.Equal(t, []id.ID{harbour}, e.st.Scenes[sc].Locations)
	assert.True(t, e.Dirty())
}
