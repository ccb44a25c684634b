package engine

import (
	"testing"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/outline"
	"github.com/rogersnm/plotline/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trashID(t *testing.T, e *Engine) id.ID {
	t.Helper()
	c, ok := e.st.Trash()
	require.True(t, ok, "trash exists")
	return c.ID
}

func TestDelete_SceneMovesToTrash(t *testing.T) {
	e := newTestEngine(t)
	ch := must(t)(e.AddChapter(id.Book, -1, "One"))
	sc := must(t)(e.AddScene(ch, -1, "Dock"))
	_, ok := e.st.Trash()
	assert.False(t, ok, "trash is created lazily")

	require.NoError(t, e.Delete(sc))
	bin := trashID(t, e)
	trash := e.st.Chapters[bin]
	assert.True(t, trash.IsTrash)
	assert.Equal(t, model.KindUnused, trash.Kind)
	assert.Equal(t, []id.ID{sc}, trash.SceneIDs)
	assert.Equal(t, model.KindUnused, e.st.Scenes[sc].Kind)
	assert.Empty(t, e.st.Chapters[ch].SceneIDs)
}

func TestDelete_SceneInTrashIsFinal(t *testing.T) {
	e := newTestEngine(t)
	ch := must(t)(e.AddChapter(id.Book, -1, "One"))
	sc := must(t)(e.AddScene(ch, -1, "Dock"))
	require.NoError(t, e.Delete(sc))
	require.NoError(t, e.Delete(sc))

	assert.False(t, e.tree.Contains(sc))
	_, ok := e.st.Scenes[sc]
	assert.False(t, ok)
}

func TestDelete_ChapterTrashesScenes(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	ch := add(e.AddChapter(id.Book, -1, "One"))
	a := add(e.AddScene(ch, -1, "a"))
	b := add(e.AddScene(ch, -1, "b"))

	require.NoError(t, e.Delete(ch))
	assert.False(t, e.tree.Contains(ch))
	_, ok := e.st.Chapters[ch]
	assert.False(t, ok)
	assert.Equal(t, []id.ID{a, b}, e.st.Chapters[trashID(t, e)].SceneIDs)
}

func TestDelete_PartTrashesAllDescendantScenes(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	pt := add(e.AddPart(id.Book, -1, "Part"))
	c1 := add(e.AddChapter(pt, -1, "c1"))
	c2 := add(e.AddChapter(pt, -1, "c2"))
	a := add(e.AddScene(c1, -1, "a"))
	b := add(e.AddScene(c2, -1, "b"))

	require.NoError(t, e.Delete(pt))
	for _, x := range []id.ID{pt, c1, c2} {
		assert.False(t, e.st.Has(x), x.String())
	}
	bin := trashID(t, e)
	assert.Equal(t, []id.ID{a, b}, e.st.Chapters[bin].SceneIDs)
	assert.Equal(t, []id.ID{bin}, e.tree.Children(id.Book))
}

func TestDelete_TrashIsHardDelete(t *testing.T) {
	e := newTestEngine(t)
	ch := must(t)(e.AddChapter(id.Book, -1, "One"))
	sc := must(t)(e.AddScene(ch, -1, "Dock"))
	require.NoError(t, e.Delete(sc))

	require.NoError(t, e.EmptyTrash())
	_, ok := e.st.Trash()
	assert.False(t, ok)
	assert.False(t, e.st.Has(sc))
	assert.Equal(t, []id.ID{ch}, e.st.SrtChapters)

	assert.ErrorIs(t, e.EmptyTrash(), store.ErrNotFound)
}

func TestTrash_StaysLastInBook(t *testing.T) {
	e := newTestEngine(t)
	ch := must(t)(e.AddChapter(id.Book, -1, "One"))
	sc := must(t)(e.AddScene(ch, -1, "Dock"))
	require.NoError(t, e.Delete(sc))
	bin := trashID(t, e)

	later := must(t)(e.AddChapter(id.Book, -1, "Two"))
	assert.Equal(t, []id.ID{ch, later, bin}, e.tree.Children(id.Book))

	require.NoError(t, e.Move(bin, id.Research, 0))
	assert.Equal(t, []id.ID{ch, later, bin}, e.tree.Children(id.Book))
	assert.Equal(t, model.KindUnused, e.st.Chapters[bin].Kind)
}

func TestDelete_WorldEntityStripsReferences(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	ch := add(e.AddChapter(id.Book, -1, "One"))
	sc := add(e.AddScene(ch, -1, "Dock"))
	anna := add(e.AddCharacter(-1, "Anna"))
	ben := add(e.AddCharacter(-1, "Ben"))
	require.NoError(t, e.SetRelations(sc, id.Character, []string{"Anna", "Ben"}))

	require.NoError(t, e.Delete(anna))
	assert.Equal(t, []id.ID{ben}, e.st.Scenes[sc].Characters)
	assert.Equal(t, []id.ID{ben}, e.st.SrtCharacters)
	assert.False(t, e.tree.Contains(anna))
	_, ok := e.st.Trash()
	assert.False(t, ok, "side entities bypass the trash")
}

func TestDelete_Errors(t *testing.T) {
	e := newTestEngine(t)
	assert.ErrorIs(t, e.Delete(id.Book), outline.ErrRootNode)
	assert.ErrorIs(t, e.Delete(id.ID{Kind: id.Scene, N: 7}), outline.ErrNodeNotFound)
	assert.ErrorIs(t, e.Delete(id.ID{Kind: id.Item, N: 7}), store.ErrNotFound)
}
