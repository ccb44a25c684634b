package engine

import (
	"maps"
	"slices"
	"testing"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/rogersnm/plotline/internal/outline"
	"github.com/rogersnm/plotline/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(store.New(model.DefaultSettings("Test")), outline.New(), opts...)
}

func must(t *testing.T) func(id.ID, error) id.ID {
	return func(x id.ID, err error) id.ID {
		t.Helper()
		require.NoError(t, err)
		return x
	}
}

func setWords(e *Engine, x id.ID, n int) {
	e.st.Scenes[x].WordCount = n
}

type snapshot struct {
	Chapters  []id.ID
	Scenes    map[id.ID][]id.ID
	Titles    map[id.ID]string
	Kinds     map[id.ID]model.Kind
	Arcs      map[id.ID][]string
	Backlinks map[id.ID][]id.ID
	Progress  map[id.ID]store.Progress
	Side      [][]id.ID
}

func takeSnapshot(st *store.Store) snapshot {
	s := snapshot{
		Chapters:  slices.Clone(st.SrtChapters),
		Scenes:    make(map[id.ID][]id.ID),
		Titles:    make(map[id.ID]string),
		Kinds:     make(map[id.ID]model.Kind),
		Arcs:      make(map[id.ID][]string),
		Backlinks: make(map[id.ID][]id.ID),
		Progress:  maps.Clone(st.Progress),
		Side: [][]id.ID{
			slices.Clone(st.SrtCharacters), slices.Clone(st.SrtLocations),
			slices.Clone(st.SrtItems), slices.Clone(st.SrtNotes),
		},
	}
	for x, c := range st.Chapters {
		s.Scenes[x] = slices.Clone(c.SceneIDs)
		s.Titles[x] = c.Title
		s.Kinds[x] = c.Kind
	}
	for x, sc := range st.Scenes {
		s.Kinds[x] = sc.Kind
		s.Arcs[x] = slices.Clone(sc.ArcNames)
		s.Backlinks[x] = slices.Clone(sc.ArcPointBacklinks)
	}
	return s
}

// buildManuscript creates a small project with a part, chapters, an arc and
// side entities.
func buildManuscript(t *testing.T, e *Engine) {
	t.Helper()
	add := must(t)
	e.st.Settings.Numbering.Chapters.Enabled = true
	e.st.Settings.Numbering.Parts.Enabled = true

	pt := add(e.AddPart(id.Book, -1, "Beginnings"))
	ch1 := add(e.AddChapter(pt, -1, "x"))
	s1 := add(e.AddScene(ch1, -1, "Dock"))
	s2 := add(e.AddScene(ch1, -1, "Tavern"))
	ch2 := add(e.AddChapter(id.Book, -1, "y"))
	add(e.AddScene(ch2, -1, "Storm"))
	setWords(e, s1, 120)
	setWords(e, s2, 80)

	arc := add(e.AddChapter(id.Planning, -1, "Mentor arc"))
	require.NoError(t, e.SetArcDefinition(arc, "Mentor"))
	p1 := add(e.AddScene(arc, -1, "Mentor shows up"))
	require.NoError(t, e.SetArcs(s2, []string{"Mentor"}))
	require.NoError(t, e.Associate(p1, s2))

	add(e.AddChapter(id.Research, -1, "Ships"))
	add(e.AddCharacter(-1, "Anna"))
	add(e.AddLocation(-1, "Harbour"))
	add(e.AddItem(-1, "Sextant"))
	add(e.AddNote(-1, "Themes"))
	require.NoError(t, e.Delete(s1))
}

func TestRebuild_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	buildManuscript(t, e)

	e.Rebuild()
	first := takeSnapshot(e.st)
	e.Rebuild()
	assert.Equal(t, first, takeSnapshot(e.st))
}

func TestRebuild_MarksDirty(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.Dirty())
	e.Rebuild()
	assert.True(t, e.Dirty())
	e.MarkSaved()
	assert.False(t, e.Dirty())
}

func TestSynchronize_OrdersFollowTree(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	a := add(e.AddChapter(id.Book, -1, "A"))
	b := add(e.AddChapter(id.Book, -1, "B"))
	s := add(e.AddScene(a, -1, "S"))
	cr1 := add(e.AddCharacter(-1, "Anna"))
	cr2 := add(e.AddCharacter(0, "Ben"))

	assert.Equal(t, []id.ID{a, b}, e.st.SrtChapters)
	assert.Equal(t, []id.ID{cr2, cr1}, e.st.SrtCharacters)

	require.NoError(t, e.Move(s, b, -1))
	require.NoError(t, e.Move(b, id.Book, 0))
	assert.Equal(t, []id.ID{b, a}, e.st.SrtChapters)
	assert.Equal(t, []id.ID{s}, e.st.Chapters[b].SceneIDs)
	assert.Empty(t, e.st.Chapters[a].SceneIDs)
}

func TestSynchronize_SkipsNodesWithoutEntity(t *testing.T) {
	st := store.New(model.DefaultSettings("Test"))
	tree := outline.New()
	c := st.NewChapter("Real", model.LevelChapter, model.KindNormal)
	require.NoError(t, tree.Insert(id.Book, -1, c.ID))
	ghost := id.ID{Kind: id.Chapter, N: 99}
	require.NoError(t, tree.Insert(id.Book, -1, ghost))
	require.NoError(t, tree.Insert(ghost, -1, id.ID{Kind: id.Scene, N: 5}))

	skipped := Synchronize(st, tree)
	assert.Equal(t, []id.ID{ghost}, skipped)
	assert.Equal(t, []id.ID{c.ID}, st.SrtChapters)
}

func TestRebuild_PrunesStaleNodes(t *testing.T) {
	e := newTestEngine(t)
	ghost := id.ID{Kind: id.Scene, N: 42}
	c := must(t)(e.AddChapter(id.Book, -1, "A"))
	require.NoError(t, e.tree.Insert(c, -1, ghost))

	e.Rebuild()
	assert.False(t, e.tree.Contains(ghost))
	assert.Empty(t, e.st.Chapters[c].SceneIDs)
}

func TestSynchronize_KindsFollowBranch(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	res := add(e.AddChapter(id.Research, -1, "Ships"))
	rs := add(e.AddScene(res, -1, "Rigging"))
	plan := add(e.AddChapter(id.Planning, -1, "Ideas"))

	assert.Equal(t, model.KindNotes, e.st.Chapters[res].Kind)
	assert.Equal(t, model.KindNotes, e.st.Scenes[rs].Kind)
	assert.Equal(t, model.KindTodo, e.st.Chapters[plan].Kind)

	require.NoError(t, e.Move(res, id.Planning, -1))
	assert.Equal(t, model.KindTodo, e.st.Chapters[res].Kind)
	assert.Equal(t, model.KindTodo, e.st.Scenes[rs].Kind)

	require.NoError(t, e.Move(res, id.Book, -1))
	assert.Equal(t, model.KindNormal, e.st.Chapters[res].Kind)
	// Scenes keep their own kind inside a normal chapter.
	assert.Equal(t, model.KindTodo, e.st.Scenes[rs].Kind)
}

func TestSynchronize_UnusedChapterScenesInherit(t *testing.T) {
	e := newTestEngine(t)
	c := must(t)(e.AddChapter(id.Book, -1, "Cut"))
	s := must(t)(e.AddScene(c, -1, "Old"))
	require.NoError(t, e.SetKind(c, model.KindUnused))
	assert.Equal(t, model.KindUnused, e.st.Scenes[s].Kind)
}

func TestSynchronize_Progress(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	c1 := add(e.AddChapter(id.Book, -1, "A"))
	a := add(e.AddScene(c1, -1, "a"))
	b := add(e.AddScene(c1, -1, "b"))
	c2 := add(e.AddChapter(id.Book, -1, "B"))
	c := add(e.AddScene(c2, -1, "c"))

	p, ok := e.Position(b)
	require.True(t, ok)
	assert.False(t, p.Known, "empty manuscript has no position")

	setWords(e, a, 100)
	setWords(e, b, 300)
	setWords(e, c, 100)
	e.Rebuild()

	p, _ = e.Position(a)
	assert.Equal(t, store.Progress{WordsBefore: 0, Percent: 0, Known: true}, p)
	p, _ = e.Position(b)
	assert.Equal(t, store.Progress{WordsBefore: 100, Percent: 20, Known: true}, p)
	p, _ = e.Position(c2)
	assert.Equal(t, 400, p.WordsBefore)
	assert.InDelta(t, 80.0, p.Percent, 0.001)
}

func TestSynchronize_ProgressRoundsToOneDecimal(t *testing.T) {
	e := newTestEngine(t)
	add := must(t)
	c1 := add(e.AddChapter(id.Book, -1, "A"))
	a := add(e.AddScene(c1, -1, "a"))
	b := add(e.AddScene(c1, -1, "b"))
	setWords(e, a, 1)
	setWords(e, b, 2)
	e.Rebuild()

	p, _ := e.Position(b)
	assert.InDelta(t, 33.3, p.Percent, 0.0001)
}

func TestParseArcMode(t *testing.T) {
	m, err := ParseArcMode("Materialize")
	require.NoError(t, err)
	assert.Equal(t, AutoMaterialize, m)

	m, err = ParseArcMode("")
	require.NoError(t, err)
	assert.Equal(t, Strict, m)

	_, err = ParseArcMode("loose")
	assert.Error(t, err)
	assert.Equal(t, "materialize", AutoMaterialize.String())
}
