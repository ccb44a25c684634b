package engine

import (
	"testing"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRoman(t *testing.T) {
	cases := map[int]string{
		1: "I", 4: "IV", 9: "IX", 14: "XIV", 40: "XL", 90: "XC",
		400: "CD", 1994: "MCMXCIV", 2026: "MMXXVI", 3999: "MMMCMXCIX",
	}
	for n, want := range cases {
		got, err := ToRoman(n)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%d", n)
	}
}

func TestToRoman_OutOfRange(t *testing.T) {
	for _, n := range []int{0, -3, 4000} {
		_, err := ToRoman(n)
		assert.ErrorIs(t, err, ErrRomanRange)
	}
}

func TestNumberedTitle_RomanFallsBackToArabic(t *testing.T) {
	e := newTestEngine(t)
	p := model.LevelPolicy{Enabled: true, Roman: true, Prefix: "Part ", Suffix: "."}
	assert.Equal(t, "Part XII.", e.numberedTitle(p, 12))
	assert.Equal(t, "Part 4000.", e.numberedTitle(p, 4000))
}

type numberedBook struct {
	e                  *Engine
	p1, p2             id.ID
	c1, c2, c3, interl id.ID
}

func newNumberedBook(t *testing.T) numberedBook {
	t.Helper()
	add := must(t)
	e := newTestEngine(t)
	n := &e.st.Settings.Numbering
	n.Chapters = model.LevelPolicy{Enabled: true, Prefix: "Chapter "}
	n.Parts = model.LevelPolicy{Enabled: true, Roman: true, Prefix: "Part "}

	b := numberedBook{e: e}
	b.p1 = add(e.AddPart(id.Book, -1, "?"))
	b.c1 = add(e.AddChapter(b.p1, -1, "?"))
	b.interl = add(e.AddChapter(b.p1, -1, "Interlude"))
	e.st.Chapters[b.interl].NoAutoNumber = true
	e.st.Chapters[b.interl].Title = "Interlude"
	b.c2 = add(e.AddChapter(b.p1, -1, "?"))
	b.p2 = add(e.AddPart(id.Book, -1, "?"))
	b.c3 = add(e.AddChapter(b.p2, -1, "?"))
	e.Renumber()
	return b
}

func (b numberedBook) title(x id.ID) string {
	return b.e.st.Title(x)
}

func TestRenumber_Titles(t *testing.T) {
	b := newNumberedBook(t)
	assert.Equal(t, "Part I", b.title(b.p1))
	assert.Equal(t, "Chapter 1", b.title(b.c1))
	assert.Equal(t, "Interlude", b.title(b.interl))
	assert.Equal(t, "Chapter 2", b.title(b.c2))
	assert.Equal(t, "Part II", b.title(b.p2))
	assert.Equal(t, "Chapter 3", b.title(b.c3))
}

func TestRenumber_Idempotent(t *testing.T) {
	b := newNumberedBook(t)
	assert.False(t, b.e.Renumber())
}

func TestRenumber_ResetWithinPartsRoundTrip(t *testing.T) {
	b := newNumberedBook(t)
	n := &b.e.st.Settings.Numbering

	n.ResetWithinParts = true
	assert.True(t, b.e.Renumber())
	assert.Equal(t, "Chapter 1", b.title(b.c3))

	n.ResetWithinParts = false
	assert.True(t, b.e.Renumber())
	assert.Equal(t, "Chapter 3", b.title(b.c3))
	assert.Equal(t, "Chapter 2", b.title(b.c2))
}

func TestRenumber_ResetWithPartNumberingDisabled(t *testing.T) {
	b := newNumberedBook(t)
	n := &b.e.st.Settings.Numbering
	n.Parts.Enabled = false
	n.ResetWithinParts = true

	b.e.Renumber()
	assert.Equal(t, "Part II", b.title(b.p2), "disabled level keeps its titles")
	assert.Equal(t, "Chapter 1", b.title(b.c3))
}

func TestRenumber_SkipsNonNormalChapters(t *testing.T) {
	b := newNumberedBook(t)
	require.NoError(t, b.e.SetKind(b.c1, model.KindUnused))
	b.e.st.Chapters[b.c1].Title = "Cut material"

	b.e.Renumber()
	assert.Equal(t, "Cut material", b.title(b.c1))
	assert.Equal(t, "Chapter 1", b.title(b.c2))
}

func TestRenumber_FollowsMoves(t *testing.T) {
	b := newNumberedBook(t)
	require.NoError(t, b.e.Move(b.c3, b.p1, 0))
	assert.Equal(t, "Chapter 1", b.title(b.c3))
	assert.Equal(t, "Chapter 2", b.title(b.c1))
	assert.Equal(t, "Chapter 3", b.title(b.c2))
}

func TestRenumber_EmptyDocument(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.Renumber())
}
