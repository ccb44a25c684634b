package markdown

import (
	"strings"
	"testing"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMeta struct {
	ID       id.ID    `yaml:"id"`
	Title    string   `yaml:"title"`
	Status   string   `yaml:"status,omitempty"`
	ArcNames []string `yaml:"arc_names,omitempty"`
}

func TestParse_AllFields(t *testing.T) {
	input := `---
id: sc12
title: "The Duel"
status: draft
arc_names:
  - Mentor
  - Revenge
---

Steel rang in the courtyard.
`
	meta, body, err := Parse[testMeta](strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, id.ID{Kind: id.Scene, N: 12}, meta.ID)
	assert.Equal(t, "The Duel", meta.Title)
	assert.Equal(t, "draft", meta.Status)
	assert.Equal(t, []string{"Mentor", "Revenge"}, meta.ArcNames)
	assert.Equal(t, "Steel rang in the courtyard.", body)
}

func TestParse_EmptyBody(t *testing.T) {
	input := `---
id: pn3
title: "Empty Note"
---
`
	meta, body, err := Parse[testMeta](strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, id.ID{Kind: id.ProjectNote, N: 3}, meta.ID)
	assert.Equal(t, "", body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := "Just some plain prose."
	meta, body, err := Parse[testMeta](strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, meta.ID.IsZero())
	assert.Equal(t, "Just some plain prose.", body)
}

func TestParse_MalformedYAML(t *testing.T) {
	input := "---\n{{invalid yaml\n---\n"
	_, _, err := Parse[testMeta](strings.NewReader(input))
	assert.Error(t, err)
}

func TestParse_BadID(t *testing.T) {
	input := "---\nid: nope\ntitle: x\n---\n"
	_, _, err := Parse[testMeta](strings.NewReader(input))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	original := testMeta{
		ID:       id.ID{Kind: id.Scene, N: 4},
		Title:    "Round Trip",
		Status:   "done",
		ArcNames: []string{"Mentor"},
	}
	body := "Some prose."

	data, err := Marshal(original, body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: sc4\n")

	parsed, parsedBody, err := Parse[testMeta](strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
	assert.Equal(t, body, parsedBody)
}

func TestMarshal_EmptyBody(t *testing.T) {
	meta := testMeta{ID: id.ID{Kind: id.Item, N: 1}, Title: "No Body"}
	data, err := Marshal(meta, "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "---\n"))

	parsed, body, err := Parse[testMeta](strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, meta.ID, parsed.ID)
	assert.Equal(t, "", body)
}

func TestMarshal_PreservesBody(t *testing.T) {
	body := "Line 1\n\n> a quotation\n\n**Bold** and *italic*"
	meta := testMeta{ID: id.ID{Kind: id.Scene, N: 1}, Title: "Prose"}
	data, err := Marshal(meta, body)
	require.NoError(t, err)

	_, parsedBody, err := Parse[testMeta](strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, body, parsedBody)
}

func TestMarshal_KeepsLeadingIndent(t *testing.T) {
	body := "    The letter began mid-sentence.\n\n  and ended the same way."
	meta := testMeta{ID: id.ID{Kind: id.Scene, N: 2}, Title: "Letter"}
	data, err := Marshal(meta, body)
	require.NoError(t, err)

	_, parsedBody, err := Parse[testMeta](strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, body, parsedBody)
}

func TestParse_DropsBlankLinesAroundBody(t *testing.T) {
	input := "---\nid: sc1\ntitle: x\n---\n\n   \n\tIndented.\n\n\n"
	_, body, err := Parse[testMeta](strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "\tIndented.", body)
}
