package markdown

import (
	"strings"
	"testing"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
	"github.com/stretchr/testify/assert"
)

type fakeTree map[id.ID][]id.ID

func (f fakeTree) Roots() []id.ID           { return []id.ID{id.Book, id.Notes} }
func (f fakeTree) Children(x id.ID) []id.ID { return f[x] }

func TestRenderTree(t *testing.T) {
	pt := id.ID{Kind: id.Part, N: 1}
	ch := id.ID{Kind: id.Chapter, N: 2}
	sc := id.ID{Kind: id.Scene, N: 1}
	tr := fakeTree{
		id.Book: {pt},
		pt:      {ch},
		ch:      {sc},
	}
	out := RenderTree(tr, func(x id.ID) string { return x.String() })
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{
		"nv",
		"└── pt1",
		"    └── ch2",
		"        └── sc1",
		"",
		"wrpn",
	}, lines)
}

func TestRenderSceneTable(t *testing.T) {
	assert.Equal(t, "No scenes found.", RenderSceneTable(nil))
	out := RenderSceneTable([]*model.Scene{{
		ID: id.ID{Kind: id.Scene, N: 3}, Title: "Duel", Status: model.StatusDraft,
		Kind: model.KindNormal, WordCount: 812, ArcNames: []string{"Mentor", "Revenge"},
	}})
	assert.Contains(t, out, "sc3")
	assert.Contains(t, out, "812")
	assert.Contains(t, out, "Mentor, Revenge")
}

func TestRenderChapterTable(t *testing.T) {
	assert.Equal(t, "No chapters found.", RenderChapterTable(nil))
	out := RenderChapterTable([]*model.Chapter{{
		ID: id.ID{Kind: id.Chapter, N: 2}, Title: "Arcs", Level: model.LevelPart, Kind: model.KindTodo,
	}})
	assert.Contains(t, out, "pt2")
	assert.Contains(t, out, "todo")
}

func TestRenderWorldTable(t *testing.T) {
	assert.Equal(t, "No characters found.", RenderWorldTable("characters", nil))
	out := RenderWorldTable("characters", []WorldRow{{ID: "cr1", Title: "Anna", Description: "Smuggler.\nSecond line"}})
	assert.Contains(t, out, "Smuggler.")
	assert.NotContains(t, out, "Second line")
}

func TestRenderWordLogTable(t *testing.T) {
	assert.Equal(t, "No word counts recorded.", RenderWordLogTable(nil))
	out := RenderWordLogTable([]model.WordCountEntry{
		{Date: "2026-03-01", Count: 100, TotalCount: 120},
		{Date: "2026-03-02", Count: 80, TotalCount: 150},
	})
	assert.Contains(t, out, "+100")
	assert.Contains(t, out, "-20")
}

func TestRenderStatusTable(t *testing.T) {
	out := RenderStatusTable(map[model.Status]int{model.StatusDraft: 2, model.StatusDone: 1})
	for _, s := range model.Statuses {
		assert.Contains(t, out, string(s))
	}
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "3")
}

func TestRenderEntityHeader(t *testing.T) {
	out := RenderEntityHeader("sc1 Duel", []string{RenderField("Status", "draft")})
	assert.Contains(t, out, "sc1 Duel\n")
	assert.Contains(t, out, "  Status: draft\n")
}
