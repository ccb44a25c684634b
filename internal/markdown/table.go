package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rogersnm/plotline/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

func RenderChapterTable(chapters []*model.Chapter) string {
	if len(chapters) == 0 {
		return "No chapters found."
	}
	rows := make([][]string, len(chapters))
	for i, c := range chapters {
		rows[i] = []string{c.NodeID().String(), c.Title, string(c.Kind), strconv.Itoa(len(c.SceneIDs)), c.ArcDefinition}
	}
	return renderTable([]string{"ID", "Title", "Kind", "Scenes", "Arc"}, rows)
}

func RenderSceneTable(scenes []*model.Scene) string {
	if len(scenes) == 0 {
		return "No scenes found."
	}
	rows := make([][]string, len(scenes))
	for i, s := range scenes {
		rows[i] = []string{
			s.ID.String(), s.Title, RenderStatus(s.Status), string(s.Kind),
			strconv.Itoa(s.WordCount), strings.Join(s.ArcNames, ", "),
		}
	}
	return renderTable([]string{"ID", "Title", "Status", "Kind", "Words", "Arcs"}, rows)
}

// WorldRow is one line of a character, location, item or note listing.
type WorldRow struct {
	ID, Title, Description string
}

func RenderWorldTable(noun string, entries []WorldRow) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No %s found.", noun)
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.ID, e.Title, firstLine(e.Description)}
	}
	return renderTable([]string{"ID", "Title", "Description"}, rows)
}

func RenderWordLogTable(log []model.WordCountEntry) string {
	if len(log) == 0 {
		return "No word counts recorded."
	}
	rows := make([][]string, len(log))
	prev := 0
	for i, w := range log {
		delta := w.Count - prev
		prev = w.Count
		rows[i] = []string{w.Date, strconv.Itoa(w.Count), strconv.Itoa(w.TotalCount), fmt.Sprintf("%+d", delta)}
	}
	return renderTable([]string{"Date", "Words", "Total", "Change"}, rows)
}

func RenderStatusTable(counts map[model.Status]int) string {
	rows := make([][]string, 0, len(model.Statuses))
	sum := 0
	for _, s := range model.Statuses {
		sum += counts[s]
		rows = append(rows, []string{RenderStatus(s), strconv.Itoa(counts[s])})
	}
	rows = append(rows, []string{"total", strconv.Itoa(sum)})
	return renderTable([]string{"Status", "Scenes"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
