package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	outlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	draftStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	editStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	partStyle    = lipgloss.NewStyle().Bold(true)
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func StatusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusDone:
		return doneStyle
	case model.StatusFirstEdit, model.StatusSecondEdit:
		return editStyle
	case model.StatusDraft:
		return draftStyle
	default:
		return outlineStyle
	}
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func RenderStatus(s model.Status) string {
	return StatusStyle(s).Render(string(s))
}

// RenderWarning styles short inline annotations like "(no arc point)".
func RenderWarning(s string) string {
	return warnStyle.Render(s)
}

func RenderEntityHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}

// RenderTitle styles a heading line.
func RenderTitle(s string) string {
	return headerStyle.Render(s)
}

// TreeSource supplies the outline to RenderTree.
type TreeSource interface {
	Roots() []id.ID
	Children(x id.ID) []id.ID
}

// RenderTree draws the outline below each root with box-drawing connectors.
// label returns the text for a node; roots are labelled the same way.
func RenderTree(src TreeSource, label func(x id.ID) string) string {
	var sb strings.Builder
	for i, r := range src.Roots() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(headerStyle.Render(label(r)) + "\n")
		writeChildren(&sb, src, r, "", label)
	}
	return sb.String()
}

func writeChildren(sb *strings.Builder, src TreeSource, x id.ID, prefix string, label func(id.ID) string) {
	kids := src.Children(x)
	for i, k := range kids {
		last := i == len(kids)-1
		conn, next := "├── ", "│   "
		if last {
			conn, next = "└── ", "    "
		}
		text := label(k)
		if k.Kind == id.Part {
			text = partStyle.Render(text)
		}
		sb.WriteString(prefix + conn + text + "\n")
		writeChildren(sb, src, k, prefix+next, label)
	}
}
