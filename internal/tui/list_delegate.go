package tui

import (
	"fmt"
	"io"
	"strings"

	"catalog-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type courseItem struct {
	course model.Course
	busy   bool
}

func (it courseItem) FilterValue() string { return it.course.Title }
func (it courseItem) Title() string       { return it.course.Title }

func (it courseItem) meta() string {
	var parts []string
	if c := strings.TrimSpace(it.course.Category); c != "" {
		parts = append(parts, c)
	}
	if it.course.CreatedAt != nil {
		parts = append(parts, it.course.CreatedAt.Format("2006-01-02"))
	}
	if it.busy {
		parts = append(parts, "saving…")
	}
	return strings.Join(parts, " · ")
}

type courseDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCourseDelegate() courseDelegate {
	return courseDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d courseDelegate) Height() int  { return 1 }
func (d courseDelegate) Spacing() int { return 0 }
func (d courseDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d courseDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(courseItem)
	if !ok {
		fmt.Fprint(w, xansi.Truncate(fmt.Sprint(item), contentW, "…"))
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	line := " " + it.Title()
	if meta := it.meta(); meta != "" {
		line += "  " + styleMuted().Render(meta)
	}
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Truncate(line, contentW, "…")
	}

	fmt.Fprint(w, style.Render(line))
}
