package tui

import (
	"strings"

	"catalog-cli/internal/controller"
	"catalog-cli/internal/format"
	"catalog-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading…"
	}

	switch {
	case m.confirmOpen():
		return m.placeCentered(m.viewConfirmDelete())
	case m.modal == modalEditTitle:
		return m.placeCentered(m.viewEditModal())
	case m.modal == modalProgress && m.inDetail():
		return m.placeCentered(m.viewProgressModal())
	case m.inDetail():
		return m.viewDetail()
	}
	return m.viewList()
}

func (m appModel) placeCentered(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m appModel) viewList() string {
	sort := m.state.Query.Sort
	if sort == "" {
		sort = model.DefaultSort
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Course Catalog") +
		styleChrome().Render("  sort: "+sort)

	body := m.list.View()
	if len(m.state.Items) == 0 {
		body = ""
	}

	status := renderStatus(m.state.Status)
	if status == "" {
		status = renderRejection(m.state.LastMutation)
	}
	footer := styleChrome().Render(format.PageLabel(m.state.Pagination))
	if status != "" {
		footer = status + styleMuted().Render("  ·  ") + footer
	}

	help := styleMuted().Render("/: filter  enter: open  e: edit  d: delete  s: sort  [/]: page  r: reload  ctrl+r: reset  q: quit")
	return strings.Join([]string{header, m.viewFilters(), "", body, footer, help}, "\n")
}

func (m appModel) viewFilters() string {
	labels := []string{"Search", "Category", "Teacher"}
	var cells []string
	for i, in := range m.inputs {
		label := styleChrome().Render(labels[i] + " ")
		if i == m.focus {
			label = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(labels[i] + " ")
		}
		field := lipgloss.NewStyle().Background(colorInputBg).Render(" " + in.View() + " ")
		cells = append(cells, label+field)
	}
	return strings.Join(cells, "  ")
}

func renderStatus(s controller.Status) string {
	if strings.TrimSpace(s.Text) == "" {
		return ""
	}
	switch s.Kind {
	case controller.StatusError:
		return lipgloss.NewStyle().Foreground(colorError).Render(s.Text)
	case controller.StatusInfo:
		return lipgloss.NewStyle().Foreground(colorOK).Render(s.Text)
	default:
		return styleMuted().Render(s.Text)
	}
}

// renderRejection surfaces a locally refused mutation (busy, unchanged title...).
func renderRejection(r *controller.MutationResult) string {
	if r == nil || r.Outcome != controller.OutcomeRejected || r.Err == nil {
		return ""
	}
	return styleMuted().Render(r.Err.Error())
}

func (m appModel) viewConfirmDelete() string {
	id := m.state.ConfirmDelete
	title := id
	for _, c := range m.state.Items {
		if c.ID == id {
			title = c.Title
			break
		}
	}
	return confirmDialog{
		title: "Delete course",
		body:  "Delete \"" + title + "\"? This cannot be undone.",
		yes:   "Delete",
		no:    "Cancel",
	}.view(m.width, m.confirmFocus)
}

func (m appModel) viewEditModal() string {
	bodyW := modalBodyWidth(m.width)
	content := strings.Join([]string{
		fieldLine(bodyW, m.editInput.View()),
		"",
		styleMuted().Render("enter: save   esc: cancel"),
	}, "\n")
	return renderModalBox(m.width, "Rename course", content)
}
