package tui

import (
	"fmt"
	"strconv"
	"strings"

	"catalog-cli/internal/controller"
	"catalog-cli/internal/format"
	"catalog-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func detailItems(d *controller.DetailState) []model.Item {
	if d == nil || d.Course == nil {
		return nil
	}
	var out []model.Item
	for _, mod := range d.Course.Modules {
		out = append(out, mod.Items...)
	}
	return out
}

func (m appModel) selectedDetailItem() (model.Item, bool) {
	items := detailItems(m.state.Detail)
	if m.detailIndex < 0 || m.detailIndex >= len(items) {
		return model.Item{}, false
	}
	return items[m.detailIndex], true
}

func (m *appModel) refreshDetail() {
	d := m.state.Detail
	if d == nil || d.Course == nil {
		m.detailRendered = ""
		m.detail.SetContent("")
		return
	}
	width := m.detail.Width
	if width <= 0 {
		width = 80
	}
	out := format.RenderMarkdown(format.CourseMarkdown(*d.Course, d.Progress), width)
	if out != m.detailRendered {
		m.detailRendered = out
		m.detail.SetContent(out)
	}
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.state.Detail
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.ctrl.CloseCourse()
		return m, nil
	case "r":
		m.ctrl.OpenCourse(d.CourseID)
		return m, nil
	case "up", "k":
		if m.detailIndex > 0 {
			m.detailIndex--
		}
		return m, nil
	case "down", "j":
		if m.detailIndex < len(detailItems(d))-1 {
			m.detailIndex++
		}
		return m, nil
	case "p", "enter":
		it, ok := m.selectedDetailItem()
		if !ok || d.IsBusy(it.ID) {
			return m, nil
		}
		m.modal = modalProgress
		m.progressErr = ""
		m.progressStatus = 0
		m.scoreInput.SetValue("")
		if p, ok := d.Progress[it.ID]; ok {
			for i, s := range model.ProgressStatuses {
				if s == p.Status {
					m.progressStatus = i
				}
			}
			m.scoreInput.SetValue(strconv.FormatFloat(p.Score, 'f', -1, 64))
		}
		cmd := m.scoreInput.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m appModel) updateProgressModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(model.ProgressStatuses)
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "tab", "right":
		m.progressStatus = (m.progressStatus + 1) % n
		return m, nil
	case "shift+tab", "left":
		m.progressStatus = (m.progressStatus + n - 1) % n
		return m, nil
	case "enter":
		it, ok := m.selectedDetailItem()
		if !ok {
			m.closeModal()
			return m, nil
		}
		score := 0.0
		if raw := strings.TrimSpace(m.scoreInput.Value()); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				m.progressErr = "score must be a number"
				return m, nil
			}
			score = v
		}
		status := string(model.ProgressStatuses[m.progressStatus])
		courseID := m.state.Detail.CourseID
		m.closeModal()
		m.ctrl.UpdateProgress(courseID, it.ID, status, score)
		return m, nil
	}
	var cmd tea.Cmd
	m.scoreInput, cmd = m.scoreInput.Update(msg)
	return m, cmd
}

func (m appModel) viewDetail() string {
	d := m.state.Detail
	title := d.CourseID
	if d.Course != nil && d.Course.Title != "" {
		title = d.Course.Title
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Course") +
		styleChrome().Render("  "+title)

	var body string
	switch {
	case d.Loading:
		body = styleMuted().Render(controller.MsgLoading)
	case d.Course == nil:
		body = ""
	default:
		body = m.detail.View() + "\n" + m.viewDetailItems(d)
	}

	footer := renderStatus(d.Status)
	help := styleMuted().Render("j/k: item  p: progress  pgup/pgdn: scroll  r: reload  esc: back  q: quit")
	return strings.Join([]string{header, body, footer, help}, "\n")
}

func (m appModel) viewDetailItems(d *controller.DetailState) string {
	items := detailItems(d)
	if len(items) == 0 {
		return ""
	}
	selected := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	// Keep the cursor visible in a fixed window below the viewport.
	rows := max(m.height-m.detail.Height-6, 3)
	start := 0
	if m.detailIndex >= rows {
		start = m.detailIndex - rows + 1
	}
	end := min(start+rows, len(items))

	var lines []string
	for i := start; i < end; i++ {
		it := items[i]
		state := string(model.ProgressNotStarted)
		if p, ok := d.Progress[it.ID]; ok {
			state = string(p.Status)
			if p.Score > 0 {
				state += fmt.Sprintf(" %g", p.Score)
			}
		}
		if d.IsBusy(it.ID) {
			state = "saving…"
		}
		line := fmt.Sprintf(" %s  %s", it.Title, styleMuted().Render(state))
		if i == m.detailIndex {
			line = selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewProgressModal() string {
	it, _ := m.selectedDetailItem()
	bodyW := modalBodyWidth(m.width)

	labels := make([]string, len(model.ProgressStatuses))
	for i, s := range model.ProgressStatuses {
		labels[i] = string(s)
	}

	parts := []string{
		"Item: " + it.Title,
		"",
		choiceRow(labels, m.progressStatus),
		"",
		"Score",
		fieldLine(bodyW, m.scoreInput.View()),
	}
	if m.progressErr != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(colorError).Render(m.progressErr))
	}
	parts = append(parts, "", styleMuted().Render("tab: status   enter: save   esc: cancel"))
	return renderModalBox(m.width, "Update progress", strings.Join(parts, "\n"))
}
