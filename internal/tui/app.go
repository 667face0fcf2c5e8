package tui

import (
	"strings"

	"catalog-cli/internal/controller"
	"catalog-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	ctrl catalogController

	width  int
	height int

	state   controller.ViewState
	version uint64

	list   list.Model
	inputs []textinput.Model
	focus  int

	modal     modalKind
	editID    string
	editInput textinput.Model

	confirmFocus confirmModalFocus
	// confirmSent holds the id whose confirmation was already sent, so the
	// modal does not linger (or resend) until the next render lands.
	confirmSent string

	detail         viewport.Model
	detailIndex    int
	detailRendered string
	progressStatus int
	scoreInput     textinput.Model
	progressErr    string
}

func newAppModel(ctrl catalogController) appModel {
	m := appModel{
		ctrl:   ctrl,
		focus:  focusList,
		detail: viewport.New(80, 10),
	}

	l := list.New(nil, newCourseDelegate(), 80, 12)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	// Paging is server-side; keep the list's own pager off the keyboard.
	l.KeyMap.NextPage.SetEnabled(false)
	l.KeyMap.PrevPage.SetEnabled(false)
	m.list = l

	for _, f := range filterFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholderFor(f)
		in.CharLimit = 120
		in.Width = 18
		m.inputs = append(m.inputs, in)
	}

	m.editInput = textinput.New()
	m.editInput.Prompt = ""
	m.editInput.CharLimit = 200

	m.scoreInput = textinput.New()
	m.scoreInput.Prompt = ""
	m.scoreInput.Placeholder = "0"
	m.scoreInput.CharLimit = 10
	return m
}

func placeholderFor(f model.Field) string {
	switch f {
	case model.FieldSearch:
		return "title"
	case model.FieldCategory:
		return "any category"
	case model.FieldTeacher:
		return "any teacher"
	default:
		return ""
	}
}

func (m appModel) Init() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Reload()
		return nil
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case viewStateMsg:
		m.applyState(msg.state)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.confirmOpen():
			return m.updateConfirm(msg)
		case m.modal == modalEditTitle:
			return m.updateEditModal(msg)
		case m.modal == modalProgress:
			return m.updateProgressModal(msg)
		case m.inDetail():
			return m.updateDetail(msg)
		case m.focus != focusList:
			return m.updateFilters(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

// applyState installs a controller render. Out-of-order renders are dropped.
func (m *appModel) applyState(v controller.ViewState) {
	if v.Version <= m.version {
		return
	}
	m.version = v.Version
	prevDetail := m.state.Detail
	m.state = v

	if v.ConfirmDelete == "" {
		m.confirmSent = ""
	} else if v.ConfirmDelete != m.confirmSent {
		m.confirmFocus = confirmFocusCancel
	}

	// Filters not being typed into follow the controller (e.g. after a reset).
	for i, f := range filterFields {
		if i != m.focus && m.inputs[i].Value() != v.Query.Get(f) {
			m.inputs[i].SetValue(v.Query.Get(f))
		}
	}

	m.setItems(v.Items, v)

	if v.Detail == nil {
		m.detailRendered = ""
		if m.modal == modalProgress {
			m.modal = modalNone
		}
		return
	}
	if prevDetail == nil || prevDetail.CourseID != v.Detail.CourseID {
		m.detailIndex = 0
		m.detail.GotoTop()
	}
	if n := len(detailItems(v.Detail)); m.detailIndex >= n {
		m.detailIndex = max(0, n-1)
	}
	m.refreshDetail()
}

func (m *appModel) setItems(courses []model.Course, v controller.ViewState) {
	selectedID := ""
	if it, ok := m.list.SelectedItem().(courseItem); ok {
		selectedID = it.course.ID
	}
	prevIndex := m.list.Index()

	items := make([]list.Item, 0, len(courses))
	sel := -1
	for i, c := range courses {
		items = append(items, courseItem{course: c, busy: v.IsBusy(c.ID)})
		if c.ID == selectedID {
			sel = i
		}
	}
	m.list.SetItems(items)
	switch {
	case len(items) == 0:
	case sel >= 0:
		m.list.Select(sel)
	default:
		m.list.Select(min(prevIndex, len(items)-1))
	}
}

func (m *appModel) resize() {
	w := max(m.width, 40)
	// Header, filters, blank, status, help.
	h := max(m.height-7, 3)
	m.list.SetSize(w, h)
	inputW := max((w-36)/3, 8)
	for i := range m.inputs {
		m.inputs[i].Width = inputW
	}
	m.editInput.Width = modalBodyWidth(m.width) - 2
	m.scoreInput.Width = 10
	m.detail.Width = w
	m.detail.Height = max(m.height/2-2, 4)
	m.refreshDetail()
}

func (m appModel) selectedCourse() (model.Course, bool) {
	it, ok := m.list.SelectedItem().(courseItem)
	if !ok {
		return model.Course{}, false
	}
	return it.course, true
}

func (m appModel) confirmOpen() bool {
	id := m.state.ConfirmDelete
	return id != "" && id != m.confirmSent
}

func (m appModel) inDetail() bool { return m.state.Detail != nil }

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/", "tab":
		cmd := m.focusFilter(0)
		return m, cmd
	case "enter":
		if c, ok := m.selectedCourse(); ok {
			m.ctrl.OpenCourse(c.ID)
		}
		return m, nil
	case "e":
		c, ok := m.selectedCourse()
		if !ok || m.state.IsBusy(c.ID) {
			return m, nil
		}
		m.modal = modalEditTitle
		m.editID = c.ID
		m.editInput.SetValue(c.Title)
		m.editInput.CursorEnd()
		cmd := m.editInput.Focus()
		return m, cmd
	case "d", "delete":
		if c, ok := m.selectedCourse(); ok {
			m.ctrl.RequestDelete(c.ID)
		}
		return m, nil
	case "s":
		m.ctrl.SetSort(model.NextSort(m.state.Query.Sort))
		return m, nil
	case "r":
		m.ctrl.Reload()
		return m, nil
	case "ctrl+r":
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.ctrl.ResetFilters()
		return m, nil
	case "]", "pgdown":
		if m.state.Pagination.HasNext {
			m.ctrl.NextPage()
		}
		return m, nil
	case "[", "pgup":
		if m.state.Pagination.HasPrev {
			m.ctrl.PrevPage()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *appModel) focusFilter(i int) tea.Cmd {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	if i == focusList {
		return nil
	}
	m.inputs[i].CursorEnd()
	return m.inputs[i].Focus()
}

func (m appModel) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		cmd := m.focusFilter(focusList)
		return m, cmd
	case "tab":
		next := m.focus + 1
		if next >= len(m.inputs) {
			next = focusList
		}
		cmd := m.focusFilter(next)
		return m, cmd
	case "shift+tab":
		prev := m.focus - 1
		if prev < 0 {
			prev = focusList
		}
		cmd := m.focusFilter(prev)
		return m, cmd
	case "enter":
		m.ctrl.Search()
		cmd := m.focusFilter(focusList)
		return m, cmd
	}

	in := &m.inputs[m.focus]
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if after := in.Value(); after != before {
		m.ctrl.SetField(filterFields[m.focus], after)
	}
	return m, cmd
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.state.ConfirmDelete
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
	case "y":
		m.confirmSent = id
		m.ctrl.ConfirmDelete(id)
	case "n", "esc", "ctrl+g", "q":
		m.confirmSent = id
		m.ctrl.CancelDelete()
	case "enter":
		m.confirmSent = id
		if m.confirmFocus == confirmFocusConfirm {
			m.ctrl.ConfirmDelete(id)
		} else {
			m.ctrl.CancelDelete()
		}
	}
	return m, nil
}

func (m appModel) updateEditModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.closeModal()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.editInput.Value())
		id := m.editID
		m.closeModal()
		m.ctrl.EditTitle(id, title)
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.editID = ""
	m.progressErr = ""
	m.editInput.Blur()
	m.scoreInput.Blur()
}
