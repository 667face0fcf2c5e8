package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

const (
	modalMinWidth = 30
	modalMaxWidth = 72
)

// modalWidth is the outer width of a modal on a screen of the given width.
func modalWidth(screenW int) int {
	w := screenW - 8
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < modalMinWidth {
		w = modalMinWidth
	}
	return w
}

// modalBodyWidth is the width available to modal content after padding.
func modalBodyWidth(screenW int) int {
	return modalWidth(screenW) - 4
}

func renderModalBox(screenW int, title, body string) string {
	w := modalWidth(screenW)
	bodyW := w - 4

	header := lipgloss.NewStyle().
		Bold(true).
		Width(w).
		Padding(0, 2).
		Foreground(colorSurfaceFg).
		Background(colorModalHeaderBg).
		Render(xansi.Truncate(title, bodyW, "…"))

	lines := strings.Split(body, "\n")
	for i, ln := range lines {
		if xansi.StringWidth(ln) > bodyW {
			lines[i] = xansi.Truncate(ln, bodyW, "…")
		}
	}
	content := lipgloss.NewStyle().
		Width(w).
		Padding(1, 2).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

// choiceRow renders labels as a row of chips with the selected one
// highlighted. A negative selected highlights nothing.
func choiceRow(labels []string, selected int) string {
	chip := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	gap := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	out := make([]string, 0, 2*len(labels))
	for i, l := range labels {
		if i > 0 {
			out = append(out, gap)
		}
		st := chip
		if i == selected {
			st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		}
		out = append(out, st.Render(l))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// confirmDialog is a yes/no question shown in a modal box.
type confirmDialog struct {
	title, body string
	yes, no     string
}

func (d confirmDialog) view(screenW int, focus confirmModalFocus) string {
	bodyW := modalBodyWidth(screenW)
	return renderModalBox(screenW, d.title, strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Render(d.body),
		"",
		choiceRow([]string{d.yes, d.no}, int(focus)),
		"",
		styleMuted().Width(bodyW).Render("tab: focus   enter: select   y/n   esc: cancel"),
	}, "\n"))
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// fieldLine lays a text input's view out as one shaded line exactly bodyW
// cells wide, so typing never reflows the modal around it.
func fieldLine(bodyW int, inputView string) string {
	bodyW = max(bodyW, 10)
	v := xansi.Truncate(lineBreaks.Replace(inputView), bodyW-2, "")
	return lipgloss.NewStyle().
		Width(bodyW).
		MaxHeight(1).
		Background(colorInputBg).
		Render(" " + v + " ")
}
