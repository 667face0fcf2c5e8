package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"catalog-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestCourseDelegate_TruncatesToWidth(t *testing.T) {
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	items := []list.Item{
		courseItem{course: model.Course{ID: "c1", Title: strings.Repeat("Long title ", 10), Category: "math", CreatedAt: &created}},
		courseItem{course: model.Course{ID: "c2", Title: "Short"}, busy: true},
	}
	d := newCourseDelegate()
	l := list.New(items, d, 30, 5)

	var buf bytes.Buffer
	d.Render(&buf, l, 0, items[0])
	if w := xansi.StringWidth(buf.String()); w != 30 {
		t.Fatalf("row width = %d, want 30: %q", w, buf.String())
	}
	if !strings.HasSuffix(xansi.Strip(buf.String()), "…") {
		t.Fatalf("expected ellipsis: %q", buf.String())
	}

	buf.Reset()
	d.Render(&buf, l, 1, items[1])
	got := xansi.Strip(buf.String())
	if !strings.Contains(got, "Short") || !strings.Contains(got, "saving…") {
		t.Fatalf("unexpected row: %q", got)
	}
	if xansi.StringWidth(got) != 30 {
		t.Fatalf("short rows are padded to the full width: %q", got)
	}
}

func TestCourseItem_Meta(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	it := courseItem{course: model.Course{Category: "math", CreatedAt: &created}}
	if got := it.meta(); got != "math · 2024-03-01" {
		t.Fatalf("meta = %q", got)
	}
	if got := (courseItem{}).meta(); got != "" {
		t.Fatalf("empty meta = %q", got)
	}
}
