package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func TestRenderModalBox_UsesLightBackground_WhenThemeForcedLight(t *testing.T) {
	oldProfile := lipgloss.ColorProfile()
	oldBG := lipgloss.HasDarkBackground()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(oldProfile)
		lipgloss.SetHasDarkBackground(oldBG)
	})

	t.Setenv("CATALOG_TUI_THEME", "light")
	applyThemePreference()
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected HasDarkBackground=false after forcing light theme")
	}

	out := renderModalBox(80, "Title", "Body")
	// colorSurfaceBg is ac("255","235").
	if !strings.Contains(out, "48;5;255") {
		t.Fatalf("expected modal to include light background (48;5;255); got: %q", out)
	}
}

func TestApplyThemePreference_COLORFGBG(t *testing.T) {
	oldBG := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(oldBG) })

	t.Setenv("CATALOG_TUI_THEME", "")
	t.Setenv("COLORFGBG", "15;0")
	applyThemePreference()
	if !lipgloss.HasDarkBackground() {
		t.Fatalf("COLORFGBG=15;0 should select the dark palette")
	}

	t.Setenv("COLORFGBG", "0;15")
	applyThemePreference()
	if lipgloss.HasDarkBackground() {
		t.Fatalf("COLORFGBG=0;15 should select the light palette")
	}
}

func TestApplyColorProfilePreference_NoColor(t *testing.T) {
	old := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	t.Setenv("NO_COLOR", "")
	applyColorProfilePreference(true)
	if got := lipgloss.ColorProfile(); got != termenv.Ascii {
		t.Fatalf("config no_color: got profile %v, want Ascii", got)
	}

	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Setenv("NO_COLOR", "1")
	applyColorProfilePreference(false)
	if got := lipgloss.ColorProfile(); got != termenv.Ascii {
		t.Fatalf("NO_COLOR: got profile %v, want Ascii", got)
	}
}

func TestConfirmDialog_HighlightsFocus(t *testing.T) {
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	out := confirmDialog{title: "Delete course", body: "Delete it?", yes: "Delete", no: "Cancel"}.view(80, confirmFocusCancel)
	for _, want := range []string{"Delete course", "Delete it?", "Delete", "Cancel", "esc: cancel"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if confirmFocusCancel.toggle() != confirmFocusConfirm {
		t.Fatalf("toggle should flip focus")
	}
}

func TestFieldLine_IsOneLineOfFixedWidth(t *testing.T) {
	for _, in := range []string{"", "abc", strings.Repeat("x", 40) + "\n", "a\r\nb\nc"} {
		line := fieldLine(12, in)
		if strings.Contains(line, "\n") {
			t.Fatalf("field line must be single-line: %q", line)
		}
		if w := lipgloss.Width(line); w != 12 {
			t.Fatalf("%q: width %d, want 12", in, w)
		}
	}
}

func TestChoiceRow_RendersEveryLabel(t *testing.T) {
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })

	out := xansi.Strip(choiceRow([]string{"not_started", "in_progress", "done"}, 1))
	if out != " not_started   in_progress   done " {
		t.Fatalf("unexpected row %q", out)
	}
}
