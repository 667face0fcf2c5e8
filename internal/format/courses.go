package format

import (
	"fmt"
	"io"
	"strings"

	"catalog-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// CourseList is one or more pages of list results.
type CourseList struct {
	Items      []model.Course   `json:"items"`
	Pagination model.Pagination `json:"pagination"`
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (l CourseList) WriteText(w io.Writer) error {
	if len(l.Items) == 0 {
		_, err := fmt.Fprintln(w, "No courses found.")
		return err
	}
	rows := make([][]string, 0, len(l.Items))
	for _, c := range l.Items {
		created := ""
		if c.CreatedAt != nil {
			created = c.CreatedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{c.ID, c.Title, c.Category, c.TeacherID, created})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "CATEGORY", "TEACHER", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), PageLabel(l.Pagination))
	return err
}

// PageLabel is the one-line pagination summary shared by the CLI and the TUI.
func PageLabel(p model.Pagination) string {
	noun := "courses"
	if p.Total == 1 {
		noun = "course"
	}
	return fmt.Sprintf("Page %d of %d · %d %s", p.Page, p.LastPage, p.Total, noun)
}

// CourseView is a course with its modules and, optionally, the learner's progress.
type CourseView struct {
	model.CourseDetail
	Progress map[string]model.ProgressUpdate `json:"progress,omitempty"`
	Width    int                             `json:"-"`
}

func (v CourseView) WriteText(w io.Writer) error {
	width := v.Width
	if width <= 0 {
		width = 80
	}
	_, err := fmt.Fprintln(w, RenderMarkdown(CourseMarkdown(v.CourseDetail, v.Progress), width))
	return err
}

// CourseMarkdown lays a course out as markdown: one section per module, one bullet per item.
func CourseMarkdown(c model.CourseDetail, progress map[string]model.ProgressUpdate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(c.Title))
	if c.Category != "" {
		fmt.Fprintf(&b, "_%s_ · %d items\n\n", escapeMarkdown(c.Category), c.ItemCount())
	}
	if len(c.Modules) == 0 {
		b.WriteString("No modules yet.\n")
		return b.String()
	}
	for _, m := range c.Modules {
		fmt.Fprintf(&b, "## %d. %s\n\n", m.Order, escapeMarkdown(m.Title))
		for _, it := range m.Items {
			line := fmt.Sprintf("- **%s**", escapeMarkdown(it.Title))
			if it.Type != "" {
				line += " (" + it.Type + ")"
			}
			if it.MaxScore > 0 {
				line += fmt.Sprintf(" · max %g", it.MaxScore)
			}
			if p, ok := progress[it.ID]; ok {
				line += fmt.Sprintf(" · `%s`", p.Status)
				if p.Score > 0 {
					line += fmt.Sprintf(" %g", p.Score)
				}
			}
			line += fmt.Sprintf(" `%s`", it.ID)
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
