package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"catalog-cli/internal/config"
	"catalog-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type emptyCatalog struct{}

func (emptyCatalog) ListCourses(ctx context.Context, q model.QueryState, limit int) (model.Page, error) {
	return model.Page{Page: q.Page, Limit: limit}, nil
}

func (emptyCatalog) GetCourse(ctx context.Context, id string) (model.CourseDetail, error) {
	return model.CourseDetail{ID: id}, nil
}

func (emptyCatalog) UpdateCourseTitle(ctx context.Context, id, title string) (*model.Course, error) {
	return &model.Course{ID: id, Title: title}, nil
}

func (emptyCatalog) DeleteCourse(ctx context.Context, id string) error { return nil }

func (emptyCatalog) UpdateProgress(ctx context.Context, courseID, itemID string, in model.ProgressUpdate) error {
	return nil
}

func TestRun_QuitsOnQ(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := config.Default()
	cfg.Query.Debounce = 10 * time.Millisecond

	var out bytes.Buffer
	err := Run(ctx, Options{
		Client: emptyCatalog{},
		Config: cfg,
		ProgramOptions: []tea.ProgramOption{
			tea.WithInput(strings.NewReader("q")),
			tea.WithOutput(&out),
			tea.WithoutSignalHandler(),
		},
	})
	require.NoError(t, err)
	require.NoError(t, ctx.Err(), "program should exit on q, not on the deadline")
}
