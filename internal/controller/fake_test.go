package controller_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"catalog-cli/internal/controller"
	"catalog-cli/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	Op       string
	ID       string
	Query    model.QueryState
	Limit    int
	Title    string
	Progress model.ProgressUpdate
}

// fakeCatalog is an in-memory backend. Reads snapshot the data before before()
// runs, so a gated read returns what the server held when it was issued.
type fakeCatalog struct {
	mu      sync.Mutex
	courses []model.Course
	details map[string]model.CourseDetail
	calls   []call

	// before runs outside the lock for every request; a non-nil error fails it.
	before func(ctx context.Context, c call) error
}

func newFakeCatalog(courses ...model.Course) *fakeCatalog {
	return &fakeCatalog{courses: courses, details: map[string]model.CourseDetail{}}
}

func sampleCourses() []model.Course {
	return []model.Course{
		{ID: "c1", Title: "Algebra I", Category: "math"},
		{ID: "c2", Title: "Geometry Basics", Category: "math"},
		{ID: "c3", Title: "Linear Algebra", Category: "math"},
		{ID: "c4", Title: "World History", Category: "history"},
	}
}

func (f *fakeCatalog) record(c call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeCatalog) hook(ctx context.Context, c call) error {
	if f.before == nil {
		return nil
	}
	return f.before(ctx, c)
}

func (f *fakeCatalog) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *fakeCatalog) callsOf(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeCatalog) ListCourses(ctx context.Context, q model.QueryState, limit int) (model.Page, error) {
	c := call{Op: "list", Query: q, Limit: limit}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	var matched []model.Course
	for _, it := range f.courses {
		if q.Search != "" && !strings.Contains(strings.ToLower(it.Title), strings.ToLower(q.Search)) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(it.Category, q.Category) {
			continue
		}
		matched = append(matched, it)
	}
	f.mu.Unlock()

	if err := f.hook(ctx, c); err != nil {
		return model.Page{}, err
	}

	page := model.Page{Items: []model.Course{}, Page: q.Page, Limit: limit, Total: len(matched)}
	start := (q.Page - 1) * limit
	if start < len(matched) {
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Items = append(page.Items, matched[start:end]...)
	}
	return page, nil
}

func (f *fakeCatalog) GetCourse(ctx context.Context, id string) (model.CourseDetail, error) {
	c := call{Op: "get", ID: id}
	f.record(c)
	if err := f.hook(ctx, c); err != nil {
		return model.CourseDetail{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[id]
	if !ok {
		return model.CourseDetail{}, errors.New("course not found")
	}
	return d, nil
}

func (f *fakeCatalog) UpdateCourseTitle(ctx context.Context, id, title string) (*model.Course, error) {
	c := call{Op: "edit", ID: id, Title: title}
	f.record(c)
	if err := f.hook(ctx, c); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.courses {
		if f.courses[i].ID == id {
			f.courses[i].Title = title
			out := f.courses[i]
			return &out, nil
		}
	}
	return nil, errors.New("course not found")
}

func (f *fakeCatalog) DeleteCourse(ctx context.Context, id string) error {
	c := call{Op: "delete", ID: id}
	f.record(c)
	if err := f.hook(ctx, c); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.courses {
		if f.courses[i].ID == id {
			f.courses = append(f.courses[:i], f.courses[i+1:]...)
			return nil
		}
	}
	return errors.New("course not found")
}

func (f *fakeCatalog) UpdateProgress(ctx context.Context, courseID, itemID string, in model.ProgressUpdate) error {
	c := call{Op: "progress", ID: courseID + "/" + itemID, Progress: in}
	f.record(c)
	return f.hook(ctx, c)
}

// gates hands out one channel per key; a request waiting on a key proceeds once
// the test opens it.
type gates struct {
	mu sync.Mutex
	m  map[string]chan struct{}
}

func newGates() *gates {
	return &gates{m: map[string]chan struct{}{}}
}

func (g *gates) get(key string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.m[key]
	if !ok {
		ch = make(chan struct{})
		g.m[key] = ch
	}
	return ch
}

func (g *gates) wait(ctx context.Context, key string) error {
	select {
	case <-g.get(key):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gates) open(key string) {
	close(g.get(key))
}

type recorder struct {
	mu    sync.Mutex
	views []controller.ViewState
}

func (r *recorder) Render(v controller.ViewState) {
	r.mu.Lock()
	r.views = append(r.views, v)
	r.mu.Unlock()
}

func (r *recorder) last() controller.ViewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return controller.ViewState{}
	}
	return r.views[len(r.views)-1]
}

func (r *recorder) all() []controller.ViewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]controller.ViewState(nil), r.views...)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func startController(t *testing.T, cat controller.Catalog, cfg controller.Config) (*controller.Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	if cfg.QuietWindow == 0 {
		cfg.QuietWindow = 20 * time.Millisecond
	}
	c := controller.New(cat, rec, cfg)
	c.Start(context.Background())
	t.Cleanup(c.Close)
	return c, rec
}

// settle waits until the controller is idle and returns the last rendered view.
func settle(t *testing.T, c *controller.Controller, rec *recorder) controller.ViewState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Sync(ctx))
	return rec.last()
}

func waitView(t *testing.T, rec *recorder, cond func(controller.ViewState) bool) controller.ViewState {
	t.Helper()
	require.Eventually(t, func() bool { return cond(rec.last()) }, 5*time.Second, 5*time.Millisecond)
	return rec.last()
}

func waitCalls(t *testing.T, cat *fakeCatalog, op string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return cat.count(op) >= n }, 5*time.Second, 5*time.Millisecond)
}

func titles(items []model.Course) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}
