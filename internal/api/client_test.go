package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-cli/internal/api"
	"catalog-cli/internal/devserver"
	"catalog-cli/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, opts devserver.Options) (*devserver.Server, *api.Client) {
	t.Helper()
	srv := devserver.New(opts)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	return srv, api.NewClient(api.Options{BaseURL: hs.URL, Timeout: 5 * time.Second})
}

func TestListCourses_SearchAndPaging(t *testing.T) {
	_, c := newTestServer(t, devserver.Options{})

	page, err := c.ListCourses(context.Background(), model.QueryState{Search: "algebra", Page: 1}, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 9, page.Limit)
	require.Len(t, page.Items, 2)

	page, err = c.ListCourses(context.Background(), model.QueryState{Page: 3, Sort: "title_asc"}, 9)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Total)
	assert.Len(t, page.Items, 2)
}

func TestListCourses_EmptyResultHasItemsSlice(t *testing.T) {
	_, c := newTestServer(t, devserver.Options{})

	page, err := c.ListCourses(context.Background(), model.QueryState{Search: "no such course"}, 9)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
}

func TestErrors_Taxonomy(t *testing.T) {
	t.Run("auth", func(t *testing.T) {
		_, c := newTestServer(t, devserver.Options{RequireSession: "secret"})
		_, err := c.ListCourses(context.Background(), model.QueryState{}, 9)
		require.Error(t, err)
		assert.True(t, api.IsAuth(err), "want AuthError, got %T", err)
	})

	t.Run("auth with session cookie", func(t *testing.T) {
		srv := devserver.New(devserver.Options{RequireSession: "secret"})
		hs := httptest.NewServer(srv.Handler())
		defer hs.Close()
		c := api.NewClient(api.Options{BaseURL: hs.URL, SessionToken: "secret"})
		_, err := c.ListCourses(context.Background(), model.QueryState{}, 9)
		require.NoError(t, err)
	})

	t.Run("server text body", func(t *testing.T) {
		srv, c := newTestServer(t, devserver.Options{})
		id := srv.Courses()[1].ID
		srv.FailNext(http.MethodPatch, "/courses/"+id, http.StatusInternalServerError, "db error")
		_, err := c.UpdateCourseTitle(context.Background(), id, "Geometry")
		require.Error(t, err)
		msg, ok := api.ServerMessage(err)
		require.True(t, ok)
		assert.Equal(t, "db error", msg)
	})

	t.Run("server json body", func(t *testing.T) {
		_, c := newTestServer(t, devserver.Options{})
		_, err := c.ListCourses(context.Background(), model.QueryState{Sort: "bogus"}, 9)
		msg, ok := api.ServerMessage(err)
		require.True(t, ok)
		assert.Equal(t, "invalid sort", msg)
	})

	t.Run("transport", func(t *testing.T) {
		hs := httptest.NewServer(http.NotFoundHandler())
		base := hs.URL
		hs.Close()
		c := api.NewClient(api.Options{BaseURL: base, Timeout: time.Second})
		_, err := c.ListCourses(context.Background(), model.QueryState{}, 9)
		require.Error(t, err)
		assert.True(t, api.IsTransport(err), "want TransportError, got %T", err)
	})

	t.Run("cancelled context is not a transport error", func(t *testing.T) {
		_, c := newTestServer(t, devserver.Options{Latency: time.Second})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.ListCourses(ctx, model.QueryState{}, 9)
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, api.IsTransport(err))
	})
}

func TestUpdateCourseTitle_ReturnsServerCourse(t *testing.T) {
	srv, c := newTestServer(t, devserver.Options{})
	id := srv.Courses()[0].ID

	got, err := c.UpdateCourseTitle(context.Background(), id, "  Algebra II ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Algebra II", got.Title)
}

func TestUpdateCourseTitle_PlainTextSuccess(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		_, _ = w.Write([]byte("Course updated"))
	}))
	defer hs.Close()

	c := api.NewClient(api.Options{BaseURL: hs.URL})
	got, err := c.UpdateCourseTitle(context.Background(), "c1", "x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteAndProgress(t *testing.T) {
	srv, c := newTestServer(t, devserver.Options{})
	id := srv.Courses()[0].ID

	detail, err := c.GetCourse(context.Background(), id)
	require.NoError(t, err)
	require.NotEmpty(t, detail.Modules)
	itemID := detail.Modules[0].Items[1].ID

	require.NoError(t, c.UpdateProgress(context.Background(), id, itemID, model.ProgressUpdate{Status: model.ProgressDone, Score: 7}))
	p, ok := srv.Progress(id, itemID)
	require.True(t, ok)
	assert.Equal(t, model.ProgressUpdate{Status: model.ProgressDone, Score: 7}, p)

	require.NoError(t, c.DeleteCourse(context.Background(), id))
	assert.Len(t, srv.Courses(), 19)

	err = c.DeleteCourse(context.Background(), id)
	msg, ok := api.ServerMessage(err)
	require.True(t, ok)
	assert.Equal(t, "course not found", msg)
}
