package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-cli/internal/api"
	"catalog-cli/internal/controller"
	"catalog-cli/internal/devserver"
	"catalog-cli/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerAgainstDevServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := devserver.New(devserver.Options{Jitter: 20 * time.Millisecond})
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	transport := &http.Transport{}
	t.Cleanup(transport.CloseIdleConnections)

	client := api.NewClient(api.Options{
		BaseURL:    hs.URL,
		HTTPClient: &http.Client{Transport: transport, Timeout: 5 * time.Second},
	})
	c, rec := startController(t, client, controller.Config{QuietWindow: 30 * time.Millisecond})

	// Keystrokes race each other through a jittery backend; only the last one counts.
	for _, s := range []string{"alg", "algebra", "geo", "algebra"} {
		c.SetField(model.FieldSearch, s)
		c.Search()
	}
	v := settle(t, c, rec)
	assert.Equal(t, "algebra", v.Applied.Search)
	assert.ElementsMatch(t, []string{"Algebra I", "Linear Algebra"}, titles(v.Items))
	assert.Equal(t, 2, v.Pagination.Total)

	var geometry string
	c.ResetFilters()
	v = settle(t, c, rec)
	require.Len(t, v.Items, model.DefaultPageSize)
	assert.Equal(t, 3, v.Pagination.LastPage)
	for _, it := range v.Items {
		if it.Title == "Geometry Basics" {
			geometry = it.ID
		}
	}
	require.NotEmpty(t, geometry)

	srv.FailNext(http.MethodPatch, "/courses/"+geometry, http.StatusInternalServerError, "db error")
	c.EditTitle(geometry, "Geometry")
	v = settle(t, c, rec)
	assert.Equal(t, "db error", v.Status.Text)
	assert.Contains(t, titles(v.Items), "Geometry Basics")

	c.EditTitle(geometry, "Geometry")
	v = settle(t, c, rec)
	assert.Equal(t, controller.MsgCourseUpdated, v.Status.Text)
	assert.Contains(t, titles(v.Items), "Geometry")

	c.RequestDelete(geometry)
	c.ConfirmDelete(geometry)
	v = settle(t, c, rec)
	assert.Equal(t, controller.MsgCourseDeleted, v.Status.Text)
	assert.Equal(t, 19, v.Pagination.Total)
	assert.NotContains(t, titles(v.Items), "Geometry")
	assert.Len(t, srv.Courses(), 19)
}
