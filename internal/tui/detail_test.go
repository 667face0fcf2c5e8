package tui

import (
	"testing"

	"catalog-cli/internal/controller"
	"catalog-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detailState(version uint64) controller.ViewState {
	st := withVersion(sampleState, version)
	st.Detail = &controller.DetailState{
		CourseID: "c1",
		Course: &model.CourseDetail{
			ID:    "c1",
			Title: "Algebra I",
			Modules: []model.Module{
				{Title: "Basics", Order: 1, Items: []model.Item{
					{ID: "i1", Title: "Variables", Type: "lesson"},
					{ID: "i2", Title: "Quiz 1", Type: "quiz", MaxScore: 100},
				}},
			},
		},
		Progress: map[string]model.ProgressUpdate{},
	}
	return st
}

func TestDetail_RendersCourseAndItems(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	m, _ := newTestModel(t)
	m = send(t, m, viewStateMsg{state: detailState(1)})
	require.True(t, m.inDetail())

	out := m.View()
	assert.Contains(t, out, "Algebra I")
	assert.Contains(t, out, "Variables")
	assert.Contains(t, out, "Quiz 1")
}

func TestDetail_LoadingAndErrors(t *testing.T) {
	m, _ := newTestModel(t)
	st := withVersion(sampleState, 1)
	st.Detail = &controller.DetailState{CourseID: "c9", Loading: true, Status: controller.Status{Kind: controller.StatusLoading, Text: controller.MsgLoading}}
	m = send(t, m, viewStateMsg{state: st})
	assert.Contains(t, m.View(), controller.MsgLoading)

	st = withVersion(sampleState, 2)
	st.Detail = &controller.DetailState{Status: controller.Status{Kind: controller.StatusError, Text: controller.MsgInvalidCourse}}
	m = send(t, m, viewStateMsg{state: st})
	assert.Contains(t, m.View(), controller.MsgInvalidCourse)
}

func TestDetail_EscClosesCourse(t *testing.T) {
	m, stub := newTestModel(t)
	m = send(t, m, viewStateMsg{state: detailState(1)}, key("esc"))
	assert.Equal(t, "CloseCourse", stub.last())

	// The list returns once the controller drops the detail.
	m = send(t, m, viewStateMsg{state: withVersion(sampleState, 2)})
	assert.False(t, m.inDetail())
	assert.Contains(t, m.View(), "Course Catalog")
}

func TestProgressModal_SendsUpdate(t *testing.T) {
	m, stub := newTestModel(t)
	m = send(t, m, viewStateMsg{state: detailState(1)}, key("j"), key("p"))
	require.Equal(t, modalProgress, m.modal)
	assert.Contains(t, m.View(), "Item: Quiz 1")

	m = send(t, m, key("tab"))
	m = send(t, m, typeText("80")...)
	m = send(t, m, key("enter"))

	assert.Equal(t, modalNone, m.modal)
	assert.Equal(t, "UpdateProgress c1 i2 in_progress 80", stub.last())
}

func TestProgressModal_RejectsNonNumericScore(t *testing.T) {
	m, stub := newTestModel(t)
	m = send(t, m, viewStateMsg{state: detailState(1)}, key("p"))
	m = send(t, m, typeText("abc")...)
	m = send(t, m, key("enter"))

	assert.Equal(t, modalProgress, m.modal)
	assert.Contains(t, m.View(), "score must be a number")
	assert.Empty(t, stub.calls)
}

func TestProgressModal_PrefillsConfirmedProgress(t *testing.T) {
	m, _ := newTestModel(t)
	st := detailState(1)
	st.Detail.Progress["i1"] = model.ProgressUpdate{Status: model.ProgressDone, Score: 7.5}
	m = send(t, m, viewStateMsg{state: st}, key("p"))

	assert.Equal(t, 2, m.progressStatus)
	assert.Equal(t, "7.5", m.scoreInput.Value())
}

func TestProgressModal_BusyItemDoesNotOpen(t *testing.T) {
	m, _ := newTestModel(t)
	st := detailState(1)
	st.Detail.Busy = []string{"i1"}
	m = send(t, m, viewStateMsg{state: st}, key("p"))
	assert.Equal(t, modalNone, m.modal)
	assert.Contains(t, m.View(), "saving…")
}

func TestDetail_CursorClampsWhenItemsShrink(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, viewStateMsg{state: detailState(1)}, key("j"), key("j"))
	assert.Equal(t, 1, m.detailIndex)

	st := detailState(2)
	st.Detail.Course.Modules[0].Items = st.Detail.Course.Modules[0].Items[:1]
	m = send(t, m, viewStateMsg{state: st})
	assert.Equal(t, 0, m.detailIndex)
}
