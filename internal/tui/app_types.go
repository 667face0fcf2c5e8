package tui

import (
	"catalog-cli/internal/controller"
	"catalog-cli/internal/model"
)

// catalogController is the slice of *controller.Controller the model drives.
type catalogController interface {
	SetField(f model.Field, value string)
	SetSort(sort string)
	Search()
	ResetFilters()
	Reload()
	NextPage()
	PrevPage()

	EditTitle(id, title string)
	RequestDelete(id string)
	CancelDelete()
	ConfirmDelete(id string)

	OpenCourse(id string)
	CloseCourse()
	UpdateProgress(courseID, itemID, status string, score float64)
}

var _ catalogController = (*controller.Controller)(nil)

type viewStateMsg struct {
	state controller.ViewState
}

type modalKind int

const (
	modalNone modalKind = iota
	modalEditTitle
	modalProgress
)

// filterFields is the order of the filter inputs on screen.
var filterFields = []model.Field{model.FieldSearch, model.FieldCategory, model.FieldTeacher}

const focusList = -1
