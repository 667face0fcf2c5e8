package controller

import (
	"context"
	"errors"
	"fmt"

	"catalog-cli/internal/api"
)

// ValidationError is local input rejected before any request is sent.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

type NotInViewError struct {
	ID string
}

func (e NotInViewError) Error() string {
	return fmt.Sprintf("course not in view: %s", e.ID)
}

var (
	ErrMutationInFlight     = errors.New("a change to this course is already in progress")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrClosed               = errors.New("controller closed")
)

const (
	MsgLoading         = "Loading..."
	MsgNoCourses       = "No courses found."
	MsgAuth            = "Not authorized: sign in again."
	MsgConnection      = "Connection error: could not reach the API."
	MsgCourseUpdated   = "Course updated."
	MsgCourseDeleted   = "Course deleted."
	MsgInvalidCourse   = "Invalid course."
	MsgNoModules       = "No modules yet."
	MsgProgressUpdated = "Progress updated."
)

// StatusMessage maps a read-path error to the text shown in the status line.
func StatusMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case api.IsAuth(err):
		return MsgAuth
	case api.IsTransport(err):
		return MsgConnection
	}
	if msg, ok := api.ServerMessage(err); ok {
		return "Error: " + msg
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return "Error: " + err.Error()
}

// mutationMessage is like StatusMessage but shows the backend's text verbatim.
func mutationMessage(err error) string {
	if msg, ok := api.ServerMessage(err); ok {
		return msg
	}
	return StatusMessage(err)
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
