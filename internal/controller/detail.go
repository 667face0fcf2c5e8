package controller

import (
	"context"
	"strings"

	"catalog-cli/internal/model"

	"go.uber.org/zap"
)

// OpenCourse loads one course's modules into the detail view. A newer OpenCourse
// or CloseCourse makes any earlier response stale.
func (c *Controller) OpenCourse(id string) {
	c.post(func() {
		st := &c.st
		id = strings.TrimSpace(id)
		tok := RequestToken(st.tick())
		st.detail = &detailState{
			token:    tok,
			courseID: id,
			busy:     map[string]bool{},
			progress: map[string]model.ProgressUpdate{},
		}
		st.dirty = true
		if id == "" {
			st.detail.status = Status{Kind: StatusError, Text: MsgInvalidCourse}
			return
		}
		st.detail.loading = true
		st.detail.status = Status{Kind: StatusLoading, Text: MsgLoading}

		c.spawn(func(ctx context.Context) func() {
			course, err := c.api.GetCourse(ctx, id)
			return func() { c.onCourseResult(tok, course, err) }
		})
	})
}

func (c *Controller) CloseCourse() {
	c.post(func() {
		if c.st.detail != nil {
			c.st.detail = nil
			c.st.dirty = true
		}
	})
}

func (c *Controller) onCourseResult(tok RequestToken, course model.CourseDetail, err error) {
	d := c.st.detail
	if d == nil || d.token != tok {
		c.log.Debug("stale course response discarded", zap.Uint64("token", uint64(tok)))
		return
	}
	if err != nil && isCanceled(err) {
		return
	}
	d.loading = false
	c.st.dirty = true
	if err != nil {
		c.log.Warn("course request failed", zap.String("id", d.courseID), zap.Error(err))
		d.status = Status{Kind: StatusError, Text: "Failed to load course: " + detailMessage(err)}
		return
	}
	d.course = &course
	if len(course.Modules) == 0 {
		d.status = Status{Kind: StatusInfo, Text: MsgNoModules}
	} else {
		d.status = Status{}
	}
}

// UpdateProgress records a learner's progress on one item of the open course.
// An unknown or empty status is rejected without a request.
func (c *Controller) UpdateProgress(courseID, itemID, status string, score float64) {
	c.post(func() {
		c.updateProgress(strings.TrimSpace(courseID), strings.TrimSpace(itemID), strings.TrimSpace(status), score)
	})
}

func (c *Controller) updateProgress(courseID, itemID, status string, score float64) {
	st := &c.st
	d := st.detail
	if d == nil || d.courseID != courseID || courseID == "" || itemID == "" {
		c.reject(itemID, MutationProgress, NotInViewError{ID: courseID})
		return
	}
	if d.busy[itemID] {
		c.reject(itemID, MutationProgress, ErrMutationInFlight)
		return
	}
	ps, err := model.ParseProgressStatus(status)
	if err != nil {
		verr := &ValidationError{Reason: err.Error()}
		d.status = Status{Kind: StatusError, Text: verr.Error()}
		c.reject(itemID, MutationProgress, verr)
		return
	}
	if score < 0 {
		verr := &ValidationError{Reason: "score must not be negative"}
		d.status = Status{Kind: StatusError, Text: verr.Error()}
		c.reject(itemID, MutationProgress, verr)
		return
	}

	in := model.ProgressUpdate{Status: ps, Score: score}
	d.busy[itemID] = true
	st.lastMutation = &MutationResult{ItemID: itemID, Kind: MutationProgress, Outcome: OutcomePending}
	st.dirty = true
	tok := d.token

	c.spawn(func(ctx context.Context) func() {
		err := c.api.UpdateProgress(ctx, courseID, itemID, in)
		return func() { c.onProgressResult(tok, itemID, in, err) }
	})
}

func (c *Controller) onProgressResult(tok RequestToken, itemID string, in model.ProgressUpdate, err error) {
	st := &c.st
	d := st.detail
	if d == nil || d.token != tok {
		return
	}
	delete(d.busy, itemID)
	if err != nil && isCanceled(err) {
		return
	}
	st.dirty = true
	if err != nil {
		c.log.Warn("progress update failed", zap.String("item", itemID), zap.Error(err))
		d.status = Status{Kind: StatusError, Text: mutationMessage(err)}
		st.lastMutation = &MutationResult{ItemID: itemID, Kind: MutationProgress, Outcome: OutcomeRolledBack, Err: err}
		return
	}
	d.progress[itemID] = in
	d.status = Status{Kind: StatusInfo, Text: MsgProgressUpdated}
	st.lastMutation = &MutationResult{ItemID: itemID, Kind: MutationProgress, Outcome: OutcomeApplied}
}

func detailMessage(err error) string {
	msg := mutationMessage(err)
	return strings.TrimPrefix(msg, "Error: ")
}
