package controller

import (
	"context"
	"strings"

	"catalog-cli/internal/model"

	"go.uber.org/zap"
)

// EditTitle renames a course optimistically. Empty or unchanged titles are a no-op.
func (c *Controller) EditTitle(id, title string) {
	c.post(func() { c.editTitle(strings.TrimSpace(id), strings.TrimSpace(title)) })
}

// RequestDelete opens the confirmation gate for id. Nothing is removed or sent
// until ConfirmDelete(id) is called.
func (c *Controller) RequestDelete(id string) {
	c.post(func() {
		st := &c.st
		id = strings.TrimSpace(id)
		if _, busy := st.mutations[id]; busy {
			c.reject(id, MutationDelete, ErrMutationInFlight)
			return
		}
		if st.indexOf(id) < 0 {
			c.reject(id, MutationDelete, NotInViewError{ID: id})
			return
		}
		st.confirmDelete = id
		st.dirty = true
	})
}

func (c *Controller) CancelDelete() {
	c.post(func() {
		if c.st.confirmDelete != "" {
			c.st.confirmDelete = ""
			c.st.dirty = true
		}
	})
}

// ConfirmDelete deletes id if, and only if, RequestDelete(id) opened the gate.
func (c *Controller) ConfirmDelete(id string) {
	c.post(func() { c.confirmDelete(strings.TrimSpace(id)) })
}

func (c *Controller) reject(id string, kind MutationKind, err error) {
	c.log.Debug("mutation rejected", zap.String("id", id), zap.String("kind", string(kind)), zap.Error(err))
	c.st.lastMutation = &MutationResult{ItemID: id, Kind: kind, Outcome: OutcomeRejected, Err: err}
	c.st.dirty = true
}

func (c *Controller) editTitle(id, title string) {
	st := &c.st
	if _, busy := st.mutations[id]; busy {
		c.reject(id, MutationEdit, ErrMutationInFlight)
		return
	}
	i := st.indexOf(id)
	if i < 0 {
		c.reject(id, MutationEdit, NotInViewError{ID: id})
		return
	}
	if title == "" {
		c.reject(id, MutationEdit, &ValidationError{Reason: "title is empty"})
		return
	}
	if title == st.items[i].Title {
		c.reject(id, MutationEdit, &ValidationError{Reason: "title unchanged"})
		return
	}

	m := &pendingMutation{
		itemID:   id,
		kind:     MutationEdit,
		issuedAt: st.tick(),
		shown:    st.shown,
		prev:     st.items[i],
		title:    title,
	}
	st.mutations[id] = m
	st.items[i].Title = title
	st.lastMutation = &MutationResult{ItemID: id, Kind: MutationEdit, Outcome: OutcomePending}
	st.dirty = true

	c.spawn(func(ctx context.Context) func() {
		course, err := c.api.UpdateCourseTitle(ctx, id, title)
		return func() { c.onEditResult(m, course, err) }
	})
}

func (c *Controller) onEditResult(m *pendingMutation, course *model.Course, err error) {
	st := &c.st
	delete(st.mutations, m.itemID)
	if err != nil && isCanceled(err) {
		return
	}
	st.dirty = true

	i := st.indexOf(m.itemID)
	if err != nil {
		c.log.Warn("edit failed, rolling back", zap.String("id", m.itemID), zap.Error(err))
		if i >= 0 {
			st.items[i].Title = m.prev.Title
		}
		st.status = Status{Kind: StatusError, Text: mutationMessage(err)}
		st.lastMutation = &MutationResult{ItemID: m.itemID, Kind: MutationEdit, Outcome: OutcomeRolledBack, Err: err}
		return
	}

	m.confirmedAt = st.tick()
	if course != nil && course.ID == m.itemID {
		m.result = course
	}
	st.confirmed = append(st.confirmed, m)
	if i >= 0 && m.result != nil {
		st.items[i] = mergeCourse(st.items[i], *m.result)
	}
	st.status = Status{Kind: StatusInfo, Text: MsgCourseUpdated}
	st.lastMutation = &MutationResult{ItemID: m.itemID, Kind: MutationEdit, Outcome: OutcomeApplied}
}

func (c *Controller) confirmDelete(id string) {
	st := &c.st
	if id == "" || st.confirmDelete != id {
		c.reject(id, MutationDelete, ErrConfirmationRequired)
		return
	}
	st.confirmDelete = ""
	if _, busy := st.mutations[id]; busy {
		c.reject(id, MutationDelete, ErrMutationInFlight)
		return
	}
	i := st.indexOf(id)
	if i < 0 {
		c.reject(id, MutationDelete, NotInViewError{ID: id})
		return
	}

	m := &pendingMutation{
		itemID:    id,
		kind:      MutationDelete,
		issuedAt:  st.tick(),
		shown:     st.shown,
		prev:      st.items[i],
		prevIndex: i,
	}
	st.mutations[id] = m
	st.items = append(st.items[:i], st.items[i+1:]...)
	st.pag = withTotal(st.pag, st.pag.Total-1)
	st.lastMutation = &MutationResult{ItemID: id, Kind: MutationDelete, Outcome: OutcomePending}
	st.dirty = true

	c.spawn(func(ctx context.Context) func() {
		err := c.api.DeleteCourse(ctx, id)
		return func() { c.onDeleteResult(m, err) }
	})
}

func (c *Controller) onDeleteResult(m *pendingMutation, err error) {
	st := &c.st
	delete(st.mutations, m.itemID)
	if err != nil && isCanceled(err) {
		return
	}
	st.dirty = true

	if err != nil {
		c.log.Warn("delete failed, rolling back", zap.String("id", m.itemID), zap.Error(err))
		st.status = Status{Kind: StatusError, Text: mutationMessage(err)}
		st.lastMutation = &MutationResult{ItemID: m.itemID, Kind: MutationDelete, Outcome: OutcomeRolledBack, Err: err}
		if st.shown != m.shown {
			// The list on screen came from another query; only the server knows
			// where the course belongs now.
			c.submit(st.requested, true)
			st.status = Status{Kind: StatusError, Text: mutationMessage(err)}
			return
		}
		if st.indexOf(m.itemID) < 0 {
			at := m.prevIndex
			if at > len(st.items) {
				at = len(st.items)
			}
			st.items = append(st.items[:at], append([]model.Course{m.prev}, st.items[at:]...)...)
			st.pag = withTotal(st.pag, st.pag.Total+1)
		}
		return
	}

	m.confirmedAt = st.tick()
	st.confirmed = append(st.confirmed, m)
	st.lastMutation = &MutationResult{ItemID: m.itemID, Kind: MutationDelete, Outcome: OutcomeApplied}
	// Totals and page boundaries may have shifted; refresh through the sequencer.
	c.submit(st.requested, true)
	st.status = Status{Kind: StatusInfo, Text: MsgCourseDeleted}
}

// withTotal updates totals without moving the current page.
func withTotal(p model.Pagination, total int) model.Pagination {
	if total < 0 {
		total = 0
	}
	p.Total = total
	p.LastPage = model.LastPage(total, p.Limit)
	p.HasPrev = p.Page > 1
	p.HasNext = p.Page < p.LastPage
	return p
}

// mergeCourse lets non-empty server fields override the local copy.
func mergeCourse(local, server model.Course) model.Course {
	if server.Title != "" {
		local.Title = server.Title
	}
	if server.Category != "" {
		local.Category = server.Category
	}
	if server.TeacherID != "" {
		local.TeacherID = server.TeacherID
	}
	if server.CreatedAt != nil {
		local.CreatedAt = server.CreatedAt
	}
	return local
}
