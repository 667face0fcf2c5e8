package controller

import (
	"context"
	"strings"

	"catalog-cli/internal/model"

	"go.uber.org/zap"
)

// SetField records a filter edit right away and schedules a debounced reload.
func (c *Controller) SetField(f model.Field, value string) {
	c.post(func() {
		st := &c.st
		st.draft = st.draft.With(f, value)
		st.debounceSeq = c.deb.Notify()
		st.debouncePending = true
		st.dirty = true
	})
}

// SetSort changes the sort key and reloads immediately.
func (c *Controller) SetSort(sort string) {
	c.post(func() {
		c.st.draft.Sort = strings.TrimSpace(sort)
		c.trigger()
	})
}

// Search reloads with the current draft now, dropping any pending debounce.
func (c *Controller) Search() {
	c.post(c.trigger)
}

// ResetFilters clears every filter, restores the default sort and reloads.
func (c *Controller) ResetFilters() {
	c.post(func() {
		c.st.draft = model.QueryState{Sort: c.cfg.DefaultSort, Page: 1}
		c.trigger()
	})
}

// Submit issues q as-is (including its page), replacing the draft.
func (c *Controller) Submit(q model.QueryState) {
	c.post(func() {
		c.cancelDebounce()
		c.st.draft = q.Normalize()
		c.submit(c.st.draft, true)
	})
}

// Reload re-issues the most recently requested query.
func (c *Controller) Reload() {
	c.post(func() {
		c.submit(c.st.requested, true)
	})
}

func (c *Controller) NextPage() {
	c.post(func() {
		if q, ok := c.navBase(); ok && q.Page < c.st.pag.LastPage {
			c.submit(q.WithPage(q.Page+1), true)
		}
	})
}

func (c *Controller) PrevPage() {
	c.post(func() {
		if q, ok := c.navBase(); ok && q.Page > 1 {
			c.submit(q.WithPage(q.Page-1), true)
		}
	})
}

func (c *Controller) GoToPage(page int) {
	c.post(func() {
		q, ok := c.navBase()
		if !ok || page < 1 || page > c.st.pag.LastPage || page == q.Page {
			return
		}
		c.submit(q.WithPage(page), true)
	})
}

// navBase is the query page navigation starts from. While a page of the same
// filters is loading it is that request, so a quick second keypress moves on
// from it. While a request for different filters is in flight the pagination
// on screen belongs to the old filters, and navigation is ignored.
func (c *Controller) navBase() (model.QueryState, bool) {
	st := &c.st
	if st.requested.WithPage(1) != st.shown.WithPage(1) {
		c.log.Debug("page navigation ignored while a new query loads",
			zap.String("requested", st.requested.Params(c.cfg.PageSize).Encode()))
		return model.QueryState{}, false
	}
	if st.loading {
		return st.requested, true
	}
	return st.shown, true
}

func (c *Controller) onDebounce(seq uint64) {
	st := &c.st
	if !st.debouncePending || seq != st.debounceSeq {
		return
	}
	st.debouncePending = false
	c.submit(st.draft.WithPage(1), true)
}

func (c *Controller) cancelDebounce() {
	if c.st.debouncePending {
		c.deb.Cancel()
		c.st.debouncePending = false
	}
}

// trigger is an explicit filter/sort change: back to page 1, right now.
func (c *Controller) trigger() {
	c.cancelDebounce()
	c.st.draft.Page = 1
	c.submit(c.st.draft, true)
}

// submit issues a list request under a fresh token and marks it current.
// allowClamp permits one automatic re-fetch when the server returns a page past the end.
func (c *Controller) submit(q model.QueryState, allowClamp bool) {
	st := &c.st
	q = q.Normalize()
	tok := RequestToken(st.tick())
	st.current = tok
	st.requested = q
	st.loading = true
	st.status = Status{Kind: StatusLoading, Text: MsgLoading}
	if c.cfg.ClearOnSubmit {
		st.items = nil
	}
	st.dirty = true

	c.log.Debug("list submit",
		zap.Uint64("token", uint64(tok)),
		zap.String("params", q.Params(c.cfg.PageSize).Encode()))

	limit := c.cfg.PageSize
	c.spawn(func(ctx context.Context) func() {
		page, err := c.api.ListCourses(ctx, q, limit)
		return func() { c.onListResult(tok, q, page, err, allowClamp) }
	})
}

func (c *Controller) onListResult(tok RequestToken, q model.QueryState, page model.Page, err error, allowClamp bool) {
	st := &c.st
	if tok != st.current {
		c.log.Debug("stale list response discarded",
			zap.Uint64("token", uint64(tok)), zap.Uint64("current", uint64(st.current)))
		return
	}
	if err != nil && isCanceled(err) {
		return
	}
	st.loading = false
	st.dirty = true

	if err != nil {
		c.log.Warn("list request failed", zap.Uint64("token", uint64(tok)), zap.Error(err))
		st.status = Status{Kind: StatusError, Text: StatusMessage(err)}
		return
	}

	limit := page.Limit
	if limit <= 0 {
		limit = c.cfg.PageSize
	}
	items, total := c.overlay(tok, page.Items, page.Total)
	pag, clamped := model.NewPagination(page.Page, limit, total)
	if clamped && allowClamp && len(items) == 0 && total > 0 {
		c.log.Debug("page out of range, refetching", zap.Int("page", page.Page), zap.Int("last", pag.LastPage))
		c.submit(q.WithPage(pag.Page), false)
		return
	}

	st.items = items
	st.pag = pag
	st.shown = q.WithPage(pag.Page)
	switch {
	case len(items) == 0:
		st.status = Status{Kind: StatusInfo, Text: MsgNoCourses}
	case st.status.Kind == StatusLoading:
		st.status = Status{}
	}
}

// overlay re-applies local mutations the server snapshot for tok may not reflect:
// everything still pending, and confirmed mutations stamped after tok was issued.
// Confirmed mutations older than tok are retired.
func (c *Controller) overlay(tok RequestToken, items []model.Course, total int) ([]model.Course, int) {
	st := &c.st

	active := make([]*pendingMutation, 0, len(st.confirmed)+len(st.mutations))
	kept := st.confirmed[:0]
	for _, m := range st.confirmed {
		if m.confirmedAt > uint64(tok) {
			kept = append(kept, m)
			active = append(active, m)
		}
	}
	for i := len(kept); i < len(st.confirmed); i++ {
		st.confirmed[i] = nil
	}
	st.confirmed = kept
	for _, m := range st.mutations {
		active = append(active, m)
	}
	if len(active) == 0 {
		return append([]model.Course(nil), items...), total
	}

	byID := map[string][]*pendingMutation{}
	for _, m := range active {
		byID[m.itemID] = append(byID[m.itemID], m)
	}

	out := make([]model.Course, 0, len(items))
	for _, it := range items {
		deleted := false
		for _, m := range byID[it.ID] {
			switch m.kind {
			case MutationDelete:
				deleted = true
			case MutationEdit:
				if m.result != nil {
					it = mergeCourse(it, *m.result)
				} else {
					it.Title = m.title
				}
			}
		}
		if deleted {
			total--
			continue
		}
		out = append(out, it)
	}
	if total < 0 {
		total = 0
	}
	return out, total
}
