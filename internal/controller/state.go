package controller

import (
	"sort"

	"catalog-cli/internal/model"
)

// RequestToken identifies one issued list or detail request. Tokens come from a
// single counter, so they are totally ordered by issue time.
type RequestToken uint64

type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusLoading
	StatusInfo
	StatusError
)

type Status struct {
	Kind StatusKind
	Text string
}

type MutationKind string

const (
	MutationEdit     MutationKind = "edit"
	MutationDelete   MutationKind = "delete"
	MutationProgress MutationKind = "progress"
)

type MutationOutcome string

const (
	OutcomePending    MutationOutcome = "pending"
	OutcomeApplied    MutationOutcome = "applied"
	OutcomeRolledBack MutationOutcome = "rolled_back"
	OutcomeRejected   MutationOutcome = "rejected"
)

// MutationResult describes the most recent mutation only.
type MutationResult struct {
	ItemID  string
	Kind    MutationKind
	Outcome MutationOutcome
	Err     error
}

type DetailState struct {
	CourseID string
	Course   *model.CourseDetail
	Loading  bool
	Status   Status
	// Busy lists item ids with a progress update in flight.
	Busy []string
	// Progress holds updates confirmed during this session, keyed by item id.
	Progress map[string]model.ProgressUpdate
}

func (d DetailState) IsBusy(itemID string) bool {
	for _, b := range d.Busy {
		if b == itemID {
			return true
		}
	}
	return false
}

// ViewState is everything the renderer needs. It is a copy; renderers may keep it.
type ViewState struct {
	Version uint64

	// Query is the draft: the latest field values, triggered or not.
	Query model.QueryState
	// Applied is the query whose response is on screen.
	Applied model.QueryState

	Items      []model.Course
	Pagination model.Pagination
	Status     Status
	Loading    bool

	// ConfirmDelete is the course id waiting for delete confirmation.
	ConfirmDelete string
	// Busy lists course ids with a mutation in flight.
	Busy []string

	LastMutation *MutationResult
	Detail       *DetailState
}

func (v ViewState) IsBusy(id string) bool {
	for _, b := range v.Busy {
		if b == id {
			return true
		}
	}
	return false
}

type pendingMutation struct {
	itemID string
	kind   MutationKind

	issuedAt    uint64
	confirmedAt uint64

	// shown is the on-screen query when the mutation started.
	shown     model.QueryState
	prev      model.Course
	prevIndex int
	title     string
	result    *model.Course
}

type detailState struct {
	token    RequestToken
	courseID string
	course   *model.CourseDetail
	loading  bool
	status   Status
	busy     map[string]bool
	progress map[string]model.ProgressUpdate
}

// controllerState is owned by the loop goroutine; nothing else touches it.
type controllerState struct {
	clock uint64

	draft     model.QueryState
	requested model.QueryState
	shown     model.QueryState
	current   RequestToken

	items   []model.Course
	pag     model.Pagination
	status  Status
	loading bool

	confirmDelete string
	mutations     map[string]*pendingMutation
	confirmed     []*pendingMutation
	lastMutation  *MutationResult

	debounceSeq     uint64
	debouncePending bool

	detail *detailState

	inflight int
	version  uint64
	dirty    bool
	waiters  []chan struct{}
}

func (st *controllerState) tick() uint64 {
	st.clock++
	return st.clock
}

func (st *controllerState) indexOf(id string) int {
	for i, it := range st.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (st *controllerState) snapshot() ViewState {
	st.version++
	vs := ViewState{
		Version:       st.version,
		Query:         st.draft,
		Applied:       st.shown,
		Items:         append([]model.Course(nil), st.items...),
		Pagination:    st.pag,
		Status:        st.status,
		Loading:       st.loading,
		ConfirmDelete: st.confirmDelete,
	}
	for id := range st.mutations {
		vs.Busy = append(vs.Busy, id)
	}
	sort.Strings(vs.Busy)
	if st.lastMutation != nil {
		lm := *st.lastMutation
		vs.LastMutation = &lm
	}
	if d := st.detail; d != nil {
		ds := &DetailState{
			CourseID: d.courseID,
			Loading:  d.loading,
			Status:   d.status,
			Progress: map[string]model.ProgressUpdate{},
		}
		if d.course != nil {
			c := *d.course
			ds.Course = &c
		}
		for id := range d.busy {
			ds.Busy = append(ds.Busy, id)
		}
		sort.Strings(ds.Busy)
		for k, v := range d.progress {
			ds.Progress[k] = v
		}
		vs.Detail = ds
	}
	return vs
}
