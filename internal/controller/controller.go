// Package controller turns catalog input into list requests and optimistic
// mutations, and reconciles their responses into one ViewState.
//
// All state lives on a single loop goroutine. Public methods enqueue an op and
// return immediately; network calls run on their own goroutines and post their
// results back to the queue, tagged with the token they were issued under.
package controller

import (
	"context"
	"sync"
	"time"

	"catalog-cli/internal/model"

	"go.uber.org/zap"
)

// Catalog is the part of the HTTP client the controller drives.
type Catalog interface {
	ListCourses(ctx context.Context, q model.QueryState, limit int) (model.Page, error)
	GetCourse(ctx context.Context, id string) (model.CourseDetail, error)
	UpdateCourseTitle(ctx context.Context, id, title string) (*model.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	UpdateProgress(ctx context.Context, courseID, itemID string, in model.ProgressUpdate) error
}

type Renderer interface {
	Render(ViewState)
}

type RenderFunc func(ViewState)

func (f RenderFunc) Render(v ViewState) { f(v) }

type Config struct {
	PageSize    int
	QuietWindow time.Duration
	DefaultSort string
	// ClearOnSubmit empties the list as soon as a new query is issued instead of
	// keeping the last good page until the response arrives.
	ClearOnSubmit bool
	Logger        *zap.Logger
}

type Controller struct {
	api    Catalog
	render Renderer
	cfg    Config
	log    *zap.Logger

	deb   *Debouncer
	queue *opQueue
	st    controllerState

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	loopDone chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
}

func New(catalog Catalog, render Renderer, cfg Config) *Controller {
	if cfg.PageSize <= 0 {
		cfg.PageSize = model.DefaultPageSize
	}
	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = 300 * time.Millisecond
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = model.DefaultSort
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if render == nil {
		render = RenderFunc(func(ViewState) {})
	}

	c := &Controller{
		api:      catalog,
		render:   render,
		cfg:      cfg,
		log:      log,
		queue:    newOpQueue(),
		loopDone: make(chan struct{}),
	}
	c.deb = NewDebouncer(cfg.QuietWindow, func(seq uint64) {
		c.post(func() { c.onDebounce(seq) })
	})

	initial := model.QueryState{Sort: cfg.DefaultSort, Page: 1}
	c.st.draft = initial
	c.st.requested = initial
	c.st.shown = initial
	c.st.pag, _ = model.NewPagination(1, cfg.PageSize, 0)
	c.st.mutations = map[string]*pendingMutation{}
	return c
}

// Start runs the loop until ctx is done or Close is called.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.ctx, c.cancel = context.WithCancel(ctx)
		go c.loop()
	})
}

// Close stops the debounce timer, cancels in-flight requests and waits for them.
// No callback reaches the renderer after Close returns.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.deb.Stop()
		// A Start after Close must not launch the loop.
		c.startOnce.Do(func() {})
		if c.cancel != nil {
			c.cancel()
			<-c.loopDone
		} else {
			close(c.loopDone)
		}
		c.queue.close()
		c.wg.Wait()
	})
}

// Sync blocks until no request, mutation or debounce is pending.
func (c *Controller) Sync(ctx context.Context) error {
	ch := make(chan struct{})
	if !c.post(func() { c.st.waiters = append(c.st.waiters, ch) }) {
		return ErrClosed
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.loopDone:
		return ErrClosed
	}
}

func (c *Controller) post(op func()) bool {
	return c.queue.push(op)
}

func (c *Controller) loop() {
	defer close(c.loopDone)
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.queue.wake:
		}
		for {
			if c.ctx.Err() != nil {
				return
			}
			op, ok := c.queue.pop()
			if !ok {
				break
			}
			op()
			c.flush()
		}
		c.releaseWaiters()
	}
}

func (c *Controller) flush() {
	if !c.st.dirty {
		return
	}
	c.st.dirty = false
	c.render.Render(c.st.snapshot())
}

func (c *Controller) releaseWaiters() {
	st := &c.st
	if len(st.waiters) == 0 || st.inflight > 0 || st.debouncePending || !c.queue.empty() {
		return
	}
	for _, ch := range st.waiters {
		close(ch)
	}
	st.waiters = nil
}

// spawn runs a request off the loop. run returns the op that reconciles its result;
// that op is queued like any other, so results apply one at a time.
func (c *Controller) spawn(run func(ctx context.Context) func()) {
	c.st.inflight++
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		done := run(c.ctx)
		c.post(func() {
			c.st.inflight--
			done()
		})
	}()
}
