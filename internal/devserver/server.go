// Package devserver is an in-memory implementation of the course catalog REST
// contract. It backs `catalog dev-server` and the HTTP tests.
package devserver

import (
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"catalog-cli/internal/api"
	"catalog-cli/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	// Latency is added to every request; Jitter adds a random extra delay in [0, Jitter).
	// Together they reproduce out-of-order responses.
	Latency time.Duration
	Jitter  time.Duration

	// RequireSession, when set, makes every route answer 401 unless the session cookie
	// carries this value.
	RequireSession string

	Seed   []Record
	Logger *zap.Logger
}

// Record is one stored course.
type Record struct {
	model.CourseDetail
	TeacherID string
	CreatedAt time.Time
}

func (r Record) card() model.Course {
	created := r.CreatedAt
	return model.Course{ID: r.ID, Title: r.Title, Category: r.Category, TeacherID: r.TeacherID, CreatedAt: &created}
}

type progressKey struct {
	courseID string
	itemID   string
}

type failure struct {
	status int
	body   string
}

type Server struct {
	opts Options
	log  *zap.Logger

	mu       sync.Mutex
	courses  []Record
	progress map[progressKey]model.ProgressUpdate
	failNext map[string]failure
	rnd      *rand.Rand

	engine *gin.Engine
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	seed := opts.Seed
	if seed == nil {
		seed = SeedRecords(time.Now().UTC())
	}
	s := &Server{
		opts:     opts,
		log:      log,
		courses:  append([]Record(nil), seed...),
		progress: map[progressKey]model.ProgressUpdate{},
		failNext: map[string]failure{},
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// FailNext makes the next request matching method and path (e.g. "PATCH", "/courses/c2")
// answer with status and body.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[method+" "+path] = failure{status: status, body: body}
}

// Courses returns a snapshot of the stored list cards.
func (s *Server) Courses() []model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Course, 0, len(s.courses))
	for _, r := range s.courses {
		out = append(out, r.card())
	}
	return out
}

// Progress returns the stored progress for one course item.
func (s *Server) Progress(courseID, itemID string) (model.ProgressUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[progressKey{courseID: courseID, itemID: itemID}]
	return p, ok
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests(), s.delay(), s.injectFailures(), s.requireSession())

	courses := r.Group("/courses")
	{
		courses.GET("", s.listCourses)
		courses.GET("/:id", s.getCourse)
		courses.PATCH("/:id", s.updateCourse)
		courses.DELETE("/:id", s.deleteCourse)
		courses.PUT("/:id/items/:itemId/progress", s.updateProgress)
	}
	return r
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
	}
}

func (s *Server) delay() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := s.opts.Latency
		if s.opts.Jitter > 0 {
			s.mu.Lock()
			d += time.Duration(s.rnd.Int63n(int64(s.opts.Jitter)))
			s.mu.Unlock()
		}
		if d <= 0 {
			return
		}
		select {
		case <-time.After(d):
		case <-c.Request.Context().Done():
			c.Abort()
		}
	}
}

func (s *Server) injectFailures() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.Request.URL.Path
		s.mu.Lock()
		f, ok := s.failNext[key]
		if ok {
			delete(s.failNext, key)
		}
		s.mu.Unlock()
		if ok {
			c.String(f.status, f.body)
			c.Abort()
		}
	}
}

func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.RequireSession == "" {
			return
		}
		v, err := c.Cookie(api.SessionCookie)
		if err != nil || v != s.opts.RequireSession {
			writeError(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
		}
	}
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func (s *Server) listCourses(c *gin.Context) {
	page, err := positiveInt(c.Query("page"), 1)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid page")
		return
	}
	limit, err := positiveInt(c.Query("limit"), model.DefaultPageSize)
	if err != nil || limit > 100 {
		writeError(c, http.StatusBadRequest, "invalid limit")
		return
	}
	sortKey := strings.TrimSpace(c.Query("sort"))
	less, ok := sorters[sortKey]
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid sort")
		return
	}

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	category := strings.TrimSpace(c.Query("category"))
	teacherID := strings.TrimSpace(c.Query("teacherId"))

	s.mu.Lock()
	matched := make([]Record, 0, len(s.courses))
	for _, r := range s.courses {
		if search != "" && !strings.Contains(strings.ToLower(r.Title), search) {
			continue
		}
		if category != "" && !strings.EqualFold(r.Category, category) {
			continue
		}
		if teacherID != "" && r.TeacherID != teacherID {
			continue
		}
		matched = append(matched, r)
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j]) })

	items := []model.Course{}
	// Pages past the end are empty; comparing page counts keeps (page-1)*limit
	// from overflowing.
	if page-1 < (len(matched)+limit-1)/limit {
		start := (page - 1) * limit
		for _, r := range matched[start:min(start+limit, len(matched))] {
			items = append(items, r.card())
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(matched),
		"page":  page,
		"limit": limit,
	})
}

var sorters = map[string]func(a, b Record) bool{
	"":               func(a, b Record) bool { return a.CreatedAt.After(b.CreatedAt) },
	"createdAt_desc": func(a, b Record) bool { return a.CreatedAt.After(b.CreatedAt) },
	"createdAt_asc":  func(a, b Record) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"title_asc":      func(a, b Record) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) },
	"title_desc":     func(a, b Record) bool { return strings.ToLower(a.Title) > strings.ToLower(b.Title) },
}

func positiveInt(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func (s *Server) find(id string) int {
	for i, r := range s.courses {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getCourse(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(c.Param("id"))
	if i < 0 {
		writeError(c, http.StatusNotFound, "course not found")
		return
	}
	detail := s.courses[i].CourseDetail
	if detail.Modules == nil {
		detail.Modules = []model.Module{}
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) updateCourse(c *gin.Context) {
	var in struct {
		Title *string `json:"title"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		writeError(c, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(c.Param("id"))
	if i < 0 {
		writeError(c, http.StatusNotFound, "course not found")
		return
	}
	s.courses[i].Title = strings.TrimSpace(*in.Title)
	c.JSON(http.StatusOK, s.courses[i].card())
}

func (s *Server) deleteCourse(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(c.Param("id"))
	if i < 0 {
		c.String(http.StatusNotFound, "course not found")
		return
	}
	s.courses = append(s.courses[:i], s.courses[i+1:]...)
	c.String(http.StatusOK, "Course deleted")
}

func (s *Server) updateProgress(c *gin.Context) {
	var in struct {
		Status string  `json:"status"`
		Score  float64 `json:"score"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	status, err := model.ParseProgressStatus(in.Status)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid status")
		return
	}

	courseID, itemID := c.Param("id"), c.Param("itemId")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(courseID)
	if i < 0 {
		writeError(c, http.StatusNotFound, "course not found")
		return
	}
	if _, ok := s.courses[i].FindItem(itemID); !ok {
		writeError(c, http.StatusNotFound, "item not found")
		return
	}
	s.progress[progressKey{courseID: courseID, itemID: itemID}] = model.ProgressUpdate{Status: status, Score: in.Score}
	c.JSON(http.StatusOK, gin.H{"message": "progress updated"})
}
