package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog-cli/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SessionCookie = "session_token"

type Options struct {
	BaseURL      string
	Timeout      time.Duration
	SessionToken string
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

type Client struct {
	httpClient *http.Client
	base       string
	session    string
	log        *zap.Logger
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: hc,
		base:       strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		session:    strings.TrimSpace(opts.SessionToken),
		log:        log,
	}
}

func (c *Client) ListCourses(ctx context.Context, q model.QueryState, limit int) (model.Page, error) {
	var out struct {
		Items []model.Course `json:"items"`
		Total int            `json:"total"`
		Page  int            `json:"page"`
		Limit int            `json:"limit"`
	}
	params := q.Params(limit)
	if err := c.request(ctx, http.MethodGet, "/courses?"+params.Encode(), nil, &out); err != nil {
		return model.Page{}, err
	}
	p := model.Page{Items: out.Items, Total: out.Total, Page: out.Page, Limit: out.Limit}
	if p.Items == nil {
		p.Items = []model.Course{}
	}
	// Older backends omit paging fields; fall back to what we asked for.
	if p.Page <= 0 {
		p.Page = q.Normalize().Page
	}
	if p.Limit <= 0 {
		p.Limit = limit
	}
	return p, nil
}

func (c *Client) GetCourse(ctx context.Context, id string) (model.CourseDetail, error) {
	var out model.CourseDetail
	if err := c.request(ctx, http.MethodGet, "/courses/"+url.PathEscape(id), nil, &out); err != nil {
		return model.CourseDetail{}, err
	}
	return out, nil
}

// UpdateCourseTitle sends a partial update. When the backend answers with a JSON course
// it is returned so callers can pick up server-side corrections; otherwise nil.
func (c *Client) UpdateCourseTitle(ctx context.Context, id, title string) (*model.Course, error) {
	body := map[string]string{"title": title}
	var raw json.RawMessage
	if err := c.request(ctx, http.MethodPatch, "/courses/"+url.PathEscape(id), body, &raw); err != nil {
		return nil, err
	}
	var course model.Course
	if len(raw) == 0 || json.Unmarshal(raw, &course) != nil || course.ID == "" {
		return nil, nil
	}
	return &course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, "/courses/"+url.PathEscape(id), nil, nil)
}

func (c *Client) UpdateProgress(ctx context.Context, courseID, itemID string, in model.ProgressUpdate) error {
	path := "/courses/" + url.PathEscape(courseID) + "/items/" + url.PathEscape(itemID) + "/progress"
	return c.request(ctx, http.MethodPut, path, in, nil)
}

// request performs one JSON round trip. out may be nil, or a *json.RawMessage to accept
// any (including non-JSON) success body.
func (c *Client) request(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.session})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Debug("api transport error",
			zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("api response",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("dur", time.Since(start)),
		zap.String("request_id", reqID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := errorText(payload)
		if resp.StatusCode == http.StatusUnauthorized {
			return &AuthError{Message: msg}
		}
		return &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{Op: method + " " + path, Err: err}
		}
		*raw = b
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return &TransportError{Op: method + " " + path, Err: err}
		}
		return &ServerError{StatusCode: resp.StatusCode, Message: "invalid response: " + err.Error()}
	}
	return nil
}

// errorText extracts a human message from an error body: {"error": ...} or
// {"message": ...} JSON, otherwise the trimmed text.
func errorText(payload []byte) string {
	s := strings.TrimSpace(string(payload))
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "{") {
		var obj map[string]any
		if json.Unmarshal(payload, &obj) == nil {
			for _, k := range []string{"error", "message"} {
				if v, ok := obj[k].(string); ok && strings.TrimSpace(v) != "" {
					return strings.TrimSpace(v)
				}
			}
		}
	}
	return s
}
