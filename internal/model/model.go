package model

import (
	"errors"
	"strings"
	"time"
)

// Course is one card in the catalog list. Identity is ID.
type Course struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category,omitempty"`
	TeacherID string     `json:"teacherId,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type Item struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Type     string  `json:"type,omitempty"`
	MaxScore float64 `json:"maxScore"`
}

type Module struct {
	Title string `json:"title"`
	Order int    `json:"order"`
	Items []Item `json:"items"`
}

type CourseDetail struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Modules  []Module `json:"modules"`
}

// ItemCount returns the number of items across all modules.
func (c CourseDetail) ItemCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Items)
	}
	return n
}

// FindItem looks up an item by id across modules.
func (c CourseDetail) FindItem(id string) (Item, bool) {
	id = strings.TrimSpace(id)
	for _, m := range c.Modules {
		for _, it := range m.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Page is one page of the list endpoint.
type Page struct {
	Items []Course `json:"items"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Total int      `json:"total"`
}

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressDone       ProgressStatus = "done"
)

var ProgressStatuses = []ProgressStatus{ProgressNotStarted, ProgressInProgress, ProgressDone}

var ErrInvalidProgressStatus = errors.New("invalid status (want not_started|in_progress|done)")

func ParseProgressStatus(s string) (ProgressStatus, error) {
	switch ProgressStatus(strings.TrimSpace(s)) {
	case ProgressNotStarted:
		return ProgressNotStarted, nil
	case ProgressInProgress:
		return ProgressInProgress, nil
	case ProgressDone:
		return ProgressDone, nil
	default:
		return "", ErrInvalidProgressStatus
	}
}

type ProgressUpdate struct {
	Status ProgressStatus `json:"status"`
	Score  float64        `json:"score"`
}
