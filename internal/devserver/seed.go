package devserver

import (
	"fmt"
	"time"

	"catalog-cli/internal/model"
)

var seedTitles = []struct {
	title    string
	category string
	teacher  string
}{
	{"Algebra I", "math", "t-100"},
	{"Geometry Basics", "math", "t-100"},
	{"Calculus for Engineers", "math", "t-101"},
	{"Linear Algebra", "math", "t-101"},
	{"Intro to Go", "programming", "t-200"},
	{"Concurrency Patterns", "programming", "t-200"},
	{"Databases 101", "programming", "t-201"},
	{"Distributed Systems", "programming", "t-201"},
	{"World History", "history", "t-300"},
	{"Ancient Rome", "history", "t-300"},
	{"Modern Europe", "history", "t-301"},
	{"Organic Chemistry", "science", "t-400"},
	{"Physics: Mechanics", "science", "t-401"},
	{"Astronomy Tonight", "science", "t-401"},
	{"Creative Writing", "language", "t-500"},
	{"English Grammar", "language", "t-500"},
	{"Spanish A1", "language", "t-501"},
	{"Statistics with R", "math", "t-102"},
	{"Music Theory", "arts", "t-600"},
	{"Drawing Fundamentals", "arts", "t-600"},
}

// SeedRecords returns a deterministic catalog; the first title is the newest.
func SeedRecords(now time.Time) []Record {
	out := make([]Record, 0, len(seedTitles))
	for i, s := range seedTitles {
		id := fmt.Sprintf("%024x", i+1)
		out = append(out, Record{
			CourseDetail: model.CourseDetail{
				ID:       id,
				Title:    s.title,
				Category: s.category,
				Modules:  seedModules(id, i),
			},
			TeacherID: s.teacher,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}

func seedModules(courseID string, n int) []model.Module {
	if n%5 == 4 {
		// Some courses have no modules yet.
		return []model.Module{}
	}
	mods := make([]model.Module, 0, 2)
	for m := 0; m < 2; m++ {
		items := []model.Item{
			{ID: fmt.Sprintf("%s-%d-1", courseID[18:], m+1), Title: "Lecture", Type: "video", MaxScore: 0},
			{ID: fmt.Sprintf("%s-%d-2", courseID[18:], m+1), Title: "Quiz", Type: "quiz", MaxScore: 10},
		}
		mods = append(mods, model.Module{Title: fmt.Sprintf("Module %d", m+1), Order: m + 1, Items: items})
	}
	return mods
}
