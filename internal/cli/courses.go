package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"catalog-cli/internal/api"
	"catalog-cli/internal/format"
	"catalog-cli/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newCoursesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "Course commands",
	}

	cmd.AddCommand(newCoursesListCmd(app))
	cmd.AddCommand(newCoursesShowCmd(app))
	cmd.AddCommand(newCoursesEditCmd(app))
	cmd.AddCommand(newCoursesDeleteCmd(app))

	return cmd
}

func newCoursesListCmd(app *App) *cobra.Command {
	var q model.QueryState
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses (filters match the TUI search form)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if limit <= 0 {
				limit = cfg.Query.PageSize
			}
			if limit > 100 {
				return writeErr(cmd, errInvalidArg("--limit", "must be at most 100"))
			}
			if !cmd.Flags().Changed("sort") {
				q.Sort = cfg.Query.DefaultSort
			}
			q = q.Normalize()

			ctx, cancel := commandContext(cmd, cfg.API.Timeout)
			defer cancel()

			var out format.CourseList
			if all {
				out, err = listAllPages(ctx, client, q, limit)
			} else {
				out, err = listPage(ctx, client, q, limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			var hints []string
			if !all && out.Pagination.HasNext {
				hints = append(hints, fmt.Sprintf("more results: add --page %d (or --all)", out.Pagination.Page+1))
			}
			return writeOut(cmd, app, format.Envelope{Data: out, Meta: map[string]any{"query": q}, Hints: hints})
		},
	}

	cmd.Flags().StringVar(&q.Search, "search", "", "Title substring")
	cmd.Flags().StringVar(&q.Category, "category", "", "Category")
	cmd.Flags().StringVar(&q.TeacherID, "teacher", "", "Teacher id")
	cmd.Flags().StringVar(&q.Sort, "sort", model.DefaultSort, "Sort key ("+strings.Join(model.KnownSorts, "|")+")")
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default: query.page_size)")
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every page")
	return cmd
}

func listPage(ctx context.Context, client *api.Client, q model.QueryState, limit int) (format.CourseList, error) {
	page, err := client.ListCourses(ctx, q, limit)
	if err != nil {
		return format.CourseList{}, err
	}
	pag, _ := model.NewPagination(page.Page, page.Limit, page.Total)
	return format.CourseList{Items: page.Items, Pagination: pag}, nil
}

// maxAllPages bounds --all. The page count comes from the server's total.
const maxAllPages = 200

// listAllPages fetches page 1, then the remaining pages concurrently, and
// concatenates them in page order.
func listAllPages(ctx context.Context, client *api.Client, q model.QueryState, limit int) (format.CourseList, error) {
	first, err := client.ListCourses(ctx, q.WithPage(1), limit)
	if err != nil {
		return format.CourseList{}, err
	}
	last := model.LastPage(first.Total, first.Limit)
	if last > maxAllPages {
		return format.CourseList{}, fmt.Errorf("--all would fetch %d pages (max %d); narrow the query or raise --limit", last, maxAllPages)
	}
	pages := make([][]model.Course, last)
	pages[0] = first.Items

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for p := 2; p <= last; p++ {
		p := p
		g.Go(func() error {
			page, err := client.ListCourses(gctx, q.WithPage(p), limit)
			if err != nil {
				return fmt.Errorf("page %d: %w", p, err)
			}
			pages[p-1] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return format.CourseList{}, err
	}

	n := 0
	for _, p := range pages {
		n += len(p)
	}
	items := make([]model.Course, 0, n)
	for _, p := range pages {
		items = append(items, p...)
	}
	// Every page is in hand, so there is nothing left to navigate to.
	pag := model.Pagination{Page: 1, LastPage: last, Limit: first.Limit, Total: first.Total}
	return format.CourseList{Items: items, Pagination: pag}, nil
}

func newCoursesShowCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show a course with its modules and items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return writeErr(cmd, errInvalidArg("course id", "must not be empty"))
			}
			client, cfg, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := commandContext(cmd, cfg.API.Timeout)
			defer cancel()

			d, err := client.GetCourse(ctx, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			var hints []string
			if len(d.Modules) == 0 {
				hints = append(hints, "No modules yet.")
			}
			return writeOut(cmd, app, format.Envelope{Data: format.CourseView{CourseDetail: d, Width: width}, Hints: hints})
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for text output")
	return cmd
}

func newCoursesEditCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "edit <course-id>",
		Short: "Rename a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			t := strings.TrimSpace(title)
			if t == "" {
				return writeErr(cmd, errInvalidArg("--title", "must not be empty"))
			}
			client, cfg, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := commandContext(cmd, cfg.API.Timeout)
			defer cancel()

			course, err := client.UpdateCourseTitle(ctx, id, t)
			if err != nil {
				return writeErr(cmd, err)
			}
			var data any = map[string]string{"id": id, "title": t}
			if course != nil {
				data = course
			}
			return writeOut(cmd, app, format.Envelope{Data: data})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCoursesDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course (asks for confirmation unless --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return writeErr(cmd, errInvalidArg("course id", "must not be empty"))
			}
			client, cfg, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete course %s? [y/N] ", id)) {
				return writeErr(cmd, errDeleteNotConfirmed)
			}

			ctx, cancel := commandContext(cmd, cfg.API.Timeout)
			defer cancel()
			if err := client.DeleteCourse(ctx, id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"id": id, "deleted": true}})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm reads one line from stdin; only y or yes (any case) confirms.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
