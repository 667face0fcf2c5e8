package cli

import (
	"strings"

	"catalog-cli/internal/format"
	"catalog-cli/internal/model"

	"github.com/spf13/cobra"
)

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Learner progress commands",
	}
	cmd.AddCommand(newProgressSetCmd(app))
	return cmd
}

func newProgressSetCmd(app *App) *cobra.Command {
	var status string
	var score float64

	cmd := &cobra.Command{
		Use:   "set <course-id> <item-id>",
		Short: "Record progress on one course item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID := strings.TrimSpace(args[0])
			itemID := strings.TrimSpace(args[1])
			ps, err := model.ParseProgressStatus(status)
			if err != nil {
				return writeErr(cmd, errInvalidArg("--status", err.Error()))
			}
			if score < 0 {
				return writeErr(cmd, errInvalidArg("--score", "must not be negative"))
			}
			client, cfg, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, cancel := commandContext(cmd, cfg.API.Timeout)
			defer cancel()

			in := model.ProgressUpdate{Status: ps, Score: score}
			if err := client.UpdateProgress(ctx, courseID, itemID, in); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{
				"courseId": courseID,
				"itemId":   itemID,
				"status":   in.Status,
				"score":    in.Score,
			}})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "not_started|in_progress|done")
	cmd.Flags().Float64Var(&score, "score", 0, "Score (0 when not graded)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}
