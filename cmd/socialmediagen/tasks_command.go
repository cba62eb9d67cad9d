package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"socialmediagen/internal/taskqueue"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show the background image task history",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters []taskqueue.Status
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				for _, part := range strings.Split(trimmed, ",") {
					status, ok := taskqueue.ParseStatus(part)
					if !ok {
						return fmt.Errorf("unknown status %q (known: %s)", part, knownStatuses())
					}
					filters = append(filters, status)
				}
			}

			return ctx.withSession(func(sess *session) error {
				out := cmd.OutOrStdout()
				tasks, err := sess.ledger.List(cmd.Context(), filters...)
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No background tasks recorded.")
					return nil
				}

				rows := make([][]string, 0, len(tasks))
				for _, task := range tasks {
					duration := "-"
					if task.StartedAt != nil && task.CompletedAt != nil {
						duration = task.CompletedAt.Sub(*task.StartedAt).Round(100 * time.Millisecond).String()
					}
					detail := task.ImageURL
					if task.ErrorMessage != "" {
						detail = task.ErrorMessage
					}
					rows = append(rows, []string{
						strconv.Itoa(task.SlideNumber),
						colorizeStatus(string(task.Status)),
						truncate(task.Prompt, 36),
						duration,
						fmt.Sprintf("$%.3f", task.Cost),
						truncate(detail, 44),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Slide", "Status", "Prompt", "Duration", "Cost", "Result"},
					rows, 1, 4, 5,
				))

				total, err := sess.ledger.TotalCost(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Total image spend: $%.3f\n", total)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Comma-separated status filter ("+knownStatuses()+")")
	return cmd
}

func knownStatuses() string {
	all := taskqueue.AllStatuses()
	parts := make([]string, 0, len(all))
	for _, status := range all {
		parts = append(parts, string(status))
	}
	return strings.Join(parts, ", ")
}
