package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCanvasCommand(ctx *commandContext) *cobra.Command {
	canvasCmd := &cobra.Command{
		Use:   "canvas",
		Short: "Inspect and edit the slide list",
	}

	canvasCmd.AddCommand(newCanvasListCommand(ctx))
	canvasCmd.AddCommand(newCanvasAddCommand(ctx))
	canvasCmd.AddCommand(newCanvasRemoveCommand(ctx))
	canvasCmd.AddCommand(newCanvasDuplicateCommand(ctx))
	canvasCmd.AddCommand(newCanvasReorderCommand(ctx))
	canvasCmd.AddCommand(newCanvasActivateCommand(ctx))

	return canvasCmd
}

func newCanvasListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the slides in the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(sess *session) error {
				out := cmd.OutOrStdout()
				project := sess.orch.Project()
				if project.SlideCount() == 0 {
					fmt.Fprintln(out, "No project in the workspace; run `socialmediagen generate` first.")
					return nil
				}

				rows := make([][]string, 0, project.SlideCount())
				for _, c := range project.Canvases {
					active := ""
					if c.IsActive {
						active = "*"
					}
					background := "image"
					if c.HasPlaceholderBackground() {
						background = "placeholder"
					}
					status := "ready"
					if state, ok := sess.orch.LoadingState(c.ID); ok {
						switch {
						case state.Error != "":
							status = "error"
						case state.IsImageLoading:
							status = "loading"
						case state.IsImageLoaded:
							status = "loaded"
						}
					}
					rows = append(rows, []string{
						strconv.Itoa(c.SlideNumber),
						active,
						truncate(c.Title, 40),
						background,
						colorizeStatus(status),
					})
				}

				fmt.Fprintf(out, "%s (%d slides, %s backgrounds)\n", project.Name, project.SlideCount(), project.BackgroundStrategy)
				fmt.Fprintln(out, renderTable([]string{"#", "Active", "Title", "Background", "Status"}, rows, 1))
				return nil
			})
		},
	}
}

func newCanvasAddCommand(ctx *commandContext) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a new empty slide",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(sess *session) error {
				out := cmd.OutOrStdout()
				index := position - 1
				if position <= 0 {
					index = -1
				}
				id := sess.orch.AddCanvas(cmd.Context(), index)
				if id == "" {
					fmt.Fprintln(out, "Slide limit reached; nothing added.")
					return nil
				}
				c, _ := sess.orch.Project().CanvasByID(id)
				fmt.Fprintf(out, "Added slide %d\n", c.SlideNumber)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&position, "position", "p", 0, "1-based position for the new slide (default: end)")
	return cmd
}

func newCanvasRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <canvas>",
		Aliases: []string{"rm"},
		Short:   "Delete a slide",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(sess *session) error {
				id, err := resolveCanvasID(sess, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !sess.orch.RemoveCanvas(cmd.Context(), id) {
					fmt.Fprintln(out, "A project keeps at least one slide; nothing removed.")
					return nil
				}
				fmt.Fprintf(out, "Removed slide; %d remaining\n", sess.orch.Project().SlideCount())
				return nil
			})
		},
	}
}

func newCanvasDuplicateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "duplicate <canvas>",
		Aliases: []string{"dup"},
		Short:   "Clone a slide's content into a new slide after it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(sess *session) error {
				id, err := resolveCanvasID(sess, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				newID := sess.orch.DuplicateCanvas(cmd.Context(), id)
				if newID == "" {
					fmt.Fprintln(out, "Slide limit reached; nothing duplicated.")
					return nil
				}
				c, _ := sess.orch.Project().CanvasByID(newID)
				fmt.Fprintf(out, "Duplicated into slide %d\n", c.SlideNumber)
				return nil
			})
		},
	}
}

func newCanvasReorderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <from> <to>",
		Short: "Move a slide to a new position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid from position %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid to position %q", args[1])
			}
			return ctx.withSession(func(sess *session) error {
				out := cmd.OutOrStdout()
				if !sess.orch.Reorder(from-1, to-1) {
					fmt.Fprintln(out, "Positions out of range; order unchanged.")
					return nil
				}
				fmt.Fprintf(out, "Moved slide %d to position %d\n", from, to)
				return nil
			})
		},
	}
}

func newCanvasActivateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <canvas>",
		Short: "Select the active slide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(sess *session) error {
				id, err := resolveCanvasID(sess, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !sess.orch.SetActiveCanvas(id) {
					fmt.Fprintln(out, "Unknown slide; active selection unchanged.")
					return nil
				}
				c, _ := sess.orch.Project().CanvasByID(id)
				fmt.Fprintf(out, "Slide %d is now active\n", c.SlideNumber)
				return nil
			})
		},
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
