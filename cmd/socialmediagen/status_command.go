package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"socialmediagen/internal/generation"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show project, generation, and per-slide loading state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(sess *session) error {
				out := cmd.OutOrStdout()
				project := sess.orch.Project()
				if project.SlideCount() == 0 {
					fmt.Fprintln(out, "No project in the workspace.")
					return nil
				}

				nav := sess.orch.Navigation()
				fmt.Fprintf(out, "Project:  %s\n", project.Name)
				fmt.Fprintf(out, "Slides:   %d (max %d)\n", project.SlideCount(), nav.MaxCanvasCount)
				fmt.Fprintf(out, "Strategy: %s\n", project.BackgroundStrategy)
				if active, ok := project.ActiveCanvas(); ok {
					fmt.Fprintf(out, "Active:   slide %d\n", active.SlideNumber)
				}

				progress := sess.orch.Progress()
				fmt.Fprintln(out)
				fmt.Fprintln(out, describeProgress(progress))

				rows := make([][]string, 0, project.SlideCount())
				for _, c := range project.Canvases {
					state, ok := sess.orch.LoadingState(c.ID)
					text, image, percent, errMsg := "-", "-", "-", ""
					if ok {
						text = yesNo(state.IsTextLoaded)
						switch {
						case state.IsImageLoaded:
							image = colorizeStatus("loaded")
						case state.IsImageLoading:
							image = colorizeStatus("loading")
						case state.Error != "":
							image = colorizeStatus("error")
						default:
							image = "pending"
						}
						percent = strconv.FormatFloat(state.ImageLoadProgress, 'f', 0, 64) + "%"
						errMsg = truncate(state.Error, 40)
					}
					rows = append(rows, []string{
						strconv.Itoa(c.SlideNumber),
						text,
						image,
						percent,
						errMsg,
					})
				}
				fmt.Fprintln(out, renderTable([]string{"#", "Text", "Image", "Progress", "Error"}, rows, 1, 4))
				return nil
			})
		},
	}
}

func describeProgress(p generation.Progress) string {
	switch {
	case p.IsGenerating:
		return fmt.Sprintf("Generation running: step %s, %0.f%% overall (slide %d of %d)",
			p.CurrentStep, p.TotalProgress, p.CurrentSlide, p.TotalSlides)
	case p.Error != "":
		return fmt.Sprintf("Last generation failed: %s", p.Error)
	case p.CurrentStep == generation.StepComplete:
		return "Last generation completed"
	default:
		return "No generation run recorded this session"
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
