package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var slideCount int
	var strategy string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a carousel from a prompt",
		Long: "Builds placeholder slides immediately, fills in generated text, then " +
			"produces a background image per slide. The previous project in the " +
			"workspace is replaced.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				return fmt.Errorf("prompt is required")
			}

			return ctx.withSession(func(sess *session) error {
				out := cmd.OutOrStdout()
				if err := sess.orch.StartGeneration(cmd.Context(), prompt, slideCount, strategy); err != nil {
					progress := sess.orch.Progress()
					if progress.Error != "" {
						fmt.Fprintf(out, "Generation failed: %s\n", progress.Error)
						fmt.Fprintln(out, "The placeholder slides were kept; run `socialmediagen generate` again to retry.")
					}
					return err
				}

				project := sess.orch.Project()
				fmt.Fprintf(out, "Generated %q with %d slides\n", project.Name, project.SlideCount())
				failures := 0
				for _, c := range project.Canvases {
					if state, ok := sess.orch.LoadingState(c.ID); ok && state.Error != "" {
						failures++
						fmt.Fprintf(out, "  slide %d image failed: %s\n", c.SlideNumber, state.Error)
					}
				}
				if failures > 0 {
					fmt.Fprintf(out, "Use `socialmediagen regenerate <slide>` to retry failed backgrounds.\n")
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&slideCount, "slides", "n", 0, "Number of slides (defaults to the configured count)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Background strategy: unique or thematic")
	return cmd
}

func newRegenerateCommand(ctx *commandContext) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "regenerate <canvas>",
		Short: "Queue a fresh background image for one slide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(sess *session) error {
				id, err := resolveCanvasID(sess, args[0])
				if err != nil {
					return err
				}
				if err := sess.orch.RegenerateSlide(cmd.Context(), id, strings.TrimSpace(prompt)); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				state, _ := sess.orch.LoadingState(id)
				if state.Error != "" {
					fmt.Fprintf(out, "Regeneration failed: %s\n", state.Error)
					return nil
				}
				fmt.Fprintln(out, "Background replaced")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Override the slide's background prompt")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var discard bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear generation state (and optionally the project)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(sess *session) error {
				sess.orch.ResetGeneration()
				out := cmd.OutOrStdout()
				if discard {
					sess.skipSave = true
					if err := sess.store.Clear(); err != nil {
						return err
					}
					if _, err := sess.ledger.Clear(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(out, "Project and task history discarded")
					return nil
				}
				fmt.Fprintln(out, "Generation state cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&discard, "discard", false, "Also delete the stored project and task history")
	return cmd
}
