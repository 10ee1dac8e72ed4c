package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"artistify/internal/report"
	"artistify/internal/service"
	"artistify/internal/tui"
)

func newSoundtrackCommand(ctx *commandContext) *cobra.Command {
	var artist string
	var jsonOut bool
	var tuiOut bool
	var showMatrix bool
	var showTimings bool
	var summary int

	cmd := &cobra.Command{
		Use:   "soundtrack [FILE]",
		Short: "Split a story into scenes and assign a song to each",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut && tuiOut {
				return fmt.Errorf("--json and --tui are mutually exclusive")
			}
			story, err := readText(cmd, args)
			if err != nil {
				return err
			}
			svc, err := ctx.buildSoundtrackService(cmd.Context(), summary)
			if err != nil {
				return err
			}
			st, err := svc.Generate(cmd.Context(), service.Request{Story: story, Artist: artist})
			if err != nil {
				return err
			}
			switch {
			case tuiOut:
				m := tui.New(cmd.Context(), svc, story, st)
				_, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
				return err
			case jsonOut:
				return writeJSON(cmd, report.JSON(st))
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, report.Placements(st))
			if showMatrix {
				titles := make([]string, len(st.Tracks))
				for i, t := range st.Tracks {
					titles[i] = t.Title
				}
				fmt.Fprintln(out, report.Matrix(st.Assignment, titles))
			}
			if showTimings {
				fmt.Fprintln(out, report.Timings(st.Timings))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "Use this artist instead of the recommendation")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	cmd.Flags().BoolVar(&tuiOut, "tui", false, "Browse the result in a terminal UI")
	cmd.Flags().BoolVar(&showMatrix, "matrix", false, "Print the scene/song similarity matrix")
	cmd.Flags().BoolVar(&showTimings, "timings", false, "Print per-stage timings")
	cmd.Flags().IntVar(&summary, "summary", 1, "Sentences per scene summary (0 disables)")
	return cmd
}
