package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"artistify/internal/assign"
	"artistify/internal/domain"
	"artistify/internal/report"
)

func newAssignCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "assign SCENES.json SONGS.json",
		Short: "Match scene vectors to song vectors",
		Long:  "Both files hold a JSON array of equal-length numeric arrays.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := readVectors(args[0])
			if err != nil {
				return err
			}
			songs, err := readVectors(args[1])
			if err != nil {
				return err
			}
			res, err := assign.Assign(toConceptVectors(scenes), toConceptVectors(songs))
			if err != nil {
				return err
			}
			ctx.currentLogger().Debug("assignment solved", "scenes", len(scenes), "songs", len(songs), "pairs", len(res.Pairs))
			if jsonOut {
				return writeJSON(cmd, report.Assignment(res))
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Pairs(res))
			if m := report.Matrix(res, nil); m != "" {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func toConceptVectors(in [][]float64) []domain.ConceptVector {
	out := make([]domain.ConceptVector, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
