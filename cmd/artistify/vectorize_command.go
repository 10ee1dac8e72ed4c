package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"artistify/internal/domain"
	"artistify/internal/report"
)

func newVectorizeCommand(ctx *commandContext) *cobra.Command {
	var perSentence bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "vectorize [FILE]",
		Short: "Compute the concept vector of a text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			space, err := ctx.buildSpace()
			if err != nil {
				return err
			}
			var vecs []domain.ConceptVector
			if perSentence {
				vecs, err = space.VectorizeSentences(cmd.Context(), text)
			} else {
				var v domain.ConceptVector
				v, err = space.Vectorize(cmd.Context(), text)
				vecs = []domain.ConceptVector{v}
			}
			if err != nil {
				return err
			}
			if jsonOut {
				if perSentence {
					return writeJSON(cmd, vecs)
				}
				return writeJSON(cmd, vecs[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Corpus snapshot: %s\n", space.Snapshot())
			fmt.Fprintln(cmd.OutOrStdout(), report.Vectors(space.Corpus().Names(), vecs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&perSentence, "sentences", false, "Emit one vector per sentence instead of their mean")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}
