package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"artistify/internal/report"
)

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	var minLength int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "segment [FILE]",
		Short: "Split a story into scenes",
		Long: `Split a story into scenes where the similarity of neighbouring sentences
drops below --threshold.

The default tfidf embedder is fitted on the story itself, so neighbouring
sentences rarely reach 0.7 and scenes tend to close as soon as --min-length
allows. For topic-aware boundaries use a pretrained embedder:

  embedder:
    type: openai
    openai:
      base_url: http://localhost:11434/v1
      model: nomic-embed-text
      allow_empty_key: true

or lower --threshold (for example 0.2) with tfidf.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			opts := ctx.segmenterOptions()
			if cmd.Flags().Changed("threshold") {
				opts.Threshold = threshold
			}
			if cmd.Flags().Changed("min-length") {
				opts.MinSceneLength = minLength
			}
			seg, err := ctx.buildSegmenter(opts)
			if err != nil {
				return err
			}
			scenes, err := seg.Segment(cmd.Context(), text)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, report.Segments(scenes))
			}
			if len(scenes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sentences found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Scenes(scenes))
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.7, "Neighbour similarity below which a scene may end")
	cmd.Flags().IntVar(&minLength, "min-length", 2, "Minimum sentences per scene before it can end")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}
