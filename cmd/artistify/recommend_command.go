package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"artistify/internal/domain"
	"artistify/internal/report"
)

type artistJSON struct {
	Artist string  `json:"artist"`
	Score  float64 `json:"score"`
}

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var k int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "recommend [FILE]",
		Short: "Recommend artists for a text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("k") {
				k = cfg.Recommend.K
			}
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			space, err := ctx.buildSpace()
			if err != nil {
				return err
			}
			cat, err := ctx.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			idx, err := ctx.buildIndex(cat)
			if err != nil {
				return err
			}
			if snap := idx.Snapshot(); snap != "" && snap != space.Snapshot() {
				return domain.Errorf(domain.KindSnapshotMismatch, "recommend", "catalog built against %s, corpus is %s", snap, space.Snapshot())
			}
			vec, err := space.Vectorize(cmd.Context(), text)
			if err != nil {
				return err
			}
			scored, err := idx.RecommendScored(vec, k)
			if err != nil {
				return err
			}
			if jsonOut {
				out := make([]artistJSON, len(scored))
				for i, s := range scored {
					out[i] = artistJSON{Artist: s.Artist, Score: s.Score}
				}
				return writeJSON(cmd, out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Artists(scored))
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 5, "Number of artists")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}
