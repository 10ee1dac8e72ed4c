package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"artistify/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and convert artist catalogs",
	}
	cmd.AddCommand(newCatalogImportCommand(ctx))
	cmd.AddCommand(newCatalogStatsCommand(ctx))
	return cmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import CSV DB",
		Short: "Convert a CSV catalog into a SQLite database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadCSV(args[0], ctx.currentLogger())
			if err != nil {
				return err
			}
			if err := catalog.SaveSQLite(cmd.Context(), args[1], cat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries (%d skipped) into %s\n", len(cat.Entries), cat.Skipped, args[1])
			return nil
		},
	}
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [PATH]",
		Short: "Summarize a catalog (defaults to catalog.path)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, format := cfg.Catalog.Path, cfg.Catalog.Format
			if len(args) == 1 {
				path, format = args[0], ""
			}
			cat, err := catalog.Load(cmd.Context(), path, format, ctx.currentLogger())
			if err != nil {
				return err
			}
			dim := 0
			if len(cat.Entries) > 0 {
				dim = len(cat.Entries[0].Vector)
			}
			snapshot := cat.Snapshot
			if snapshot == "" {
				snapshot = "(none)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:   %d\n", len(cat.Entries))
			fmt.Fprintf(out, "Skipped:   %d\n", cat.Skipped)
			fmt.Fprintf(out, "Artists:   %d\n", len(cat.Artists()))
			fmt.Fprintf(out, "Dimension: %d\n", dim)
			fmt.Fprintf(out, "Snapshot:  %s\n", snapshot)
			return nil
		},
	}
}
