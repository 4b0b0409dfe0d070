package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"labinventory-backend/internal/export"
	"labinventory-backend/internal/importer"
	"labinventory-backend/internal/parse"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var layout string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import labs and assets from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := parse.ParseLayout(layout)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			s, closeFn, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			summary, err := importer.NewService(s).ImportFile(ctx, args[0], l)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	names := make([]string, len(parse.Layouts))
	for i, l := range parse.Layouts {
		names[i] = string(l)
	}
	cmd.Flags().StringVar(&layout, "layout", string(parse.LayoutWorkbook), "Source layout: "+strings.Join(names, ", "))
	return cmd
}

func printSummary(w io.Writer, s *importer.Summary) {
	fmt.Fprintf(w, "Import completed: %d labs, %d assets\n", s.LabsImported, s.AssetsImported)
	for _, e := range s.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every lab and asset to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, closeFn, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.Export(ctx, s, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "assets.xlsx", "Destination workbook")
	return cmd
}
