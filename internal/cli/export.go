package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		ff    filterFlags
		out   string
		pages int
		title string
	)

	cmd := &cobra.Command{
		Use:     "export",
		Aliases: []string{"listings:export"},
		Short:   "Export search results to a CSV file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters, err := ff.toFilters(cmd)
			if err != nil {
				return err
			}

			result, err := a.container.Service.ExportListingsToFile(cmd.Context(), filters, pages, out)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.output == outputJSON {
				return writeJSON(w, map[string]any{
					"out":   out,
					"rows":  result.Rows,
					"pages": result.Pages,
					"title": title,
				})
			}
			fmt.Fprintf(w, "Exported %d rows to %s\n", result.Rows, out)
			if title != "" {
				fmt.Fprintf(w, "Title: %s\n", title)
			}
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "CSV output path")
	cmd.Flags().IntVar(&pages, "pages", 0, "maximum number of pages to fetch, 0 for all")
	cmd.Flags().StringVar(&title, "title", "", "optional label printed with the summary")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
