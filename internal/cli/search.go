package cli

import (
	"fmt"

	"csfloat/market/internal/domain"

	"github.com/spf13/cobra"
)

func newSearchCommand(a *app) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:     "search",
		Aliases: []string{"listings:find"},
		Short:   "Search active listings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters, err := ff.toFilters(cmd)
			if err != nil {
				return err
			}

			page, err := a.container.Client.GetListingsPage(cmd.Context(), filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.output == outputJSON {
				return writeJSON(out, page)
			}
			return printPage(cmd, page)
		},
	}

	ff.register(cmd)
	return cmd
}

func printPage(cmd *cobra.Command, page *domain.ListingsPage) error {
	out := cmd.OutOrStdout()
	if err := writeListingsTable(out, page.Items); err != nil {
		return err
	}
	if page.HasNext() {
		fmt.Fprintf(out, "next_cursor: %s\n", page.NextCursor)
	}
	return nil
}
