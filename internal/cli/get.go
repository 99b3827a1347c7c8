package cli

import (
	"github.com/spf13/cobra"
)

func newGetCommand(a *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:     "get [id]",
		Aliases: []string{"listing:get"},
		Short:   "Show a single listing",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				id = args[0]
			}

			listing, err := a.container.Client.GetListing(cmd.Context(), id)
			if err != nil {
				return err
			}

			if a.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), listing)
			}
			return writeListingDetail(cmd.OutOrStdout(), listing)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "listing id")
	return cmd
}
