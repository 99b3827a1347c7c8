package cli

import (
	"fmt"

	"csfloat/market/internal/domain"

	"github.com/spf13/cobra"
)

func newCreateCommand(a *app) *cobra.Command {
	var (
		assetID          string
		listingType      string
		price            int64
		maxOfferDiscount int64
		reservePrice     int64
		durationDays     int
		description      string
		private          bool
	)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"listing:list"},
		Short:   "Publish an item from your inventory",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed := cmd.Flags().Changed

			req := domain.CreateListingRequest{
				AssetID: assetID,
				Type:    domain.ListingType(listingType),
			}
			if changed("price") {
				req.Price = &price
			}
			if changed("max-offer-discount") {
				req.MaxOfferDiscount = &maxOfferDiscount
			}
			if changed("reserve-price") {
				req.ReservePrice = &reservePrice
			}
			if changed("duration-days") {
				req.DurationDays = &durationDays
			}
			if changed("desc") {
				req.Description = &description
			}
			if changed("private") {
				req.Private = &private
			}

			listing, err := a.container.Client.CreateListing(cmd.Context(), req)
			if err != nil {
				return err
			}

			if a.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), listing)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published listing id=%s type=%s price=%s\n",
				listing.ID, listing.Type, optInt64(listing.Price))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&assetID, "asset-id", "", "asset id of the item")
	flags.StringVar(&listingType, "type", domain.ListingTypeBuyNow.String(), "listing type: "+domain.JoinListingTypes())
	flags.Int64Var(&price, "price", 0, "price in cents, required for buy_now")
	flags.Int64Var(&maxOfferDiscount, "max-offer-discount", 0, "maximum offer discount")
	flags.Int64Var(&reservePrice, "reserve-price", 0, "auction reserve price in cents")
	flags.IntVar(&durationDays, "duration-days", 0, "auction duration: 1, 3, 5, 7 or 14")
	flags.StringVar(&description, "desc", "", "description, at most 180 characters")
	flags.BoolVar(&private, "private", false, "hide the listing from public search")
	_ = cmd.MarkFlagRequired("asset-id")

	return cmd
}
