package cli

import (
	"strings"

	"csfloat/market/internal/domain"

	"github.com/spf13/cobra"
)

// filterFlags holds the search flags shared by search and export.
type filterFlags struct {
	limit          int
	sortBy         string
	cursor         string
	category       int
	defIndex       []int
	minFloat       float64
	maxFloat       float64
	rarity         int
	paintSeed      int
	paintIndex     int
	userID         string
	collection     string
	minPrice       int64
	maxPrice       int64
	marketHashName string
	listingType    string
	stickers       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.limit, "limit", 0, "page size, at most 50")
	flags.StringVar(&f.sortBy, "sort-by", "", "sort order: "+sortOptionNames())
	flags.StringVar(&f.cursor, "cursor", "", "opaque cursor of the page to start from")
	flags.IntVar(&f.category, "category", 0, "item category")
	flags.IntSliceVar(&f.defIndex, "def-index", nil, "weapon definition index, repeatable")
	flags.Float64Var(&f.minFloat, "min-float", 0, "minimum float value")
	flags.Float64Var(&f.maxFloat, "max-float", 0, "maximum float value")
	flags.IntVar(&f.rarity, "rarity", 0, "item rarity")
	flags.IntVar(&f.paintSeed, "paint-seed", 0, "paint seed")
	flags.IntVar(&f.paintIndex, "paint-index", 0, "paint index")
	flags.StringVar(&f.userID, "user-id", "", "seller steam id")
	flags.StringVar(&f.collection, "collection", "", "collection id")
	flags.Int64Var(&f.minPrice, "min-price", 0, "minimum price in cents")
	flags.Int64Var(&f.maxPrice, "max-price", 0, "maximum price in cents")
	flags.StringVar(&f.marketHashName, "market-hash-name", "", "exact market hash name")
	flags.StringVar(&f.listingType, "type", "", "listing type: "+domain.JoinListingTypes())
	flags.StringVar(&f.stickers, "stickers", "", "sticker filter ID|POSITION[,ID|POSITION...]")
}

// toFilters converts the flags the user actually set. Unset flags stay nil
// so they are not sent.
func (f *filterFlags) toFilters(cmd *cobra.Command) (domain.ListingFilters, error) {
	changed := cmd.Flags().Changed

	filters := domain.ListingFilters{
		SortBy:         domain.SortOption(f.sortBy),
		Cursor:         f.cursor,
		DefIndex:       f.defIndex,
		UserID:         f.userID,
		Collection:     f.collection,
		MarketHashName: f.marketHashName,
		Type:           domain.ListingType(f.listingType),
		Stickers:       f.stickers,
	}
	if changed("limit") {
		filters.Limit = &f.limit
	}
	if changed("category") {
		filters.Category = &f.category
	}
	if changed("min-float") {
		filters.MinFloat = &f.minFloat
	}
	if changed("max-float") {
		filters.MaxFloat = &f.maxFloat
	}
	if changed("rarity") {
		filters.Rarity = &f.rarity
	}
	if changed("paint-seed") {
		filters.PaintSeed = &f.paintSeed
	}
	if changed("paint-index") {
		filters.PaintIndex = &f.paintIndex
	}
	if changed("min-price") {
		filters.MinPrice = &f.minPrice
	}
	if changed("max-price") {
		filters.MaxPrice = &f.maxPrice
	}

	if err := filters.Validate(); err != nil {
		return domain.ListingFilters{}, err
	}
	return filters, nil
}

func sortOptionNames() string {
	names := make([]string, 0, len(domain.SortOptions))
	for _, o := range domain.SortOptions {
		names = append(names, o.String())
	}
	return strings.Join(names, ", ")
}
