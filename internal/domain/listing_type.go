package domain

type ListingType string

func (t ListingType) String() string {
	return string(t)
}

const (
	ListingTypeBuyNow  ListingType = "buy_now" // Fixed price
	ListingTypeAuction ListingType = "auction" // Bidding
)

var ListingTypes = []ListingType{
	ListingTypeBuyNow,
	ListingTypeAuction,
}

func (t ListingType) IsValid() bool {
	switch t {
	case ListingTypeBuyNow, ListingTypeAuction:
		return true
	default:
		return false
	}
}

type SortOption string

func (s SortOption) String() string {
	return string(s)
}

const (
	SortLowestPrice     SortOption = "lowest_price"
	SortHighestPrice    SortOption = "highest_price"
	SortMostRecent      SortOption = "most_recent"
	SortExpiresSoon     SortOption = "expires_soon"
	SortLowestFloat     SortOption = "lowest_float"
	SortHighestFloat    SortOption = "highest_float"
	SortBestDeal        SortOption = "best_deal"
	SortHighestDiscount SortOption = "highest_discount"
	SortFloatRank       SortOption = "float_rank"
	SortNumBids         SortOption = "num_bids"
)

var SortOptions = []SortOption{
	SortLowestPrice,
	SortHighestPrice,
	SortMostRecent,
	SortExpiresSoon,
	SortLowestFloat,
	SortHighestFloat,
	SortBestDeal,
	SortHighestDiscount,
	SortFloatRank,
	SortNumBids,
}

func (s SortOption) IsValid() bool {
	for _, o := range SortOptions {
		if o == s {
			return true
		}
	}
	return false
}

// ValidDurationDays lists the auction durations accepted by the create endpoint.
var ValidDurationDays = []int{1, 3, 5, 7, 14}
