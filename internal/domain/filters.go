package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxListingsLimit is the largest page size the search endpoint serves.
const MaxListingsLimit = 50

// MaxDescriptionLength is counted in runes.
const MaxDescriptionLength = 180

// ListingFilters are the search parameters of GET /api/v1/listings.
// Nil pointers and empty strings are not sent.
type ListingFilters struct {
	Limit          *int
	SortBy         SortOption
	Cursor         string
	Category       *int
	DefIndex       []int
	MinFloat       *float64
	MaxFloat       *float64
	Rarity         *int
	PaintSeed      *int
	PaintIndex     *int
	UserID         string
	Collection     string
	MinPrice       *int64 // Minor currency units
	MaxPrice       *int64 // Minor currency units
	MarketHashName string
	Type           ListingType
	Stickers       string // ID|POSITION[,ID|POSITION...], passed through unchanged
}

// Params returns the filters keyed by their query parameter names.
func (f ListingFilters) Params() map[string]any {
	return map[string]any{
		"limit":            f.Limit,
		"sort_by":          optString(string(f.SortBy)),
		"cursor":           optString(f.Cursor),
		"category":         f.Category,
		"def_index":        f.DefIndex,
		"min_float":        f.MinFloat,
		"max_float":        f.MaxFloat,
		"rarity":           f.Rarity,
		"paint_seed":       f.PaintSeed,
		"paint_index":      f.PaintIndex,
		"user_id":          optString(f.UserID),
		"collection":       optString(f.Collection),
		"min_price":        f.MinPrice,
		"max_price":        f.MaxPrice,
		"market_hash_name": optString(f.MarketHashName),
		"type":             optString(string(f.Type)),
		"stickers":         optString(f.Stickers),
	}
}

// Validate checks enum-valued filters. The server remains the authority on
// everything else.
func (f ListingFilters) Validate() error {
	if f.SortBy != "" && !f.SortBy.IsValid() {
		return &ValidationError{Field: "sort_by", Message: fmt.Sprintf("must be one of %s", joinSortOptions())}
	}
	if f.Type != "" && !f.Type.IsValid() {
		return &ValidationError{Field: "type", Message: "must be one of " + JoinListingTypes()}
	}
	return nil
}

// CreateListingRequest is the input of POST /api/v1/listings.
type CreateListingRequest struct {
	AssetID          string
	Type             ListingType
	Price            *int64 // Minor currency units, required for buy_now
	MaxOfferDiscount *int64
	ReservePrice     *int64
	DurationDays     *int
	Description      *string
	Private          *bool

	// Extra fields are sent as-is unless they collide with a field above.
	Extra map[string]any
}

func (r CreateListingRequest) Validate() error {
	if r.AssetID == "" {
		return &ValidationError{Field: "asset_id", Message: "is required"}
	}
	if !r.Type.IsValid() {
		return &ValidationError{Field: "type", Message: "must be one of " + JoinListingTypes()}
	}
	if r.Type == ListingTypeBuyNow && r.Price == nil {
		return &ValidationError{Field: "price", Message: "is required when type is buy_now"}
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("must be %d characters or less", MaxDescriptionLength)}
	}
	if r.DurationDays != nil && !validDuration(*r.DurationDays) {
		return &ValidationError{Field: "duration_days", Message: "must be one of 1, 3, 5, 7, 14"}
	}
	return nil
}

// Body builds the JSON request body from the supplied fields only.
func (r CreateListingRequest) Body() map[string]any {
	body := map[string]any{
		"asset_id": assetIDValue(r.AssetID),
		"type":     r.Type.String(),
	}
	if r.Price != nil {
		body["price"] = *r.Price
	}
	if r.MaxOfferDiscount != nil {
		body["max_offer_discount"] = *r.MaxOfferDiscount
	}
	if r.ReservePrice != nil {
		body["reserve_price"] = *r.ReservePrice
	}
	if r.DurationDays != nil {
		body["duration_days"] = *r.DurationDays
	}
	if r.Description != nil {
		body["description"] = *r.Description
	}
	if r.Private != nil {
		body["private"] = *r.Private
	}

	for k, v := range r.Extra {
		if v == nil {
			continue
		}
		if _, exists := body[k]; !exists {
			body[k] = v
		}
	}

	return body
}

// assetIDValue sends digit-only ids as JSON numbers without going through
// an integer type, so ids longer than int64 survive.
func assetIDValue(id string) any {
	if isDigits(id) {
		return json.Number(id)
	}
	return id
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validDuration(days int) bool {
	for _, d := range ValidDurationDays {
		if d == days {
			return true
		}
	}
	return false
}

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// JoinListingTypes lists the known listing types, comma separated.
func JoinListingTypes() string {
	names := make([]string, 0, len(ListingTypes))
	for _, t := range ListingTypes {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

func joinSortOptions() string {
	names := make([]string, 0, len(SortOptions))
	for _, o := range SortOptions {
		names = append(names, o.String())
	}
	return strings.Join(names, ", ")
}
