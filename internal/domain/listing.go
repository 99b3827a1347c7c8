package domain

import "time"

// SCM is a Steam Community Market price/volume snapshot.
type SCM struct {
	Price  *int64 `json:"price,omitempty"`  // Minor currency units
	Volume *int64 `json:"volume,omitempty"` // Units sold
}

type Sticker struct {
	StickerID int      `json:"stickerId"`
	Slot      int      `json:"slot"`
	Wear      *float64 `json:"wear,omitempty"`
	IconURL   *string  `json:"icon_url,omitempty"`
	Name      *string  `json:"name,omitempty"`
	SCM       *SCM     `json:"scm,omitempty"`
}

type SellerStatistics struct {
	MedianTradeTime     *int64 `json:"median_trade_time,omitempty"`
	TotalFailedTrades   *int64 `json:"total_failed_trades,omitempty"`
	TotalTrades         *int64 `json:"total_trades,omitempty"`
	TotalVerifiedTrades *int64 `json:"total_verified_trades,omitempty"`
}

type Seller struct {
	Avatar       *string           `json:"avatar,omitempty"`
	Flags        *int64            `json:"flags,omitempty"`
	Online       *bool             `json:"online,omitempty"`
	StallPublic  *bool             `json:"stall_public,omitempty"`
	Statistics   *SellerStatistics `json:"statistics,omitempty"`
	SteamID      *string           `json:"steam_id,omitempty"`
	Username     *string           `json:"username,omitempty"`
	ObfuscatedID *string           `json:"obfuscated_id,omitempty"`
}

type Item struct {
	AssetID        string    `json:"asset_id"`
	DefIndex       int       `json:"def_index"`
	PaintIndex     *int      `json:"paint_index,omitempty"`
	PaintSeed      *int      `json:"paint_seed,omitempty"`
	FloatValue     *float64  `json:"float_value,omitempty"` // Wear rating, 0.0 - 1.0
	IconURL        *string   `json:"icon_url,omitempty"`
	DParam         *string   `json:"d_param,omitempty"`
	IsStatTrak     *bool     `json:"is_stattrak,omitempty"`
	IsSouvenir     *bool     `json:"is_souvenir,omitempty"`
	Rarity         *int      `json:"rarity,omitempty"`
	Quality        *int      `json:"quality,omitempty"`
	MarketHashName *string   `json:"market_hash_name,omitempty"`
	Stickers       []Sticker `json:"stickers"` // Slot order as returned by the server
	Tradable       *int      `json:"tradable,omitempty"`
	InspectLink    *string   `json:"inspect_link,omitempty"`
	HasScreenshot  *bool     `json:"has_screenshot,omitempty"`
	SCM            *SCM      `json:"scm,omitempty"`
	ItemName       *string   `json:"item_name,omitempty"`
	WearName       *string   `json:"wear_name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Collection     *string   `json:"collection,omitempty"`
	Badges         []string  `json:"badges"`
}

// Listing is a single marketplace offer. ID, CreatedAt, Type, Seller and
// Item are always populated on a decoded listing.
type Listing struct {
	ID               string      `json:"id"`
	CreatedAt        time.Time   `json:"created_at"`
	Type             ListingType `json:"type"`
	Price            *int64      `json:"price,omitempty"` // Minor currency units
	Description      *string     `json:"description,omitempty"`
	State            *string     `json:"state,omitempty"`
	Seller           Seller      `json:"seller"`
	Item             Item        `json:"item"`
	IsSeller         *bool       `json:"is_seller,omitempty"`
	MinOfferPrice    *int64      `json:"min_offer_price,omitempty"`
	MaxOfferDiscount *int64      `json:"max_offer_discount,omitempty"`
	IsWatchlisted    *bool       `json:"is_watchlisted,omitempty"`
	Watchers         *int64      `json:"watchers,omitempty"`
}

type ListingsPage struct {
	Items      []Listing `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"` // Empty when there is no next page
}

func (p *ListingsPage) HasNext() bool {
	return p.NextCursor != ""
}
