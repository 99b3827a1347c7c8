package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"csfloat/market/internal/domain"
)

// The wire types mirror the domain records with pointer fields for the
// required values so that absent and null fields can be told apart.
// Integer fields use wireInt to accept the lenient forms the API emits.

type scmWire struct {
	Price  *wireInt `json:"price"`
	Volume *wireInt `json:"volume"`
}

type stickerWire struct {
	StickerID *wireInt `json:"stickerId"`
	Slot      *wireInt `json:"slot"`
	Wear      *float64 `json:"wear"`
	IconURL   *string  `json:"icon_url"`
	Name      *string  `json:"name"`
	SCM       *scmWire `json:"scm"`
}

type statisticsWire struct {
	MedianTradeTime     *wireInt `json:"median_trade_time"`
	TotalFailedTrades   *wireInt `json:"total_failed_trades"`
	TotalTrades         *wireInt `json:"total_trades"`
	TotalVerifiedTrades *wireInt `json:"total_verified_trades"`
}

type sellerWire struct {
	Avatar       *string         `json:"avatar"`
	Flags        *wireInt        `json:"flags"`
	Online       *bool           `json:"online"`
	StallPublic  *bool           `json:"stall_public"`
	Statistics   *statisticsWire `json:"statistics"`
	SteamID      *string         `json:"steam_id"`
	Username     *string         `json:"username"`
	ObfuscatedID *string         `json:"obfuscated_id"`
}

type itemWire struct {
	AssetID        *string       `json:"asset_id"`
	DefIndex       *wireInt      `json:"def_index"`
	PaintIndex     *wireInt      `json:"paint_index"`
	PaintSeed      *wireInt      `json:"paint_seed"`
	FloatValue     *float64      `json:"float_value"`
	IconURL        *string       `json:"icon_url"`
	DParam         *string       `json:"d_param"`
	IsStatTrak     *bool         `json:"is_stattrak"`
	IsSouvenir     *bool         `json:"is_souvenir"`
	Rarity         *wireInt      `json:"rarity"`
	Quality        *wireInt      `json:"quality"`
	MarketHashName *string       `json:"market_hash_name"`
	Stickers       []stickerWire `json:"stickers"`
	Tradable       *wireInt      `json:"tradable"`
	InspectLink    *string       `json:"inspect_link"`
	HasScreenshot  *bool         `json:"has_screenshot"`
	SCM            *scmWire      `json:"scm"`
	ItemName       *string       `json:"item_name"`
	WearName       *string       `json:"wear_name"`
	Description    *string       `json:"description"`
	Collection     *string       `json:"collection"`
	Badges         []string      `json:"badges"`
}

type listingWire struct {
	ID               *string     `json:"id"`
	CreatedAt        *string     `json:"created_at"`
	Type             *string     `json:"type"`
	Price            *wireInt    `json:"price"`
	Description      *string     `json:"description"`
	State            *string     `json:"state"`
	Seller           *sellerWire `json:"seller"`
	Item             *itemWire   `json:"item"`
	IsSeller         *bool       `json:"is_seller"`
	MinOfferPrice    *wireInt    `json:"min_offer_price"`
	MaxOfferDiscount *wireInt    `json:"max_offer_discount"`
	IsWatchlisted    *bool       `json:"is_watchlisted"`
	Watchers         *wireInt    `json:"watchers"`
}

// timestampLayouts are tried in order. Offset-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// decodeListings decodes a JSON array of listings, keeping server order.
func decodeListings(body []byte) ([]domain.Listing, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &domain.DecodeError{Message: "expected a JSON array of listings"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &domain.DecodeError{Message: "malformed JSON", Err: err}
	}

	listings := make([]domain.Listing, 0, len(raw))
	for i, obj := range raw {
		listing, err := decodeListing(obj)
		if err != nil {
			var de *domain.DecodeError
			if errors.As(err, &de) {
				de.Field = "[" + strconv.Itoa(i) + "]." + de.Field
			}
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// decodeListing decodes a single listing object.
func decodeListing(body []byte) (domain.Listing, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.Listing{}, &domain.DecodeError{Message: "expected a JSON object"}
	}

	var w listingWire
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return domain.Listing{}, unmarshalError(err)
	}

	if w.ID == nil {
		return domain.Listing{}, missing("id")
	}
	if w.CreatedAt == nil {
		return domain.Listing{}, missing("created_at")
	}
	if w.Type == nil {
		return domain.Listing{}, missing("type")
	}
	if w.Seller == nil {
		return domain.Listing{}, missing("seller")
	}
	if w.Item == nil {
		return domain.Listing{}, missing("item")
	}

	createdAt, err := parseTimestamp(*w.CreatedAt)
	if err != nil {
		return domain.Listing{}, &domain.DecodeError{Field: "created_at", Message: fmt.Sprintf("invalid timestamp %q", *w.CreatedAt), Err: err}
	}

	item, err := w.Item.toDomain()
	if err != nil {
		return domain.Listing{}, err
	}

	return domain.Listing{
		ID:               *w.ID,
		CreatedAt:        createdAt,
		Type:             domain.ListingType(*w.Type), // Stored as sent, not checked against ListingTypes
		Price:            w.Price.int64Ptr(),
		Description:      w.Description,
		State:            w.State,
		Seller:           w.Seller.toDomain(),
		Item:             item,
		IsSeller:         w.IsSeller,
		MinOfferPrice:    w.MinOfferPrice.int64Ptr(),
		MaxOfferDiscount: w.MaxOfferDiscount.int64Ptr(),
		IsWatchlisted:    w.IsWatchlisted,
		Watchers:         w.Watchers.int64Ptr(),
	}, nil
}

func (w *itemWire) toDomain() (domain.Item, error) {
	if w.AssetID == nil {
		return domain.Item{}, missing("item.asset_id")
	}
	if w.DefIndex == nil {
		return domain.Item{}, missing("item.def_index")
	}

	stickers := make([]domain.Sticker, 0, len(w.Stickers))
	for i, s := range w.Stickers {
		field := "item.stickers[" + strconv.Itoa(i) + "]"
		if s.StickerID == nil {
			return domain.Item{}, missing(field + ".stickerId")
		}
		if s.Slot == nil {
			return domain.Item{}, missing(field + ".slot")
		}
		stickers = append(stickers, domain.Sticker{
			StickerID: int(*s.StickerID),
			Slot:      int(*s.Slot),
			Wear:      s.Wear,
			IconURL:   s.IconURL,
			Name:      s.Name,
			SCM:       s.SCM.toDomain(),
		})
	}

	badges := w.Badges
	if badges == nil {
		badges = []string{}
	}

	return domain.Item{
		AssetID:        *w.AssetID,
		DefIndex:       int(*w.DefIndex),
		PaintIndex:     w.PaintIndex.intPtr(),
		PaintSeed:      w.PaintSeed.intPtr(),
		FloatValue:     w.FloatValue,
		IconURL:        w.IconURL,
		DParam:         w.DParam,
		IsStatTrak:     w.IsStatTrak,
		IsSouvenir:     w.IsSouvenir,
		Rarity:         w.Rarity.intPtr(),
		Quality:        w.Quality.intPtr(),
		MarketHashName: w.MarketHashName,
		Stickers:       stickers,
		Tradable:       w.Tradable.intPtr(),
		InspectLink:    w.InspectLink,
		HasScreenshot:  w.HasScreenshot,
		SCM:            w.SCM.toDomain(),
		ItemName:       w.ItemName,
		WearName:       w.WearName,
		Description:    w.Description,
		Collection:     w.Collection,
		Badges:         badges,
	}, nil
}

func (w *sellerWire) toDomain() domain.Seller {
	seller := domain.Seller{
		Avatar:       w.Avatar,
		Flags:        w.Flags.int64Ptr(),
		Online:       w.Online,
		StallPublic:  w.StallPublic,
		SteamID:      w.SteamID,
		Username:     w.Username,
		ObfuscatedID: w.ObfuscatedID,
	}
	if w.Statistics != nil {
		seller.Statistics = &domain.SellerStatistics{
			MedianTradeTime:     w.Statistics.MedianTradeTime.int64Ptr(),
			TotalFailedTrades:   w.Statistics.TotalFailedTrades.int64Ptr(),
			TotalTrades:         w.Statistics.TotalTrades.int64Ptr(),
			TotalVerifiedTrades: w.Statistics.TotalVerifiedTrades.int64Ptr(),
		}
	}
	return seller
}

func (w *scmWire) toDomain() *domain.SCM {
	if w == nil {
		return nil
	}
	return &domain.SCM{
		Price:  w.Price.int64Ptr(),
		Volume: w.Volume.int64Ptr(),
	}
}

func parseTimestamp(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func missing(field string) *domain.DecodeError {
	return &domain.DecodeError{Field: field, Message: "required field is missing"}
}

func unmarshalError(err error) *domain.DecodeError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &domain.DecodeError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
			Err:     err,
		}
	}
	return &domain.DecodeError{Message: "malformed JSON", Err: err}
}
