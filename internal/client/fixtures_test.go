package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"csfloat/market/internal/config"
	"csfloat/market/internal/executor"

	"github.com/sirupsen/logrus/hooks/test"
)

type listingOpts struct {
	id      string
	assetID string
	float   float64
	seed    int
	price   int64
}

func defaultListingOpts() listingOpts {
	return listingOpts{
		id:      "324288155723370196",
		assetID: "22547095285",
		float:   0.0279,
		seed:    700,
		price:   260000,
	}
}

func makeListing(o listingOpts) map[string]any {
	return map[string]any{
		"id":         o.id,
		"created_at": "2021-06-13T20:45:21.311794Z",
		"type":       "buy_now",
		"price":      o.price,
		"state":      "listed",
		"seller": map[string]any{
			"avatar":       "https://steamcdn-a.akamaihd.net/steamcommunity/public/images/avatars/97/974f0a94f47f50a1a6a769fc8ff093cb93a49066_full.jpg",
			"flags":        435,
			"online":       true,
			"stall_public": true,
			"statistics": map[string]any{
				"median_trade_time":     236,
				"total_failed_trades":   0,
				"total_trades":          24,
				"total_verified_trades": 24,
			},
			"steam_id": "76561198084749846",
			"username": "Step7750",
		},
		"item": map[string]any{
			"asset_id":         o.assetID,
			"def_index":        16,
			"paint_index":      449,
			"paint_seed":       o.seed,
			"float_value":      o.float,
			"icon_url":         "-9a81dlW...",
			"d_param":          "17054198177995786400",
			"is_stattrak":      false,
			"is_souvenir":      false,
			"rarity":           5,
			"quality":          4,
			"market_hash_name": "M4A4 | Poseidon (Factory New)",
			"stickers": []any{
				map[string]any{
					"stickerId": 1060,
					"slot":      3,
					"icon_url":  "columbus2016/nv_holo.png",
					"name":      "Sticker | Team EnVyUs (Holo) | MLG Columbus 2016",
					"scm":       map[string]any{"price": 736, "volume": 1},
				},
			},
			"tradable":       0,
			"inspect_link":   "steam://rungame/730/...",
			"has_screenshot": true,
			"scm":            map[string]any{"price": 175076, "volume": 0},
			"item_name":      "M4A4 | Poseidon",
			"wear_name":      "Factory New",
			"description":    "It has been custom painted...",
			"collection":     "The Gods and Monsters Collection",
			"badges":         []any{},
		},
		"is_seller":          false,
		"min_offer_price":    221000,
		"max_offer_discount": 1500,
		"is_watchlisted":     false,
		"watchers":           0,
	}
}

func listingWithID(id string) map[string]any {
	o := defaultListingOpts()
	o.id = id
	return makeListing(o)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	return b
}

// newTestClient wires a client to an httptest server through a real
// executor with backoff waits disabled.
func newTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) CSFloatClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, _ := test.NewNullLogger()
	exec := executor.New(config.CSFloatConfig{
		BaseURL:     server.URL,
		APIKey:      apiKey,
		MaxRetries:  3,
		TestNoSleep: true,
	}, executor.WithLogger(logger))

	return NewCSFloatClient(exec)
}
