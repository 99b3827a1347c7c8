package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"csfloat/market/internal/domain"
	"csfloat/market/internal/query"
)

func intPtr(v int) *int { return &v }
func int64Ptr(v int64) *int64 { return &v }
func float64Ptr(v float64) *float64 { return &v }
func stringPtr(v string) *string { return &v }
func boolPtr(v bool) *bool { return &v }

func TestGetListingsPage_ReturnsTypedItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/listings" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, []any{makeListing(defaultListingOpts())})
	}, "")

	items, err := c.GetListings(context.Background(), domain.ListingFilters{
		Limit:    intPtr(2),
		MaxFloat: float64Ptr(0.5),
		SortBy:   domain.SortLowestPrice,
	})
	if err != nil {
		t.Fatalf("GetListings() error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(items))
	}
	l := items[0]
	if l.Item.FloatValue == nil || l.Item.PaintSeed == nil || l.Item.InspectLink == nil {
		t.Errorf("expected core item fields to be populated")
	}
}

func TestGetListingsPage_SendsSortedQuery(t *testing.T) {
	filters := domain.ListingFilters{
		Limit:          intPtr(20),
		SortBy:         domain.SortLowestPrice,
		MaxFloat:       float64Ptr(0.07),
		MarketHashName: "AK-47 | Redline (Field-Tested)",
		DefIndex:       []int{7, 16},
	}
	want := query.Encode(query.Build(filters.Params()))

	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		writeJSON(t, w, http.StatusOK, []any{makeListing(defaultListingOpts())})
	}, "")

	if _, err := c.GetListingsPage(context.Background(), filters); err != nil {
		t.Fatalf("GetListingsPage() error: %v", err)
	}

	if got != want {
		t.Errorf("query = %q, want %q", got, want)
	}
	if got != "def_index=16&def_index=7&limit=20&market_hash_name=AK-47+%7C+Redline+%28Field-Tested%29&max_float=0.07&sort_by=lowest_price" {
		t.Errorf("unexpected query %q", got)
	}
}

func TestGetListingsPage_ClampsLimit(t *testing.T) {
	var limit string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		writeJSON(t, w, http.StatusOK, []any{makeListing(defaultListingOpts())})
	}, "")

	filters := domain.ListingFilters{Limit: intPtr(200)}
	page, err := c.GetListingsPage(context.Background(), filters)
	if err != nil {
		t.Fatalf("GetListingsPage() error: %v", err)
	}

	if limit != "50" {
		t.Errorf("expected limit=50, got %q", limit)
	}
	if *filters.Limit != 200 {
		t.Errorf("caller filters must not be modified")
	}
	if len(page.Items) != 1 {
		t.Errorf("expected 1 listing, got %d", len(page.Items))
	}
}

func TestGetListingsPage_RetriesAfter429(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			writeJSON(t, w, http.StatusTooManyRequests, map[string]any{"detail": "Too Many Requests"})
			return
		}
		writeJSON(t, w, http.StatusOK, []any{listingWithID("ok")})
	}, "")

	items, err := c.GetListings(context.Background(), domain.ListingFilters{Limit: intPtr(1)})
	if err != nil {
		t.Fatalf("GetListings() error: %v", err)
	}

	if calls.Load() < 2 {
		t.Errorf("expected at least 2 attempts, got %d", calls.Load())
	}
	if len(items) != 1 || items[0].ID != "ok" {
		t.Errorf("unexpected items %v", items)
	}
}

func TestGetListingsPage_PersistentServerError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, "")

	_, err := c.GetListings(context.Background(), domain.ListingFilters{Limit: intPtr(1)})

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if calls.Load() != 4 {
		t.Errorf("expected 4 attempts, got %d", calls.Load())
	}
}

func TestGetListingsPage_BadRequestNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusBadRequest, map[string]any{"error": "bad"})
	}, "")

	_, err := c.GetListings(context.Background(), domain.ListingFilters{Limit: intPtr(1)})

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", calls.Load())
	}
}

func TestGetListingsPage_NonArrayIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"data": []any{}})
	}, "")

	_, err := c.GetListingsPage(context.Background(), domain.ListingFilters{})

	var de *domain.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestGetListingsPage_NextCursorHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"canonical", map[string]string{"X-Next-Cursor": "abc123"}, "abc123"},
		{"plain", map[string]string{"Next-Cursor": "def"}, "def"},
		{"underscore", map[string]string{"x_next_cursor": "ghi"}, "ghi"},
		{"priority", map[string]string{"next-cursor": "second", "x-next-cursor": "first"}, "first"},
		{"empty value", map[string]string{"X-Next-Cursor": ""}, ""},
		{"absent", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					// Bypass canonicalisation so the raw name goes on the wire.
					w.Header()[k] = []string{v}
				}
				writeJSON(t, w, http.StatusOK, []any{})
			}, "")

			page, err := c.GetListingsPage(context.Background(), domain.ListingFilters{})
			if err != nil {
				t.Fatalf("GetListingsPage() error: %v", err)
			}
			if page.NextCursor != tt.want {
				t.Errorf("NextCursor = %q, want %q", page.NextCursor, tt.want)
			}
		})
	}
}

func TestGetListing_AcceptsSoldListing(t *testing.T) {
	data := listingWithID("324288155723370196")
	data["state"] = "sold"

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/listings/324288155723370196" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, data)
	}, "")

	l, err := c.GetListing(context.Background(), "324288155723370196")
	if err != nil {
		t.Fatalf("GetListing() error: %v", err)
	}

	if l.ID != "324288155723370196" || l.State == nil || *l.State != "sold" {
		t.Errorf("unexpected listing %s %v", l.ID, l.State)
	}
	if l.Item.MarketHashName == nil || l.Item.InspectLink == nil {
		t.Errorf("expected full item details")
	}
}

func TestGetListing_EscapesID(t *testing.T) {
	var rawPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		writeJSON(t, w, http.StatusOK, listingWithID("a/b"))
	}, "")

	if _, err := c.GetListing(context.Background(), "a/b"); err != nil {
		t.Fatalf("GetListing() error: %v", err)
	}
	if rawPath != "/api/v1/listings/"+url.PathEscape("a/b") {
		t.Errorf("unexpected path %q", rawPath)
	}
}

func TestCreateListing_ValidationHappensBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusOK, listingWithID("x"))
	}, "abc123")

	tests := []struct {
		name  string
		req   domain.CreateListingRequest
		field string
	}{
		{"buy_now without price", domain.CreateListingRequest{AssetID: "1", Type: domain.ListingTypeBuyNow}, "price"},
		{"unknown type", domain.CreateListingRequest{AssetID: "1", Type: "raffle", Price: int64Ptr(1)}, "type"},
		{"long description", domain.CreateListingRequest{AssetID: "1", Type: domain.ListingTypeAuction, Description: stringPtr(string(make([]byte, 181)))}, "description"},
		{"bad duration", domain.CreateListingRequest{AssetID: "1", Type: domain.ListingTypeAuction, DurationDays: intPtr(2)}, "duration_days"},
		{"missing asset", domain.CreateListingRequest{Type: domain.ListingTypeAuction}, "asset_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateListing(context.Background(), tt.req)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}

	if calls.Load() != 0 {
		t.Errorf("expected no requests, got %d", calls.Load())
	}
}

func TestCreateListing_WithAPIKeySendsAuthAndBody(t *testing.T) {
	var auth string
	var body map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("invalid body: %v", err)
		}

		o := listingOpts{id: "292312870132253796", assetID: "21078095468", float: 0.26, seed: 346, price: 8900}
		writeJSON(t, w, http.StatusOK, makeListing(o))
	}, "abc123")

	l, err := c.CreateListing(context.Background(), domain.CreateListingRequest{
		AssetID:     "21078095468",
		Type:        domain.ListingTypeBuyNow,
		Price:       int64Ptr(8900),
		Description: stringPtr("Just for show"),
		Private:     boolPtr(false),
		Extra:       map[string]any{"type": "auction", "future_field": "x", "ignored": nil},
	})
	if err != nil {
		t.Fatalf("CreateListing() error: %v", err)
	}

	if auth != "abc123" {
		t.Errorf("expected verbatim Authorization header, got %q", auth)
	}
	if string(body["asset_id"]) != "21078095468" {
		t.Errorf("expected numeric asset_id, got %s", body["asset_id"])
	}
	if string(body["type"]) != `"buy_now"` || string(body["price"]) != "8900" {
		t.Errorf("unexpected type/price %s %s", body["type"], body["price"])
	}
	if string(body["private"]) != "false" || string(body["description"]) != `"Just for show"` {
		t.Errorf("unexpected private/description %s %s", body["private"], body["description"])
	}
	if string(body["future_field"]) != `"x"` {
		t.Errorf("expected extra field to pass through, got %s", body["future_field"])
	}
	for _, key := range []string{"ignored", "reserve_price", "duration_days", "max_offer_discount"} {
		if _, ok := body[key]; ok {
			t.Errorf("unexpected key %s in body", key)
		}
	}

	if l.ID != "292312870132253796" || l.Price == nil || *l.Price != 8900 || *l.Item.PaintSeed != 346 {
		t.Errorf("unexpected created listing %+v", l)
	}
}

func TestCreateListing_WithoutAPIKeySendsNoAuth(t *testing.T) {
	var present bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"detail": "Unauthorized"})
	}, "")

	_, err := c.CreateListing(context.Background(), domain.CreateListingRequest{
		AssetID: "21078095468",
		Type:    domain.ListingTypeBuyNow,
		Price:   int64Ptr(8900),
	})

	var te *domain.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 TransportError, got %v", err)
	}
	if present {
		t.Errorf("expected no Authorization header")
	}
}

func TestCreateListing_NonNumericAssetIDSentAsString(t *testing.T) {
	var body map[string]json.RawMessage
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		writeJSON(t, w, http.StatusOK, listingWithID("x"))
	}, "abc123")

	_, err := c.CreateListing(context.Background(), domain.CreateListingRequest{
		AssetID:      "asset-12",
		Type:         domain.ListingTypeAuction,
		ReservePrice: int64Ptr(1000),
		DurationDays: intPtr(7),
	})
	if err != nil {
		t.Fatalf("CreateListing() error: %v", err)
	}

	if string(body["asset_id"]) != `"asset-12"` {
		t.Errorf("expected string asset_id, got %s", body["asset_id"])
	}
	if _, ok := body["price"]; ok {
		t.Errorf("price must be omitted when not supplied")
	}
	if string(body["duration_days"]) != "7" || string(body["reserve_price"]) != "1000" {
		t.Errorf("unexpected auction fields %s %s", body["duration_days"], body["reserve_price"])
	}
}
