package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestListingFilters_ParamsOmitsUnset(t *testing.T) {
	limit := 10
	params := ListingFilters{Limit: &limit, SortBy: SortBestDeal}.Params()

	set := map[string]bool{}
	for k, v := range params {
		if v == nil {
			continue
		}
		if p, ok := v.(*int); ok && p == nil {
			continue
		}
		if p, ok := v.(*float64); ok && p == nil {
			continue
		}
		if p, ok := v.(*int64); ok && p == nil {
			continue
		}
		if s, ok := v.([]int); ok && s == nil {
			continue
		}
		set[k] = true
	}

	if len(set) != 2 || !set["limit"] || !set["sort_by"] {
		t.Errorf("unexpected params set %v", set)
	}
}

func TestListingFilters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filters ListingFilters
		field   string
	}{
		{"empty", ListingFilters{}, ""},
		{"known sort", ListingFilters{SortBy: SortFloatRank}, ""},
		{"unknown sort", ListingFilters{SortBy: "cheapest"}, "sort_by"},
		{"unknown type", ListingFilters{Type: "raffle"}, "type"},
		{"auction", ListingFilters{Type: ListingTypeAuction}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("expected ValidationError on %s, got %v", tt.field, err)
			}
			if tt.field == "type" && !strings.Contains(ve.Message, "buy_now, auction") {
				t.Errorf("expected known types in message, got %q", ve.Message)
			}
		})
	}
}

func TestCreateListingRequest_ValidateOrder(t *testing.T) {
	long := strings.Repeat("é", MaxDescriptionLength+1)
	exact := strings.Repeat("é", MaxDescriptionLength)
	days := 2

	// Several problems at once report the first in check order.
	err := CreateListingRequest{Type: "raffle", Description: &long, DurationDays: &days}.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "asset_id" {
		t.Errorf("expected asset_id first, got %v", err)
	}

	err = CreateListingRequest{AssetID: "1", Type: ListingTypeAuction, Description: &exact}.Validate()
	if err != nil {
		t.Errorf("description of %d runes must pass: %v", MaxDescriptionLength, err)
	}

	for _, d := range ValidDurationDays {
		if err := (CreateListingRequest{AssetID: "1", Type: ListingTypeAuction, DurationDays: &d}).Validate(); err != nil {
			t.Errorf("duration %d must pass: %v", d, err)
		}
	}
}

func TestCreateListingRequest_Body(t *testing.T) {
	price := int64(8900)
	private := true
	req := CreateListingRequest{
		AssetID: "123456789012345678901234567890",
		Type:    ListingTypeBuyNow,
		Price:   &price,
		Private: &private,
		Extra:   map[string]any{"price": 1, "note": "hi"},
	}

	raw, err := json.Marshal(req.Body())
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}

	want := `{"asset_id":123456789012345678901234567890,"note":"hi","price":8900,"private":true,"type":"buy_now"}`
	if string(raw) != want {
		t.Errorf("body = %s, want %s", raw, want)
	}
}

func TestTransportError_Message(t *testing.T) {
	err := &TransportError{Method: "get", Path: "/api/v1/listings", StatusCode: 503, Attempts: 4, Body: "busy"}
	if got := err.Error(); got != "HTTP 503 on GET /api/v1/listings after 4 attempts: busy" {
		t.Errorf("unexpected message %q", got)
	}

	inner := errors.New("connection refused")
	err = &TransportError{Method: "POST", Path: "/api/v1/listings", Attempts: 1, Err: inner}
	if !errors.Is(err, inner) {
		t.Errorf("expected wrapped error to be reachable")
	}
	if !strings.HasPrefix(err.Error(), "network error on POST") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
