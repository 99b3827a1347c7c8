package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"csfloat/market/internal/domain"
	"csfloat/market/internal/executor"
	"csfloat/market/internal/query"

	log "github.com/sirupsen/logrus"
)

const listingsPath = "/api/v1/listings"

// nextCursorHeaders are checked in order, case-insensitively.
var nextCursorHeaders = []string{"x-next-cursor", "next-cursor", "x_next_cursor"}

type CSFloatClient interface {
	GetListingsPage(ctx context.Context, filters domain.ListingFilters) (*domain.ListingsPage, error)
	GetListings(ctx context.Context, filters domain.ListingFilters) ([]domain.Listing, error)
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	CreateListing(ctx context.Context, req domain.CreateListingRequest) (*domain.Listing, error)
	Paginate(filters domain.ListingFilters, maxPages int) *Pager
}

// Doer executes a single logical request.
type Doer interface {
	Do(ctx context.Context, req executor.Request) (*executor.Result, error)
}

type csfloatClient struct {
	exec Doer
}

func NewCSFloatClient(exec Doer) CSFloatClient {
	return &csfloatClient{
		exec: exec,
	}
}

// GetListingsPage fetches one page of listings along with the cursor of the
// next page. A limit above the server maximum is lowered to it.
func (c *csfloatClient) GetListingsPage(ctx context.Context, filters domain.ListingFilters) (*domain.ListingsPage, error) {
	if filters.Limit != nil && *filters.Limit > domain.MaxListingsLimit {
		limit := domain.MaxListingsLimit
		filters.Limit = &limit
	}

	res, err := c.exec.Do(ctx, executor.Request{
		Method: http.MethodGet,
		Path:   listingsPath,
		Query:  query.Build(filters.Params()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings page: %w", err)
	}

	items, err := decodeListings(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode listings page: %w", err)
	}

	page := &domain.ListingsPage{
		Items:      items,
		NextCursor: extractNextCursor(res.Header),
	}

	log.Debugf("Fetched listings page with %d items (next cursor: %t)", len(page.Items), page.HasNext())
	return page, nil
}

func (c *csfloatClient) GetListings(ctx context.Context, filters domain.ListingFilters) ([]domain.Listing, error) {
	page, err := c.GetListingsPage(ctx, filters)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetListing fetches a listing by id. Listings that are no longer listed
// (sold, delisted) are returned as well.
func (c *csfloatClient) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "is required"}
	}

	res, err := c.exec.Do(ctx, executor.Request{
		Method: http.MethodGet,
		Path:   listingsPath + "/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing %s: %w", id, err)
	}

	listing, err := decodeListing(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode listing %s: %w", id, err)
	}

	log.Debugf("Fetched listing %s", listing.ID)
	return &listing, nil
}

// CreateListing validates req locally and publishes it. Invalid requests
// fail with *domain.ValidationError before anything is sent.
func (c *csfloatClient) CreateListing(ctx context.Context, req domain.CreateListingRequest) (*domain.Listing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := c.exec.Do(ctx, executor.Request{
		Method: http.MethodPost,
		Path:   listingsPath,
		Body:   req.Body(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create listing for asset %s: %w", req.AssetID, err)
	}

	listing, err := decodeListing(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode created listing: %w", err)
	}

	log.Infof("Created listing %s (%s)", listing.ID, listing.Type)
	return &listing, nil
}

// extractNextCursor is a best-effort lookup; a missing or empty header
// means there is no next page.
func extractNextCursor(header http.Header) string {
	for _, name := range nextCursorHeaders {
		for key, values := range header {
			if !strings.EqualFold(key, name) {
				continue
			}
			for _, v := range values {
				if v != "" {
					return v
				}
			}
		}
	}
	return ""
}
