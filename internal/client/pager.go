package client

import (
	"context"
	"iter"

	"csfloat/market/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Pager walks search results page by page, following the server cursor.
// It is forward-only and cannot be restarted.
type Pager struct {
	client   CSFloatClient
	filters  domain.ListingFilters
	maxPages int

	pages   int
	buf     []domain.Listing
	current domain.Listing
	done    bool
	err     error
}

// Paginate returns a Pager starting from filters, which may already carry a
// cursor. maxPages <= 0 means no page cap.
func (c *csfloatClient) Paginate(filters domain.ListingFilters, maxPages int) *Pager {
	return NewPager(c, filters, maxPages)
}

func NewPager(client CSFloatClient, filters domain.ListingFilters, maxPages int) *Pager {
	return &Pager{
		client:   client,
		filters:  filters,
		maxPages: maxPages,
	}
}

// Next advances to the next listing, fetching the next page when the
// current one is used up. It returns false at the end or on error.
func (p *Pager) Next(ctx context.Context) bool {
	for {
		if len(p.buf) > 0 {
			p.current = p.buf[0]
			p.buf = p.buf[1:]
			return true
		}
		if p.done {
			return false
		}
		if p.maxPages > 0 && p.pages >= p.maxPages {
			p.done = true
			return false
		}

		page, err := p.client.GetListingsPage(ctx, p.filters)
		if err != nil {
			p.err = err
			p.done = true
			return false
		}
		p.pages++
		p.buf = page.Items

		if page.HasNext() {
			p.filters.Cursor = page.NextCursor
		} else {
			p.done = true
		}

		log.Debugf("Pager fetched page %d with %d items", p.pages, len(page.Items))
	}
}

// Listing returns the listing Next moved to.
func (p *Pager) Listing() domain.Listing {
	return p.current
}

func (p *Pager) Err() error {
	return p.err
}

// Pages returns how many pages were fetched so far.
func (p *Pager) Pages() int {
	return p.pages
}

// All drains the pager as an iterator. A fetch error is yielded once as the
// final element.
func (p *Pager) All(ctx context.Context) iter.Seq2[domain.Listing, error] {
	return func(yield func(domain.Listing, error) bool) {
		for p.Next(ctx) {
			if !yield(p.Listing(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			yield(domain.Listing{}, err)
		}
	}
}
