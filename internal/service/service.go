package service

import (
	"context"
	"fmt"
	"io"

	"csfloat/market/internal/client"
	"csfloat/market/internal/domain"
	"csfloat/market/internal/export"

	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

// listingsBuffer bounds how far the pager may run ahead of the writer.
const listingsBuffer = 100

type Service struct {
	client client.CSFloatClient
}

func NewService(client client.CSFloatClient) *Service {
	return &Service{
		client: client,
	}
}

// ExportResult summarises a finished export.
type ExportResult struct {
	Rows  int
	Pages int
}

// ExportListings walks search results from filters, up to maxPages pages
// (<= 0 for all), and writes them to out as CSV. The pager and the writer
// run in separate goroutines; a failure in either stops both.
func (s *Service) ExportListings(ctx context.Context, filters domain.ListingFilters, maxPages int, out io.Writer) (*ExportResult, error) {
	writer, err := export.NewCSVWriter(out)
	if err != nil {
		return nil, err
	}

	listingsCh := make(chan domain.Listing, listingsBuffer)
	pager := s.client.Paginate(filters, maxPages)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(listingsCh)

		for pager.Next(ctx) {
			select {
			case listingsCh <- pager.Listing():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := pager.Err(); err != nil {
			log.Errorf("❌ Failed to fetch listings after %d pages: %v", pager.Pages(), err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		for listing := range listingsCh {
			if err := writer.Write(listing); err != nil {
				return err
			}
		}
		return writer.Flush()
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	result := &ExportResult{
		Rows:  writer.Count(),
		Pages: pager.Pages(),
	}
	log.Infof("✅ Exported %d listings from %d pages", result.Rows, result.Pages)

	return result, nil
}

// ExportListingsToFile runs ExportListings into a new CSV file at path,
// creating parent directories as needed.
func (s *Service) ExportListingsToFile(ctx context.Context, filters domain.ListingFilters, maxPages int, path string) (*ExportResult, error) {
	f, err := export.CreateFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.Infof("🔄 Exporting listings to %s", path)

	result, err := s.ExportListings(ctx, filters, maxPages, f)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", path, err)
	}

	return result, nil
}
