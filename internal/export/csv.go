package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"csfloat/market/internal/domain"
)

// Columns is the header row of a listings export, in order.
var Columns = []string{
	"id",
	"created_at",
	"type",
	"price",
	"state",
	"market_hash_name",
	"float_value",
	"paint_seed",
	"paint_index",
	"def_index",
	"inspect_link",
	"seller_steam_id",
	"watchers",
	"min_offer_price",
}

// CSVWriter writes listings as CSV rows. The header is written on creation.
type CSVWriter struct {
	w     *csv.Writer
	count int
}

func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{w: csv.NewWriter(w)}
	if err := cw.w.Write(Columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	return cw, nil
}

func (c *CSVWriter) Write(l domain.Listing) error {
	if err := c.w.Write(Row(l)); err != nil {
		return fmt.Errorf("failed to write listing %s: %w", l.ID, err)
	}
	c.count++
	return nil
}

func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// Count returns the number of data rows written, header excluded.
func (c *CSVWriter) Count() int {
	return c.count
}

// Row renders a listing in Columns order. Absent values are empty strings.
func Row(l domain.Listing) []string {
	return []string{
		l.ID,
		l.CreatedAt.Format(time.RFC3339Nano),
		l.Type.String(),
		optInt64(l.Price),
		optString(l.State),
		optString(l.Item.MarketHashName),
		optFloat(l.Item.FloatValue),
		optInt(l.Item.PaintSeed),
		optInt(l.Item.PaintIndex),
		strconv.Itoa(l.Item.DefIndex),
		optString(l.Item.InspectLink),
		optString(l.Seller.SteamID),
		optInt64(l.Watchers),
		optInt64(l.MinOfferPrice),
	}
}

// CreateFile creates path for writing, along with any missing parent
// directories.
func CreateFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
