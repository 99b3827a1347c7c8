package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"csfloat/market/internal/domain"

	"github.com/shopspring/decimal"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeListingsTable(w io.Writer, listings []domain.Listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRICE\tUSD\tFLOAT\tSEED\tPAINT\tDEFIDX\tNAME\tWATCHERS")
	for _, l := range listings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			l.ID,
			optInt64(l.Price),
			majorUnits(l.Price),
			optFloat(l.Item.FloatValue, 6),
			optInt(l.Item.PaintSeed),
			optInt(l.Item.PaintIndex),
			l.Item.DefIndex,
			optString(l.Item.MarketHashName),
			optInt64(l.Watchers),
		)
	}
	return tw.Flush()
}

func writeListingDetail(w io.Writer, l *domain.Listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"id", l.ID},
		{"created_at", l.CreatedAt.Format(time.RFC3339Nano)},
		{"type", l.Type.String()},
		{"price", optInt64(l.Price)},
		{"price_usd", majorUnits(l.Price)},
		{"state", optString(l.State)},
		{"market_hash_name", optString(l.Item.MarketHashName)},
		{"float_value", optFloat(l.Item.FloatValue, -1)},
		{"paint_seed", optInt(l.Item.PaintSeed)},
		{"inspect_link", optString(l.Item.InspectLink)},
		{"seller.steam_id", optString(l.Seller.SteamID)},
		{"watchers", optInt64(l.Watchers)},
	}
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

// majorUnits renders a price given in cents as dollars.
func majorUnits(cents *int64) string {
	if cents == nil {
		return ""
	}
	return decimal.New(*cents, -2).StringFixed(2)
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

func optFloat(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
