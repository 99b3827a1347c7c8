// Package query turns filter mappings into deterministic query strings.
//
// Identical filter sets always encode to byte-identical output: nil values
// are dropped, sequences repeat their key once per element, and the final
// pairs are sorted by key and then value.
package query

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// floatDigits is the number of significant digits kept for float values.
const floatDigits = 10

type Pair struct {
	Key   string
	Value string
}

// Build flattens filters into sorted key/value pairs.
func Build(filters map[string]any) []Pair {
	if len(filters) == 0 {
		return nil
	}

	pairs := make([]Pair, 0, len(filters))
	for key, value := range filters {
		v, ok := deref(reflect.ValueOf(value))
		if !ok {
			continue
		}

		if isSequence(v) {
			for i := 0; i < v.Len(); i++ {
				elem, ok := deref(v.Index(i))
				if !ok {
					continue
				}
				pairs = append(pairs, Pair{Key: key, Value: format(elem)})
			}
			continue
		}

		pairs = append(pairs, Pair{Key: key, Value: format(v)})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Key != pairs[j].Key {
			return pairs[i].Key < pairs[j].Key
		}
		return pairs[i].Value < pairs[j].Value
	})

	return pairs
}

// Encode renders pairs as a URL query string, keeping their order.
func Encode(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Values converts pairs to url.Values. Repeated keys keep the sorted order.
func Values(pairs []Pair) url.Values {
	values := make(url.Values, len(pairs))
	for _, p := range pairs {
		values.Add(p.Key, p.Value)
	}
	return values
}

// FormatFloat renders f without exponent, trimmed to floatDigits
// significant digits.
func FormatFloat(f float64) string {
	return plainDecimal(strconv.FormatFloat(f, 'g', floatDigits, 64))
}

func plainDecimal(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		// NaN and Inf have no decimal form.
		return s
	}
	return d.String()
}

func deref(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func isSequence(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice:
		// []byte is a scalar here.
		return v.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}

func format(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Float32:
		return plainDecimal(strconv.FormatFloat(v.Float(), 'g', -1, 32))
	case reflect.Float64:
		return FormatFloat(v.Float())
	case reflect.String:
		return v.String()
	}
	if v.CanInterface() {
		return fmt.Sprint(v.Interface())
	}
	return v.String()
}
