package client

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var int64Type = reflect.TypeFor[int64]()

// wireInt is an integer field as the API may send it: a JSON number without
// a fractional part (8900 or 8900.0) or a string of digits ("7"). Anything
// else fails with a *json.UnmarshalTypeError so the decoder reports the
// field path.
type wireInt int64

func (n *wireInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return &json.UnmarshalTypeError{Value: "string " + strconv.Quote(s), Type: int64Type}
		}
		*n = wireInt(v)
		return nil
	}

	if v, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*n = wireInt(v)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: int64Type}
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return &json.UnmarshalTypeError{Value: "number " + string(data), Type: int64Type}
	}
	*n = wireInt(f)
	return nil
}

func (n *wireInt) intPtr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

func (n *wireInt) int64Ptr() *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "value"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	default:
		return "value"
	}
}
