package jvstgo

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/go-json-experiment/json"
)

// Rat wraps a big.Rat to carry AST numeric keywords (multipleOf, minimum,
// maximum) without the precision loss a float64 would introduce for
// multipleOf checks (spec SPEC_FULL.md §3.4). Adapted from the teacher's
// rat.go, which uses the same wrapper for the validator's numeric
// keywords.
type Rat struct {
	*big.Rat
}

// UnmarshalJSON implements json.Unmarshaler for Rat.
func (r *Rat) UnmarshalJSON(data []byte) error {
	var tmp interface{}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	converted, err := convertToBigRat(tmp)
	if err != nil {
		return err
	}

	r.Rat = converted
	return nil
}

// MarshalJSON implements json.Marshaler for Rat.
func (r *Rat) MarshalJSON() ([]byte, error) {
	formattedValue := FormatRat(r)
	if strings.Contains(formattedValue, "/") {
		return json.Marshal(formattedValue)
	}
	return []byte(formattedValue), nil
}

// convertToBigRat converts a decoded JSON scalar to a big.Rat.
func convertToBigRat(data interface{}) (*big.Rat, error) {
	var str string
	switch v := data.(type) {
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		str = fmt.Sprint(v)
	case string:
		str = v
	default:
		return nil, ErrUnsupportedRatType
	}

	numRat := new(big.Rat)
	if _, ok := numRat.SetString(str); !ok {
		return nil, ErrRatConversion
	}
	return numRat, nil
}

// NewRat creates a Rat from a numeric or numeric-string value, or nil if
// the value cannot be converted.
func NewRat(value interface{}) *Rat {
	converted, err := convertToBigRat(value)
	if err != nil {
		return nil
	}
	return &Rat{converted}
}

// Float64 converts r to the IEEE-754 double the IR's NUM_RANGE bounds and
// comparison expressions require (spec §6.1: TOK_NUM is always a double).
func (r *Rat) Float64() float64 {
	if r == nil {
		return 0
	}
	f, _ := r.Rat.Float64()
	return f
}

// FormatRat formats a Rat as a decimal string, preferring plain integers.
func FormatRat(r *Rat) string {
	if r == nil {
		return "null"
	}

	if r.IsInt() {
		return r.Num().String()
	}

	dec := r.FloatString(10)

	trimmedDec := strings.TrimRight(dec, "0")
	trimmedDec = strings.TrimRight(trimmedDec, ".")

	if trimmedDec == "" {
		return "0"
	}

	return trimmedDec
}
