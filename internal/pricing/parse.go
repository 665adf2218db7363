// Package pricing turns raw budget inputs into cost and price figures.
//
// Every amount is a decimal with two fraction digits, rounded half away from
// zero when it is parsed and again when a result is produced. Malformed
// numeric input never fails: it degrades to zero.
package pricing

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fraction digits kept for every amount.
const Places = 2

// MaxIntegerDigits is the widest integer part an amount column holds.
const MaxIntegerDigits = 10

// ParseDecimal parses user-entered numeric text. Both "12,5" and "12.5" give
// 12.50. Empty, unparseable, non-finite or out-of-range input gives 0.00.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	// Check magnitude before Round, which expands the exponent into digits.
	intDigits := int64(d.NumDigits()) + int64(d.Exponent())
	if intDigits > MaxIntegerDigits || intDigits < -Places {
		return decimal.Zero
	}
	return Round(d)
}

// ParseInt parses a whole number, returning def when s is not one.
func ParseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// Round rounds d to Places fraction digits, halves away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Text is numeric input as the client sent it. It accepts a JSON string, a
// JSON number or null, and is only interpreted through Decimal or Int.
type Text string

// UnmarshalJSON keeps the raw value. It never fails so that a bad number
// cannot reject the whole payload.
func (t *Text) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	*t = Text(raw)
	return nil
}

// Decimal parses t with ParseDecimal.
func (t Text) Decimal() decimal.Decimal {
	return ParseDecimal(string(t))
}

// Int parses t with ParseInt.
func (t Text) Int(def int) int {
	return ParseInt(string(t), def)
}
