package catalogs

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/shelf/pkg/errors"
)

// ParseStock parses a stock value typed by a user. Surrounding whitespace is
// ignored; the value is an optional sign followed by digits with at most one
// decimal separator, either '.' or ','. "12,5" therefore parses as 12.5.
// Thousands separators, exponents and non-finite values are rejected with an
// InvalidEditValueError.
func ParseStock(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalidStock(raw, "value is empty")
	}

	body := s
	if body[0] == '+' || body[0] == '-' {
		body = body[1:]
	}

	separators, digits := 0, 0
	for _, r := range body {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',':
			separators++
		default:
			return 0, invalidStock(raw, "not a number")
		}
	}
	if digits == 0 {
		return 0, invalidStock(raw, "not a number")
	}
	if separators > 1 {
		return 0, invalidStock(raw, "more than one decimal separator")
	}

	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return 0, invalidStock(raw, "not a number")
	}
	v, _ := d.Float64()
	return v, nil
}

// FormatStock renders a stock value without trailing zeros.
func FormatStock(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func invalidStock(raw, msg string) error {
	return errors.NewInvalidEditValueError("stock", raw, msg)
}
