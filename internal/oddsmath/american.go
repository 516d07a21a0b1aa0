// Package oddsmath converts between odds formats.
package oddsmath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DecimalPlaces is the precision of converted decimal odds.
const DecimalPlaces = 3

// ErrInvalidOdds is returned for price text that is not a non-zero American value.
var ErrInvalidOdds = errors.New("invalid odds value")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ParseAmerican reads a quoted moneyline price such as "-150 ML" or "+120".
func ParseAmerican(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, "ML"))
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.TrimPrefix(s, "+")

	american, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOdds, raw)
	}
	if american == 0 {
		return 0, fmt.Errorf("%w: %q is zero", ErrInvalidOdds, raw)
	}
	return american, nil
}

// AmericanToDecimal converts American odds to decimal odds rounded to three
// places, half away from zero.
// American +150 → Decimal 2.5
// American -150 → Decimal 1.667
func AmericanToDecimal(american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Zero, fmt.Errorf("%w: american odds cannot be 0", ErrInvalidOdds)
	}

	a := decimal.NewFromInt(int64(american))
	if american > 0 {
		return a.Div(hundred).Add(one).Round(DecimalPlaces), nil
	}
	return hundred.Div(a.Neg()).Add(one).Round(DecimalPlaces), nil
}

// PriceToDecimal parses a quoted price and converts it in one step.
func PriceToDecimal(raw string) (decimal.Decimal, error) {
	american, err := ParseAmerican(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return AmericanToDecimal(american)
}
